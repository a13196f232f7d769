package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithIDGenerator replaces the uuid generator, mainly for tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemoryStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}
