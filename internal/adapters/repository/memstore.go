package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/okian/presence/internal/domain/model"
	"github.com/okian/presence/pkg/metrics"
)

// Snapshot is an immutable view of the collection at one point in time.
type Snapshot struct {
	// Trips are ordered by start date, then id, for display.
	Trips []model.Trip
	// Intervals mirror Trips without ids, ready for the evaluator.
	Intervals []model.Interval
	// Version increases by one with every mutation.
	Version uint64
}

// MemoryStore keeps trips in a map guarded by a mutex and republishes a
// sorted Snapshot after every write.
type MemoryStore struct {
	mu       sync.Mutex
	byID     map[string]model.Interval
	snapshot atomic.Pointer[Snapshot]
	newID    func() string
	closed   bool
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:  make(map[string]model.Interval),
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.publishLocked(0)
	return s
}

func (s *MemoryStore) Add(_ context.Context, iv model.Interval) (model.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return model.Trip{}, ErrClosed
	}
	t := model.Trip{ID: s.newID(), Interval: iv}
	s.byID[t.ID] = iv
	s.publishLocked(s.version() + 1)
	return t, nil
}

func (s *MemoryStore) Replace(_ context.Context, id string, iv model.Interval) (model.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return model.Trip{}, ErrClosed
	}
	if _, ok := s.byID[id]; !ok {
		return model.Trip{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.byID[id] = iv
	s.publishLocked(s.version() + 1)
	return model.Trip{ID: id, Interval: iv}, nil
}

func (s *MemoryStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, ok := s.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.byID, id)
	s.publishLocked(s.version() + 1)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (model.Trip, error) {
	for _, t := range s.Snapshot(ctx).Trips {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Trip{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *MemoryStore) ReplaceAll(_ context.Context, ivs []model.Interval) ([]model.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	s.byID = make(map[string]model.Interval, len(ivs))
	for _, iv := range ivs {
		s.byID[s.newID()] = iv
	}
	s.publishLocked(s.version() + 1)
	return s.snapshot.Load().Trips, nil
}

// Snapshot never blocks on writers.
func (s *MemoryStore) Snapshot(_ context.Context) *Snapshot {
	return s.snapshot.Load()
}

func (s *MemoryStore) Count(ctx context.Context) int {
	return len(s.Snapshot(ctx).Trips)
}

// Close rejects further writes. Reads keep serving the last snapshot.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MemoryStore) version() uint64 {
	if snap := s.snapshot.Load(); snap != nil {
		return snap.Version
	}
	return 0
}

// publishLocked must be called with s.mu held.
func (s *MemoryStore) publishLocked(version uint64) {
	trips := make([]model.Trip, 0, len(s.byID))
	for id, iv := range s.byID {
		trips = append(trips, model.Trip{ID: id, Interval: iv})
	}
	slices.SortFunc(trips, func(a, b model.Trip) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	s.snapshot.Store(&Snapshot{
		Trips:     trips,
		Intervals: model.Intervals(trips),
		Version:   version,
	})
	metrics.UpdateTotalTrips(len(trips))
}
