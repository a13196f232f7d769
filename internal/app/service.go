// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/presence/internal/adapters/repository"
	"github.com/okian/presence/internal/adapters/share"
	"github.com/okian/presence/internal/domain/advice"
	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/dedupe"
	"github.com/okian/presence/internal/domain/model"
	"github.com/okian/presence/internal/domain/types"
	"github.com/okian/presence/internal/domain/window"
	"github.com/okian/presence/pkg/logger"
	"github.com/okian/presence/pkg/metrics"
)

const (
	defaultMaxTrendRadius  = 3660
	defaultScanChunkDays   = 366
	defaultIdempotencySize = 10_000
)

// Service implements the API dependencies for the presence tracker.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	deduper dedupe.Deduper

	// Configuration
	spec            model.WindowSpec
	clock           func() time.Time
	maxTrendRadius  int
	scanChunkDays   int
	scanWorkers     int
	idempotencySize int

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the wall clock used to derive today's date.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithWindowSpec sets the trailing window and threshold. Invalid specs are ignored.
func WithWindowSpec(spec model.WindowSpec) Option {
	return func(s *Service) {
		if spec.Validate() == nil {
			s.spec = spec
		}
	}
}

// WithMaxTrendRadius caps the radius accepted by Trend.
func WithMaxTrendRadius(radius int) Option {
	return func(s *Service) {
		if radius >= 0 {
			s.maxTrendRadius = radius
		}
	}
}

// WithScanChunkDays sets the number of days evaluated per concurrent chunk.
// Scans no longer than this run on the calling goroutine; 0 disables chunking.
func WithScanChunkDays(days int) Option {
	return func(s *Service) {
		if days >= 0 {
			s.scanChunkDays = days
		}
	}
}

// WithScanWorkers bounds the goroutines used by a chunked scan.
func WithScanWorkers(workers int) Option {
	return func(s *Service) {
		if workers > 0 {
			s.scanWorkers = workers
		}
	}
}

// WithIdempotencySize bounds the remembered Idempotency-Key values.
func WithIdempotencySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.idempotencySize = size
		}
	}
}

// WithStore replaces the default in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		spec:            model.DefaultWindowSpec(),
		clock:           time.Now,
		maxTrendRadius:  defaultMaxTrendRadius,
		scanChunkDays:   defaultScanChunkDays,
		scanWorkers:     runtime.NumCPU(),
		idempotencySize: defaultIdempotencySize,
		logger:          logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.idempotencySize))

	return s
}

// Start marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.started = true
	s.logger.Info(ctx, "presence service started",
		logger.Int("windowYears", s.spec.WindowYears),
		logger.Int("thresholdDays", s.spec.ThresholdDays),
		logger.Int("scanChunkDays", s.scanChunkDays),
		logger.Int("scanWorkers", s.scanWorkers),
		logger.Int("trips", s.store.Count(ctx)),
	)

	return nil
}

// Stop closes the store. Reads keep serving the last snapshot.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping presence service...")

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "presence service stopped")
}

// Today returns the current date according to the service clock.
func (s *Service) Today() date.Date {
	return date.Today(s.clock)
}

// WindowSpec returns the window every evaluation uses.
func (s *Service) WindowSpec() model.WindowSpec {
	return s.spec
}

// AddTrip stores a new trip.
//
// A non-empty idempotencyKey makes retries safe: a replay returns the trip
// created by the first request and replayed=true.
func (s *Service) AddTrip(ctx context.Context, iv model.Interval, idempotencyKey string) (trip types.TripView, replayed bool, err error) {
	const op = "service.add_trip"

	iv, err = model.NewInterval(iv.Start, iv.End)
	if err != nil {
		return types.TripView{}, false, fmt.Errorf("%s: %w", op, err)
	}

	if idempotencyKey != "" {
		if id, seen := s.deduper.SeenAndRecord(ctx, idempotencyKey); seen {
			return s.replay(ctx, op, idempotencyKey, id)
		}
	}

	t, err := s.store.Add(ctx, iv)
	if err != nil {
		if idempotencyKey != "" {
			s.deduper.Unrecord(ctx, idempotencyKey)
		}
		metrics.RecordErrorByComponent("store", "add")
		return types.TripView{}, false, fmt.Errorf("%s: %w", op, err)
	}
	if idempotencyKey != "" {
		s.deduper.Bind(ctx, idempotencyKey, t.ID)
	}

	metrics.RecordTripMutation("add")
	s.logger.Info(ctx, "trip added",
		logger.String("tripID", t.ID),
		logger.Stringer("interval", t.Interval),
	)
	return types.NewTripView(t, s.Today()), false, nil
}

func (s *Service) replay(ctx context.Context, op, key, id string) (types.TripView, bool, error) {
	if id == "" {
		return types.TripView{}, true, fmt.Errorf("%s: %w: request still in flight", op, dedupe.ErrConflict)
	}
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return types.TripView{}, true, fmt.Errorf("%s: %w: %w", op, dedupe.ErrConflict, err)
	}
	metrics.RecordIdempotentReplay()
	s.logger.Debug(ctx, "idempotent replay",
		logger.String("key", key),
		logger.String("tripID", id),
	)
	return types.NewTripView(t, s.Today()), true, nil
}

// UpdateTrip replaces the interval of an existing trip.
func (s *Service) UpdateTrip(ctx context.Context, id string, iv model.Interval) (types.TripView, error) {
	const op = "service.update_trip"

	iv, err := model.NewInterval(iv.Start, iv.End)
	if err != nil {
		return types.TripView{}, fmt.Errorf("%s: %w", op, err)
	}
	t, err := s.store.Replace(ctx, id, iv)
	if err != nil {
		metrics.RecordErrorByComponent("store", "replace")
		return types.TripView{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.RecordTripMutation("update")
	s.logger.Info(ctx, "trip updated",
		logger.String("tripID", t.ID),
		logger.Stringer("interval", t.Interval),
	)
	return types.NewTripView(t, s.Today()), nil
}

// DeleteTrip removes a trip.
func (s *Service) DeleteTrip(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		metrics.RecordErrorByComponent("store", "remove")
		return fmt.Errorf("service.delete_trip: %w", err)
	}
	metrics.RecordTripMutation("delete")
	s.logger.Info(ctx, "trip deleted", logger.String("tripID", id))
	return nil
}

// GetTrip returns one trip.
func (s *Service) GetTrip(ctx context.Context, id string) (types.TripView, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return types.TripView{}, fmt.Errorf("service.get_trip: %w", err)
	}
	return types.NewTripView(t, s.Today()), nil
}

// ListTrips returns every trip ordered by start date.
func (s *Service) ListTrips(ctx context.Context) []types.TripView {
	snap := s.store.Snapshot(ctx)
	now := s.Today()

	out := make([]types.TripView, len(snap.Trips))
	for i, t := range snap.Trips {
		out[i] = types.NewTripView(t, now)
	}
	return out
}

// Evaluate computes presence for target against the current collection.
// A zero target means today.
func (s *Service) Evaluate(ctx context.Context, target date.Date) types.Evaluation {
	now := s.Today()
	if target.IsZero() {
		target = now
	}
	snap := s.store.Snapshot(ctx)

	res := window.Evaluate(target, snap.Intervals, s.spec, now)
	adv := advice.Advise(res, s.spec)

	metrics.RecordEvaluation()
	if adv.Status == advice.StatusWarning {
		metrics.RecordShortfall(string(adv.Cause))
	}
	s.logger.Debug(ctx, "evaluated",
		logger.Stringer("target", target),
		logger.Int("daysPresent", res.DaysPresent),
		logger.Int("futureConflictDays", res.FutureConflictDays),
		logger.Any("version", snap.Version),
	)

	return types.Evaluation{EvaluationResult: res, Window: s.spec, Advice: adv}
}

// Export encodes the current collection in compact share form.
func (s *Service) Export(ctx context.Context) (types.Share, error) {
	const op = "service.export"

	ivs := s.store.Snapshot(ctx).Intervals
	data, err := share.Encode(ivs)
	if err != nil {
		return types.Share{}, fmt.Errorf("%s: %w", op, err)
	}
	query, err := share.EncodeQuery(ivs)
	if err != nil {
		return types.Share{}, fmt.Errorf("%s: %w", op, err)
	}
	return types.Share{Data: data, Query: query}, nil
}

// Import replaces the whole collection with the decoded share string.
// Nothing changes when decoding fails.
func (s *Service) Import(ctx context.Context, data string) ([]types.TripView, error) {
	const op = "service.import"

	ivs, err := share.Decode(data)
	if err != nil {
		metrics.RecordErrorByComponent("share", "decode")
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	trips, err := s.store.ReplaceAll(ctx, ivs)
	if err != nil {
		metrics.RecordErrorByComponent("store", "replace_all")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.RecordTripMutation("import")
	s.logger.Info(ctx, "trips imported", logger.Int("count", len(trips)))

	now := s.Today()
	out := make([]types.TripView, len(trips))
	for i, t := range trips {
		out[i] = types.NewTripView(t, now)
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	snap := s.store.Snapshot(ctx)
	now := s.Today()
	today := window.Evaluate(now, snap.Intervals, s.spec, now)

	stats := map[string]interface{}{
		"started":         s.started,
		"windowYears":     s.spec.WindowYears,
		"thresholdDays":   s.spec.ThresholdDays,
		"maxTrendRadius":  s.maxTrendRadius,
		"scanChunkDays":   s.scanChunkDays,
		"scanWorkers":     s.scanWorkers,
		"idempotencySize": s.idempotencySize,
		"idempotencyKeys": s.deduper.Size(),
		"totalTrips":      len(snap.Trips),
		"version":         snap.Version,
		"today":           now.String(),
		"daysPresent":     today.DaysPresent,
		"eligible":        s.spec.Eligible(today.DaysPresent),
	}

	metrics.UpdateTotalTrips(len(snap.Trips))

	return stats
}
