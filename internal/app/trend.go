package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/model"
	"github.com/okian/presence/internal/domain/trend"
	"github.com/okian/presence/internal/domain/types"
	"github.com/okian/presence/pkg/logger"
	"github.com/okian/presence/pkg/metrics"
)

// Trend scans center-radius .. center+radius against the current collection.
// A zero center means today.
//
// Scans longer than the chunk size are split across goroutines. Crossings
// are detected once over the stitched series, so the result is identical to
// a sequential trend.Scan.
func (s *Service) Trend(ctx context.Context, center date.Date, radiusDays int) (types.Trend, error) {
	const op = "service.trend"

	if radiusDays < 0 {
		return types.Trend{}, fmt.Errorf("%s: %w: %d", op, trend.ErrInvalidRadius, radiusDays)
	}
	if radiusDays > s.maxTrendRadius {
		return types.Trend{}, fmt.Errorf("%s: %w: %d > %d", op, ErrRadiusTooLarge, radiusDays, s.maxTrendRadius)
	}

	now := s.Today()
	if center.IsZero() {
		center = now
	}
	ivs := s.store.Snapshot(ctx).Intervals
	n := 2*radiusDays + 1
	started := time.Now()

	var res trend.Result
	if s.scanChunkDays == 0 || n <= s.scanChunkDays {
		var err error
		res, err = trend.Scan(center, radiusDays, ivs, s.spec, now)
		if err != nil {
			return types.Trend{}, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		first, _ := trend.Range(center, radiusDays)
		series, err := s.scanChunked(ctx, first, n, ivs, now)
		if err != nil {
			metrics.RecordErrorByComponent("trend", "chunked_scan")
			return types.Trend{}, fmt.Errorf("%s: %w", op, err)
		}
		res = trend.Result{
			Series:    series,
			Crossings: trend.Crossings(series, s.spec.ThresholdDays),
		}
	}

	metrics.RecordScan(n, float64(time.Since(started).Milliseconds()))
	for _, c := range res.Crossings {
		metrics.RecordCrossing(c.Direction.String())
	}
	s.logger.Debug(ctx, "trend scanned",
		logger.Stringer("center", center),
		logger.Int("radius", radiusDays),
		logger.Int("crossings", len(res.Crossings)),
	)

	return types.Trend{
		Center:     center,
		RadiusDays: radiusDays,
		Window:     s.spec,
		Result:     res,
	}, nil
}

// scanChunked evaluates n days starting at first in chunks of scanChunkDays,
// at most scanWorkers at a time. Each chunk writes its own slice range.
func (s *Service) scanChunked(ctx context.Context, first date.Date, n int, ivs []model.Interval, now date.Date) ([]model.TrendPoint, error) {
	series := make([]model.TrendPoint, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.scanWorkers)

	for lo := 0; lo < n; lo += s.scanChunkDays {
		lo := lo // per-iteration copy (go directive < 1.22)
		hi := min(lo+s.scanChunkDays, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			copy(series[lo:hi], trend.Series(first.AddDays(lo), hi-lo, ivs, s.spec, now))
			metrics.RecordScanChunk()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return series, nil
}
