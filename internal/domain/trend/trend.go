// Package trend scans presence across consecutive query dates and detects
// where it crosses the eligibility threshold.
package trend

import (
	"fmt"

	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/model"
	"github.com/okian/presence/internal/domain/window"
)

// Result is a trend series plus its threshold crossings.
type Result struct {
	Series    []model.TrendPoint    `json:"series"`
	Crossings []model.CrossingEvent `json:"crossings"`
}

// Range returns the first and last dates of a scan around center.
func Range(center date.Date, radiusDays int) (date.Date, date.Date) {
	return center.AddDays(-radiusDays), center.AddDays(radiusDays)
}

// Scan evaluates every day from center-radius to center+radius inclusive.
//
// The previous value is seeded from an evaluation at the first date, so the
// first date can never be a crossing. now is accepted so callers thread one
// clock read through the whole scan; it does not affect presence counts.
func Scan(center date.Date, radiusDays int, intervals []model.Interval, spec model.WindowSpec, now date.Date) (Result, error) {
	if radiusDays < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidRadius, radiusDays)
	}
	first, _ := Range(center, radiusDays)
	series := Series(first, 2*radiusDays+1, intervals, spec, now)
	return Result{
		Series:    series,
		Crossings: Crossings(series, spec.ThresholdDays),
	}, nil
}

// Series evaluates n consecutive days starting at first.
func Series(first date.Date, n int, intervals []model.Interval, spec model.WindowSpec, now date.Date) []model.TrendPoint {
	if n < 0 {
		n = 0
	}
	points := make([]model.TrendPoint, n)
	for i := range points {
		d := first.AddDays(i)
		points[i] = model.TrendPoint{
			Date:        d,
			DaysPresent: window.Evaluate(d, intervals, spec, now).DaysPresent,
		}
	}
	return points
}

// Crossings walks an ordered series and emits an event at every date whose
// eligibility differs from the day before.
func Crossings(series []model.TrendPoint, threshold int) []model.CrossingEvent {
	crossings := make([]model.CrossingEvent, 0)
	if len(series) == 0 {
		return crossings
	}

	prev := series[0].DaysPresent
	for _, p := range series[1:] {
		wasAbove := prev >= threshold
		isAbove := p.DaysPresent >= threshold
		if wasAbove != isAbove {
			dir := model.BelowToAbove
			if wasAbove {
				dir = model.AboveToBelow
			}
			crossings = append(crossings, model.CrossingEvent{Date: p.Date, Direction: dir})
		}
		prev = p.DaysPresent
	}
	return crossings
}
