// Package window computes presence inside the trailing window ending at a
// target date.
package window

import (
	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/model"
)

// Start returns the first day of the window ending at target.
func Start(target date.Date, spec model.WindowSpec) date.Date {
	return target.YearsBefore(spec.WindowYears)
}

// Evaluate counts the days of [windowStart, target] covered by intervals.
//
// Each interval is clipped to the window and contributes end - start days when
// the clipped range is non-empty. Overlapping intervals are counted once each.
// Intervals starting after now are also summed into FutureConflictDays.
// Intervals are assumed valid; Evaluate does not re-check start <= end.
func Evaluate(target date.Date, intervals []model.Interval, spec model.WindowSpec, now date.Date) model.EvaluationResult {
	start := Start(target, spec)
	res := model.EvaluationResult{
		TargetDate:      target,
		WindowStart:     start,
		TotalWindowDays: target.Sub(start),
		Deductions:      make([]model.Deduction, 0, len(intervals)),
	}

	for _, iv := range intervals {
		days := Overlap(iv, start, target)
		if days == 0 {
			continue
		}
		future := iv.Start.After(now)
		res.DaysAbsent += days
		if future {
			res.FutureConflictDays += days
		}
		res.Deductions = append(res.Deductions, model.Deduction{
			Interval:     iv,
			DaysDeducted: days,
			Future:       future,
		})
	}

	res.DaysPresent = res.TotalWindowDays - res.DaysAbsent
	return res
}

// Overlap returns how many days of iv fall within [from, to], or 0 when the
// clipped range is empty or inverted.
func Overlap(iv model.Interval, from, to date.Date) int {
	effStart := date.Max(iv.Start, from)
	effEnd := date.Min(iv.End, to)
	if !effStart.Before(effEnd) {
		return 0
	}
	return effEnd.Sub(effStart)
}
