package model

import (
	"fmt"

	"github.com/okian/presence/internal/domain/date"
)

// Defaults used when the host does not override the window.
const (
	DefaultWindowYears   = 2
	DefaultThresholdDays = 365
)

// WindowSpec sizes the trailing window and the eligibility threshold.
type WindowSpec struct {
	WindowYears   int `json:"window_years"`
	ThresholdDays int `json:"threshold_days"`
}

// DefaultWindowSpec returns {2, 365}.
func DefaultWindowSpec() WindowSpec {
	return WindowSpec{WindowYears: DefaultWindowYears, ThresholdDays: DefaultThresholdDays}
}

// Validate rejects windows that cannot be evaluated.
func (s WindowSpec) Validate() error {
	if s.WindowYears < 1 {
		return fmt.Errorf("%w: window_years must be >= 1, got %d", ErrInvalidWindow, s.WindowYears)
	}
	if s.ThresholdDays < 0 {
		return fmt.Errorf("%w: threshold_days must be >= 0, got %d", ErrInvalidWindow, s.ThresholdDays)
	}
	return nil
}

// Eligible reports whether daysPresent meets the threshold.
func (s WindowSpec) Eligible(daysPresent int) bool { return daysPresent >= s.ThresholdDays }

// Deduction is the share of one interval that fell inside the window.
type Deduction struct {
	Interval     Interval `json:"interval"`
	DaysDeducted int      `json:"days_deducted"`
	Future       bool     `json:"future"`
}

// EvaluationResult is derived on every query and never stored.
type EvaluationResult struct {
	TargetDate         date.Date   `json:"target_date"`
	WindowStart        date.Date   `json:"window_start"`
	TotalWindowDays    int         `json:"total_window_days"`
	DaysPresent        int         `json:"days_present"`
	DaysAbsent         int         `json:"days_absent"`
	Deductions         []Deduction `json:"deductions"`
	FutureConflictDays int         `json:"future_conflict_days"`
}

// Shortfall is threshold - present. It is positive when the target misses
// the threshold and may exceed the threshold when present is negative.
func (r EvaluationResult) Shortfall(spec WindowSpec) int {
	return spec.ThresholdDays - r.DaysPresent
}

// TrendPoint is one day of a trend series.
type TrendPoint struct {
	Date        date.Date `json:"date"`
	DaysPresent int       `json:"days_present"`
}

// Direction tells which way a crossing went.
type Direction int

const (
	BelowToAbove Direction = iota + 1
	AboveToBelow
)

func (d Direction) String() string {
	switch d {
	case BelowToAbove:
		return "below_to_above"
	case AboveToBelow:
		return "above_to_below"
	default:
		return "unknown"
	}
}

// MarshalText encodes the direction name.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "below_to_above":
		*d = BelowToAbove
	case "above_to_below":
		*d = AboveToBelow
	default:
		return fmt.Errorf("unknown direction %q", string(b))
	}
	return nil
}

// CrossingEvent marks the first date on the other side of the threshold.
type CrossingEvent struct {
	Date      date.Date `json:"date"`
	Direction Direction `json:"direction"`
}
