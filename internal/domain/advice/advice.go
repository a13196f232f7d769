// Package advice turns an evaluation into a status the host can show.
package advice

import (
	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/model"
)

// Status of a target date against the threshold.
type Status string

const (
	StatusEligible Status = "eligible"
	StatusWarning  Status = "warning"
)

// Cause explains a shortfall.
type Cause string

const (
	CauseNone Cause = ""
	// CauseFutureTrips means planned trips can still be shortened.
	CauseFutureTrips Cause = "future_trips"
	// CausePastAbsences means the gap closes only as old absences leave the window.
	CausePastAbsences Cause = "past_absences"
)

// Advice summarises an evaluation.
type Advice struct {
	Status               Status `json:"status"`
	Margin               int    `json:"margin"`
	Shortfall            int    `json:"shortfall,omitempty"`
	Cause                Cause  `json:"cause,omitempty"`
	ShortenFutureTripsBy int    `json:"shorten_future_trips_by,omitempty"`
}

// Advise classifies res against spec.
func Advise(res model.EvaluationResult, spec model.WindowSpec) Advice {
	a := Advice{
		Status: StatusEligible,
		Margin: res.DaysPresent - spec.ThresholdDays,
	}
	if spec.Eligible(res.DaysPresent) {
		return a
	}

	a.Status = StatusWarning
	a.Shortfall = res.Shortfall(spec)
	if res.FutureConflictDays > 0 {
		a.Cause = CauseFutureTrips
		a.ShortenFutureTripsBy = a.Shortfall
	} else {
		a.Cause = CausePastAbsences
	}
	return a
}

// TripKind labels a trip relative to now.
type TripKind string

const (
	TripPast   TripKind = "past"
	TripFuture TripKind = "future"
)

// ClassifyTrip returns TripFuture when iv starts after now.
func ClassifyTrip(iv model.Interval, now date.Date) TripKind {
	if iv.Start.After(now) {
		return TripFuture
	}
	return TripPast
}
