// Package types contains the read shapes shared by the service and the HTTP API.
package types

import (
	"github.com/okian/presence/internal/domain/advice"
	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/model"
	"github.com/okian/presence/internal/domain/trend"
)

// TripView is a stored trip labelled past or future relative to today.
type TripView struct {
	model.Trip
	Days   int             `json:"days"`
	Status advice.TripKind `json:"status"`
}

// NewTripView labels t relative to now.
func NewTripView(t model.Trip, now date.Date) TripView {
	return TripView{
		Trip:   t,
		Days:   t.Days(),
		Status: advice.ClassifyTrip(t.Interval, now),
	}
}

// Evaluation is an evaluation result plus the advice derived from it.
type Evaluation struct {
	model.EvaluationResult
	Window model.WindowSpec `json:"window"`
	Advice advice.Advice    `json:"advice"`
}

// Trend is a trend scan with the parameters it ran with.
type Trend struct {
	Center     date.Date        `json:"center"`
	RadiusDays int              `json:"radius_days"`
	Window     model.WindowSpec `json:"window"`
	trend.Result
}

// Share is the compact form of the whole collection.
type Share struct {
	// Data is the JSON array of {"s","e"} records, "" when empty.
	Data string `json:"data"`
	// Query is Data as a "data=..." query string for share links.
	Query string `json:"query,omitempty"`
}
