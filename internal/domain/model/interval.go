// Package model contains domain models passed between layers.
package model

import (
	"fmt"

	"github.com/okian/presence/internal/domain/date"
)

// Interval is one continuous period of absence, both ends inclusive on the
// calendar. Start <= End always holds for values built with NewInterval.
type Interval struct {
	Start date.Date `json:"start"`
	End   date.Date `json:"end"`
}

// NewInterval validates start <= end.
func NewInterval(start, end date.Date) (Interval, error) {
	if start.IsZero() || end.IsZero() {
		return Interval{}, fmt.Errorf("%w: missing boundary", ErrInvalidInterval)
	}
	if start.After(end) {
		return Interval{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidInterval, start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// ParseInterval builds an Interval from two YYYY-MM-DD strings.
func ParseInterval(start, end string) (Interval, error) {
	s, err := date.Parse(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := date.Parse(end)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(s, e)
}

// Days is End - Start.
func (iv Interval) Days() int { return iv.End.Sub(iv.Start) }

func (iv Interval) String() string { return iv.Start.String() + ".." + iv.End.String() }

// Trip is an Interval owned by the host's collection.
type Trip struct {
	ID string `json:"id"`
	Interval
}

// Intervals strips ids from trips.
func Intervals(trips []Trip) []Interval {
	out := make([]Interval, len(trips))
	for i, t := range trips {
		out[i] = t.Interval
	}
	return out
}
