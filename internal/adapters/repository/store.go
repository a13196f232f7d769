// Package repository holds the host-owned collection of trips.
package repository

import (
	"context"

	"github.com/okian/presence/internal/domain/model"
)

// Store provides read/write access to the trip collection.
//
// Writers are serialised; readers always see a complete snapshot, never a
// half-applied mutation.
type Store interface {
	// Add stores a new trip and returns it with its generated id.
	Add(ctx context.Context, iv model.Interval) (model.Trip, error)
	// Replace swaps the interval of an existing trip wholesale.
	// Returns ErrNotFound if id is unknown.
	Replace(ctx context.Context, id string, iv model.Interval) (model.Trip, error)
	// Remove deletes a trip. Returns ErrNotFound if id is unknown.
	Remove(ctx context.Context, id string) error
	// Get returns one trip. Returns ErrNotFound if id is unknown.
	Get(ctx context.Context, id string) (model.Trip, error)
	// ReplaceAll drops every trip and stores intervals as new trips.
	ReplaceAll(ctx context.Context, ivs []model.Interval) ([]model.Trip, error)

	// Snapshot returns the current immutable view of the collection.
	Snapshot(ctx context.Context) *Snapshot
	// Count returns the number of trips.
	Count(ctx context.Context) int
}
