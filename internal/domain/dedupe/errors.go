package dedupe

import "errors"

// ErrConflict is returned by callers when a key was already claimed but its
// result cannot be replayed.
var ErrConflict = errors.New("idempotency key already used")
