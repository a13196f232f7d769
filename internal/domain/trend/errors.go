package trend

import "errors"

// ErrInvalidRadius is returned for a negative scan radius.
var ErrInvalidRadius = errors.New("invalid scan radius")
