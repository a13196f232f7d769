package model

import "errors"

// Sentinel kinds for domain validation.
var (
	ErrInvalidInterval = errors.New("invalid interval")
	ErrInvalidWindow   = errors.New("invalid window spec")
)
