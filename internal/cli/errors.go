package cli

import "errors"

var (
	// ErrNoInput is returned when neither --data nor --file is given.
	ErrNoInput = errors.New("no trips given; use --data or --file")
	// ErrConflictingInput is returned when both --data and --file are given.
	ErrConflictingInput = errors.New("--data and --file are mutually exclusive")
)
