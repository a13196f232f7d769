package date

import "errors"

// ErrInvalidDate is returned for input that is not a real calendar date.
var ErrInvalidDate = errors.New("invalid date")
