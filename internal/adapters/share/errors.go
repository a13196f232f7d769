package share

import "errors"

// Sentinel kinds for share codec errors.
var (
	ErrEncode = errors.New("share encode failed")
	ErrDecode = errors.New("share decode failed")
)
