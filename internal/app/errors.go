package service

import (
	"fmt"

	"github.com/okian/presence/internal/domain/trend"
)

// ErrRadiusTooLarge is returned when a trend radius exceeds the configured cap.
// It wraps trend.ErrInvalidRadius so callers can treat both alike.
var ErrRadiusTooLarge = fmt.Errorf("%w: exceeds maximum", trend.ErrInvalidRadius)
