package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/presence/internal/adapters/repository"
	"github.com/okian/presence/internal/adapters/share"
	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/dedupe"
	"github.com/okian/presence/internal/domain/model"
	"github.com/okian/presence/internal/domain/trend"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest       = errors.New("bad request")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrMissingID        = errors.New("missing trip id")
)

// Wrap prefixes err with the operation name.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind tags err with a sentinel kind so errors.Is matches both.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// NewKind returns a bare sentinel kind for op.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// errorMapping pairs a sentinel with the status and code it is served as.
// Order matters: the first match wins.
var errorMapping = []struct {
	kind   error
	status int
	code   string
}{
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{ErrMissingID, http.StatusBadRequest, "bad_request"},
	{share.ErrDecode, http.StatusBadRequest, "invalid_share"},
	{date.ErrInvalidDate, http.StatusBadRequest, "invalid_date"},
	{model.ErrInvalidInterval, http.StatusBadRequest, "invalid_interval"},
	{trend.ErrInvalidRadius, http.StatusBadRequest, "invalid_radius"},
	{repository.ErrNotFound, http.StatusNotFound, "not_found"},
	{dedupe.ErrConflict, http.StatusConflict, "idempotency_conflict"},
	{repository.ErrClosed, http.StatusServiceUnavailable, "unavailable"},
}

// writeServiceError translates a wrapped sentinel into a status and code.
func writeServiceError(w http.ResponseWriter, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.kind) {
			writeError(w, m.status, m.code, err)
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
