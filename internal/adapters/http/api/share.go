package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/presence/internal/domain/types"
)

// ShareDependencies defines the interface for import and export.
type ShareDependencies interface {
	Export(ctx context.Context) (types.Share, error)
	Import(ctx context.Context, data string) ([]types.TripView, error)
}

// ShareHandler handles share requests.
type ShareHandler struct {
	deps ShareDependencies
}

// NewShareHandler creates a new share handler.
func NewShareHandler(deps ShareDependencies) *ShareHandler {
	return &ShareHandler{deps: deps}
}

type shareRequest struct {
	Data string `json:"data"`
}

// HandleShare handles GET /share (export) and POST /share (replace all).
func (h *ShareHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	const op = "api.share"

	switch r.Method {
	case http.MethodGet:
		out, err := h.deps.Export(r.Context())
		if err != nil {
			writeServiceError(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req shareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeServiceError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		trips, err := h.deps.Import(r.Context(), req.Data)
		if err != nil {
			writeServiceError(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, trips)
	default:
		methodNotAllowed(w, r, "GET, POST")
	}
}
