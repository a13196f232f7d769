package api

import (
	"context"
	"net/http"

	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/types"
)

// EvaluateDependencies defines the interface for evaluations.
type EvaluateDependencies interface {
	Evaluate(ctx context.Context, target date.Date) types.Evaluation
}

// EvaluateHandler handles evaluation requests.
type EvaluateHandler struct {
	deps EvaluateDependencies
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps EvaluateDependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

// HandleEvaluate handles GET /evaluate?date=YYYY-MM-DD. date defaults to today.
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "api.evaluate"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GET")
		return
	}
	target, err := parseDateParam(r, "date")
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Evaluate(r.Context(), target))
}
