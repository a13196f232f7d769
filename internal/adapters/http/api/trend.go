package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/trend"
	"github.com/okian/presence/internal/domain/types"
)

// TrendDependencies defines the interface for trend scans.
type TrendDependencies interface {
	Trend(ctx context.Context, center date.Date, radiusDays int) (types.Trend, error)
}

// TrendHandler handles trend requests.
type TrendHandler struct {
	deps          TrendDependencies
	defaultRadius int
}

// NewTrendHandler creates a new trend handler.
func NewTrendHandler(deps TrendDependencies, defaultRadius int) *TrendHandler {
	return &TrendHandler{deps: deps, defaultRadius: defaultRadius}
}

// HandleTrend handles GET /trend?date=YYYY-MM-DD&radius=N.
func (h *TrendHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	const op = "api.trend"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GET")
		return
	}
	center, err := parseDateParam(r, "date")
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}

	radius := h.defaultRadius
	if raw := r.URL.Query().Get("radius"); raw != "" {
		radius, err = strconv.Atoi(raw)
		if err != nil {
			writeServiceError(w, WrapKind(op, trend.ErrInvalidRadius, err))
			return
		}
	}

	res, err := h.deps.Trend(r.Context(), center, radius)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
