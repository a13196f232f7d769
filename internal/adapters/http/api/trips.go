package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// IdempotencyKeyHeader makes POST /trips safe to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

// TripsHandler handles trip collection requests.
type TripsHandler struct {
	deps TripDependencies
}

// NewTripsHandler creates a new trips handler.
func NewTripsHandler(deps TripDependencies) *TripsHandler {
	return &TripsHandler{deps: deps}
}

// HandleTrips handles GET and POST /trips.
func (h *TripsHandler) HandleTrips(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.ListTrips(r.Context()))
	case http.MethodPost:
		h.create(w, r)
	default:
		methodNotAllowed(w, r, "GET, POST")
	}
}

func (h *TripsHandler) create(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_trip"

	var req intervalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeServiceError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	iv, err := req.interval()
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
	trip, replayed, err := h.deps.AddTrip(r.Context(), iv, key)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	if replayed {
		writeJSON(w, http.StatusOK, trip)
		return
	}
	w.Header().Set("Location", "/trips/"+trip.ID)
	writeJSON(w, http.StatusCreated, trip)
}

// HandleTrip handles GET, PUT and DELETE /trips/{id}.
func (h *TripsHandler) HandleTrip(w http.ResponseWriter, r *http.Request) {
	const op = "api.trip"

	// Extract path parameter after /trips/
	id := strings.TrimPrefix(r.URL.Path, "/trips/")
	if id == "" || strings.Contains(id, "/") {
		writeServiceError(w, NewKind(op, ErrMissingID))
		return
	}

	switch r.Method {
	case http.MethodGet:
		trip, err := h.deps.GetTrip(r.Context(), id)
		if err != nil {
			writeServiceError(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, trip)
	case http.MethodPut:
		var req intervalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeServiceError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		iv, err := req.interval()
		if err != nil {
			writeServiceError(w, Wrap(op, err))
			return
		}
		trip, err := h.deps.UpdateTrip(r.Context(), id, iv)
		if err != nil {
			writeServiceError(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, trip)
	case http.MethodDelete:
		if err := h.deps.DeleteTrip(r.Context(), id); err != nil {
			writeServiceError(w, Wrap(op, err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, "GET, PUT, DELETE")
	}
}
