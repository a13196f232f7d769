package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/presence/internal/adapters/http/api"
	"github.com/okian/presence/internal/adapters/repository"
	"github.com/okian/presence/internal/adapters/share"
	"github.com/okian/presence/internal/domain/advice"
	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/dedupe"
	"github.com/okian/presence/internal/domain/model"
	"github.com/okian/presence/internal/domain/trend"
	"github.com/okian/presence/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies is a map-backed stand-in for the service.
type mockDependencies struct {
	trips    map[string]model.Trip
	keys     map[string]string
	nextID   int
	trendErr error

	lastTarget date.Date
	lastCenter date.Date
	lastRadius int
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{
		trips: make(map[string]model.Trip),
		keys:  make(map[string]string),
	}
}

func (m *mockDependencies) view(t model.Trip) types.TripView {
	return types.NewTripView(t, date.MustParse("2025-01-01"))
}

func (m *mockDependencies) AddTrip(_ context.Context, iv model.Interval, key string) (types.TripView, bool, error) {
	if id, ok := m.keys[key]; ok && key != "" {
		return m.view(m.trips[id]), true, nil
	}
	m.nextID++
	t := model.Trip{ID: fmt.Sprintf("t%d", m.nextID), Interval: iv}
	m.trips[t.ID] = t
	if key != "" {
		m.keys[key] = t.ID
	}
	return m.view(t), false, nil
}

func (m *mockDependencies) UpdateTrip(_ context.Context, id string, iv model.Interval) (types.TripView, error) {
	if _, ok := m.trips[id]; !ok {
		return types.TripView{}, fmt.Errorf("update: %w", repository.ErrNotFound)
	}
	m.trips[id] = model.Trip{ID: id, Interval: iv}
	return m.view(m.trips[id]), nil
}

func (m *mockDependencies) DeleteTrip(_ context.Context, id string) error {
	if _, ok := m.trips[id]; !ok {
		return fmt.Errorf("delete: %w", repository.ErrNotFound)
	}
	delete(m.trips, id)
	return nil
}

func (m *mockDependencies) GetTrip(_ context.Context, id string) (types.TripView, error) {
	t, ok := m.trips[id]
	if !ok {
		return types.TripView{}, fmt.Errorf("get: %w", repository.ErrNotFound)
	}
	return m.view(t), nil
}

func (m *mockDependencies) ListTrips(_ context.Context) []types.TripView {
	out := make([]types.TripView, 0, len(m.trips))
	for _, t := range m.trips {
		out = append(out, m.view(t))
	}
	return out
}

func (m *mockDependencies) Evaluate(_ context.Context, target date.Date) types.Evaluation {
	m.lastTarget = target
	return types.Evaluation{
		EvaluationResult: model.EvaluationResult{TargetDate: target, DaysPresent: 400},
		Window:           model.DefaultWindowSpec(),
		Advice:           advice.Advice{Status: advice.StatusEligible, Margin: 35},
	}
}

func (m *mockDependencies) Trend(_ context.Context, center date.Date, radius int) (types.Trend, error) {
	m.lastCenter, m.lastRadius = center, radius
	if m.trendErr != nil {
		return types.Trend{}, m.trendErr
	}
	if radius < 0 {
		return types.Trend{}, fmt.Errorf("trend: %w", trend.ErrInvalidRadius)
	}
	return types.Trend{Center: center, RadiusDays: radius}, nil
}

func (m *mockDependencies) Export(_ context.Context) (types.Share, error) {
	return types.Share{Data: `[{"s":"2024-01-01","e":"2024-01-05"}]`, Query: "data=x"}, nil
}

func (m *mockDependencies) Import(_ context.Context, data string) ([]types.TripView, error) {
	ivs, err := share.Decode(data)
	if err != nil {
		return nil, err
	}
	m.trips = make(map[string]model.Trip)
	out := make([]types.TripView, len(ivs))
	for i, iv := range ivs {
		t := model.Trip{ID: fmt.Sprintf("i%d", i), Interval: iv}
		m.trips[t.ID] = t
		out[i] = m.view(t)
	}
	return out, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps *mockDependencies, opts ...api.ServerOption) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"totalTrips": 1}}, opts...).
		Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func errorCode(w *httptest.ResponseRecorder) string {
	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newMockDependencies())

		Convey("Then the health endpoint serves metrics", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the stats endpoint serves JSON", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
			So(w.Body.String(), ShouldContainSubstring, `"totalTrips":1`)
		})

		Convey("Then unsupported methods are rejected", func() {
			So(do(mux, http.MethodDelete, "/trips", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(do(mux, http.MethodPost, "/evaluate", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(do(mux, http.MethodPut, "/trend", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(do(mux, http.MethodDelete, "/share", "").Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(do(mux, http.MethodPost, "/stats", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestTripsHandler(t *testing.T) {
	Convey("Given the trips endpoints", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When posting a valid trip", func() {
			w := do(mux, http.MethodPost, "/trips", `{"start":"2024-01-01","end":"2024-04-10"}`)

			Convey("Then it is created", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(w.Header().Get("Location"), ShouldEqual, "/trips/t1")
				var got types.TripView
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.ID, ShouldEqual, "t1")
				So(got.Days, ShouldEqual, 100)
				So(got.Status, ShouldEqual, advice.TripPast)
			})

			Convey("And listing returns it", func() {
				w := do(mux, http.MethodGet, "/trips", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var got []types.TripView
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 1)
			})
		})

		Convey("When posting with an Idempotency-Key twice", func() {
			first := do(mux, http.MethodPost, "/trips", `{"start":"2024-01-01","end":"2024-01-05"}`, api.IdempotencyKeyHeader, "k1")
			second := do(mux, http.MethodPost, "/trips", `{"start":"2024-01-01","end":"2024-01-05"}`, api.IdempotencyKeyHeader, "k1")

			Convey("Then the replay answers 200 with the same trip", func() {
				So(first.Code, ShouldEqual, http.StatusCreated)
				So(second.Code, ShouldEqual, http.StatusOK)
				So(second.Body.String(), ShouldEqual, first.Body.String())
				So(deps.trips, ShouldHaveLength, 1)
			})
		})

		Convey("When posting an inverted trip", func() {
			w := do(mux, http.MethodPost, "/trips", `{"start":"2024-02-01","end":"2024-01-01"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "invalid_interval")
		})

		Convey("When posting an impossible date", func() {
			w := do(mux, http.MethodPost, "/trips", `{"start":"2023-02-29","end":"2023-03-01"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "invalid_date")
		})

		Convey("When posting malformed JSON", func() {
			w := do(mux, http.MethodPost, "/trips", `{`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "bad_request")
		})

		Convey("When working with a single trip", func() {
			do(mux, http.MethodPost, "/trips", `{"start":"2024-01-01","end":"2024-01-05"}`)

			Convey("Then it can be fetched", func() {
				So(do(mux, http.MethodGet, "/trips/t1", "").Code, ShouldEqual, http.StatusOK)
			})

			Convey("Then it can be replaced", func() {
				w := do(mux, http.MethodPut, "/trips/t1", `{"start":"2024-03-01","end":"2024-03-02"}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.trips["t1"].Start.String(), ShouldEqual, "2024-03-01")
			})

			Convey("Then it can be deleted", func() {
				So(do(mux, http.MethodDelete, "/trips/t1", "").Code, ShouldEqual, http.StatusNoContent)
				w := do(mux, http.MethodDelete, "/trips/t1", "")
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(errorCode(w), ShouldEqual, "not_found")
			})

			Convey("Then a nested path is rejected", func() {
				w := do(mux, http.MethodGet, "/trips/t1/extra", "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})

			Convey("Then an unsupported method is rejected", func() {
				w := do(mux, http.MethodPost, "/trips/t1", "")
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, "GET, PUT, DELETE")
			})
		})
	})
}

func TestEvaluateHandler(t *testing.T) {
	Convey("Given the evaluate endpoint", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When a date is given", func() {
			w := do(mux, http.MethodGet, "/evaluate?date=2025-01-01", "")

			Convey("Then it is passed through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastTarget.String(), ShouldEqual, "2025-01-01")
				So(w.Body.String(), ShouldContainSubstring, `"days_present":400`)
				So(w.Body.String(), ShouldContainSubstring, `"status":"eligible"`)
			})
		})

		Convey("When no date is given", func() {
			So(do(mux, http.MethodGet, "/evaluate", "").Code, ShouldEqual, http.StatusOK)
			So(deps.lastTarget.IsZero(), ShouldBeTrue)
		})

		Convey("When the date is invalid", func() {
			w := do(mux, http.MethodGet, "/evaluate?date=2025-13-01", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "invalid_date")
		})
	})
}

func TestTrendHandler(t *testing.T) {
	Convey("Given the trend endpoint with a default radius of 30", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps, api.WithTrendRadius(30))

		Convey("When radius is omitted", func() {
			w := do(mux, http.MethodGet, "/trend?date=2025-01-15", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastRadius, ShouldEqual, 30)
			So(deps.lastCenter.String(), ShouldEqual, "2025-01-15")
		})

		Convey("When radius is given", func() {
			So(do(mux, http.MethodGet, "/trend?radius=5", "").Code, ShouldEqual, http.StatusOK)
			So(deps.lastRadius, ShouldEqual, 5)
		})

		Convey("When radius is not a number", func() {
			w := do(mux, http.MethodGet, "/trend?radius=abc", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "invalid_radius")
		})

		Convey("When radius is negative", func() {
			w := do(mux, http.MethodGet, "/trend?radius=-1", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "invalid_radius")
		})

		Convey("When the store is closed", func() {
			deps.trendErr = fmt.Errorf("trend: %w", repository.ErrClosed)
			w := do(mux, http.MethodGet, "/trend", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When an idempotency conflict reaches the mapper", func() {
			deps.trendErr = fmt.Errorf("x: %w", dedupe.ErrConflict)
			So(do(mux, http.MethodGet, "/trend", "").Code, ShouldEqual, http.StatusConflict)
		})

		Convey("When an unknown error occurs", func() {
			deps.trendErr = fmt.Errorf("boom")
			w := do(mux, http.MethodGet, "/trend", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(errorCode(w), ShouldEqual, "internal_error")
		})
	})
}

func TestShareHandler(t *testing.T) {
	Convey("Given the share endpoint", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When exporting", func() {
			w := do(mux, http.MethodGet, "/share", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			var got types.Share
			So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
			So(got.Data, ShouldStartWith, "[")
		})

		Convey("When importing a valid string", func() {
			body := `{"data":"[{\"s\":\"2024-01-01\",\"e\":\"2024-01-05\"}]"}`
			w := do(mux, http.MethodPost, "/share", body)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.trips, ShouldHaveLength, 1)
		})

		Convey("When importing garbage", func() {
			w := do(mux, http.MethodPost, "/share", `{"data":"not json"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(errorCode(w), ShouldEqual, "invalid_share")
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given the error helpers", t, func() {
		Convey("Then Wrap keeps nil nil", func() {
			So(api.Wrap("op", nil), ShouldBeNil)
		})

		Convey("Then WrapKind matches both the kind and the cause", func() {
			err := api.WrapKind("op", api.ErrBadRequest, repository.ErrNotFound)
			So(err.Error(), ShouldStartWith, "op: ")
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("Then WrapKind without a cause is NewKind", func() {
			So(api.WrapKind("op", api.ErrBadRequest, nil).Error(), ShouldEqual, api.NewKind("op", api.ErrBadRequest).Error())
		})
	})
}
