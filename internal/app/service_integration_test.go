package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/presence/internal/adapters/share"
	service "github.com/okian/presence/internal/app"
	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/model"
	"github.com/okian/presence/internal/domain/trend"
	. "github.com/smartystreets/goconvey/convey"
)

func TestServiceIntegration_ChunkedTrend(t *testing.T) {
	Convey("Given a collection with two threshold crossings", t, func() {
		ctx := context.Background()
		trips := []model.Interval{
			iv("2023-01-01", "2024-01-01"),
			iv("2024-12-20", "2025-02-01"),
		}
		center := date.MustParse("2025-01-15")

		chunked := service.New(
			service.WithClock(fixedClock("2025-01-01")),
			service.WithScanChunkDays(7),
			service.WithScanWorkers(3),
		)
		sequential := service.New(
			service.WithClock(fixedClock("2025-01-01")),
			service.WithScanChunkDays(0),
		)
		for _, tr := range trips {
			_, _, err := chunked.AddTrip(ctx, tr, "")
			So(err, ShouldBeNil)
			_, _, err = sequential.AddTrip(ctx, tr, "")
			So(err, ShouldBeNil)
		}

		Convey("When scanning with and without chunking", func() {
			a, errA := chunked.Trend(ctx, center, 40)
			b, errB := sequential.Trend(ctx, center, 40)
			want, errW := trend.Scan(center, 40, trips, model.DefaultWindowSpec(), date.MustParse("2025-01-01"))

			Convey("Then both match a direct scan", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(errW, ShouldBeNil)
				So(a.Series, ShouldResemble, want.Series)
				So(b.Series, ShouldResemble, want.Series)
				So(a.Crossings, ShouldResemble, want.Crossings)
				So(b.Crossings, ShouldResemble, want.Crossings)
			})

			Convey("Then the crossings sit where presence leaves and regains the threshold", func() {
				So(a.Crossings, ShouldHaveLength, 2)
				So(a.Crossings[0].Date.String(), ShouldEqual, "2024-12-22")
				So(a.Crossings[0].Direction, ShouldEqual, model.AboveToBelow)
				So(a.Crossings[1].Date.String(), ShouldEqual, "2025-02-12")
				So(a.Crossings[1].Direction, ShouldEqual, model.BelowToAbove)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := chunked.Trend(cctx, center, 40)

			Convey("Then the chunked scan stops with the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestServiceIntegration_Share(t *testing.T) {
	Convey("Given a service seeded from a share string", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithClock(fixedClock("2025-01-01")))
		const data = `[{"s":"2025-03-01","e":"2025-04-01"},{"s":"2024-01-01","e":"2024-04-10"}]`

		trips, err := svc.Import(ctx, data)
		So(err, ShouldBeNil)

		Convey("Then trips are stored sorted by start", func() {
			So(trips, ShouldHaveLength, 2)
			So(trips[0].Start.String(), ShouldEqual, "2024-01-01")
			So(svc.ListTrips(ctx), ShouldResemble, trips)
		})

		Convey("When exporting", func() {
			out, err := svc.Export(ctx)

			Convey("Then the compact form lists trips in start order", func() {
				So(err, ShouldBeNil)
				So(out.Data, ShouldEqual, `[{"s":"2024-01-01","e":"2024-04-10"},{"s":"2025-03-01","e":"2025-04-01"}]`)
				So(out.Query, ShouldStartWith, share.QueryKey+"=")
			})
		})

		Convey("When importing an invalid string", func() {
			_, err := svc.Import(ctx, `[{"s":"2024-05-01","e":"2024-04-01"}]`)

			Convey("Then the collection is unchanged", func() {
				So(errors.Is(err, share.ErrDecode), ShouldBeTrue)
				So(errors.Is(err, model.ErrInvalidInterval), ShouldBeTrue)
				So(svc.ListTrips(ctx), ShouldHaveLength, 2)
			})
		})

		Convey("When importing an empty string", func() {
			_, err := svc.Import(ctx, "")

			Convey("Then the collection is cleared", func() {
				So(err, ShouldBeNil)
				So(svc.ListTrips(ctx), ShouldBeEmpty)
				out, err := svc.Export(ctx)
				So(err, ShouldBeNil)
				So(out.Data, ShouldBeEmpty)
			})
		})
	})
}

func TestServiceIntegration_ConcurrentReadsAndWrites(t *testing.T) {
	Convey("Given writers and scanners running at once", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		svc := service.New(
			service.WithClock(fixedClock("2025-01-01")),
			service.WithScanChunkDays(20),
			service.WithScanWorkers(4),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			errs []error
		)
		record := func(err error) {
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				start := date.MustParse("2024-01-01").AddDays(i * 10)
				trip, err := model.NewInterval(start, start.AddDays(5))
				record(err)
				_, _, err = svc.AddTrip(ctx, trip, "")
				record(err)
			}(i)
			go func() {
				defer wg.Done()
				tr, err := svc.Trend(ctx, date.Date{}, 60)
				record(err)
				if err == nil && len(tr.Series) != 121 {
					record(errors.New("short series"))
				}
				_ = svc.Evaluate(ctx, date.Date{})
			}()
		}
		wg.Wait()

		Convey("Then every write lands and no scan fails", func() {
			So(errs, ShouldBeEmpty)
			So(svc.ListTrips(ctx), ShouldHaveLength, 10)
			So(svc.Evaluate(ctx, date.Date{}).DaysAbsent, ShouldEqual, 50)
		})
	})
}
