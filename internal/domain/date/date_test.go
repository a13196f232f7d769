package date_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/presence/internal/domain/date"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given date strings", t, func() {
		Convey("When the string is a real calendar date", func() {
			d, err := date.Parse("2024-02-29")

			Convey("Then it parses", func() {
				So(err, ShouldBeNil)
				So(d.Year(), ShouldEqual, 2024)
				So(d.Month(), ShouldEqual, time.February)
				So(d.Day(), ShouldEqual, 29)
				So(d.String(), ShouldEqual, "2024-02-29")
			})
		})

		Convey("When the string is not a real calendar date", func() {
			for _, s := range []string{"2023-02-29", "2024-13-01", "2024-04-31", "20240101", "", "yesterday"} {
				_, err := date.Parse(s)
				So(errors.Is(err, date.ErrInvalidDate), ShouldBeTrue)
			}
		})

		Convey("When building with New", func() {
			_, err := date.New(2023, time.February, 29)
			So(errors.Is(err, date.ErrInvalidDate), ShouldBeTrue)

			d, err := date.New(2024, time.February, 29)
			So(err, ShouldBeNil)
			So(d.Equal(date.MustParse("2024-02-29")), ShouldBeTrue)
		})

		Convey("When MustParse gets garbage", func() {
			So(func() { date.MustParse("nope") }, ShouldPanic)
		})
	})
}

func TestArithmetic(t *testing.T) {
	Convey("Given calendar arithmetic", t, func() {
		Convey("AddDays crosses month, year and leap boundaries", func() {
			So(date.MustParse("2024-02-28").AddDays(1).String(), ShouldEqual, "2024-02-29")
			So(date.MustParse("2024-02-29").AddDays(1).String(), ShouldEqual, "2024-03-01")
			So(date.MustParse("2023-12-31").AddDays(1).String(), ShouldEqual, "2024-01-01")
			So(date.MustParse("2024-01-01").AddDays(-1).String(), ShouldEqual, "2023-12-31")
		})

		Convey("Sub counts days between dates", func() {
			So(date.MustParse("2024-04-10").Sub(date.MustParse("2024-01-01")), ShouldEqual, 100)
			So(date.MustParse("2025-06-01").Sub(date.MustParse("2023-06-01")), ShouldEqual, 731)
			So(date.MustParse("2024-01-01").Sub(date.MustParse("2024-01-02")), ShouldEqual, -1)
		})

		Convey("YearsBefore clamps Feb 29 to the 28th", func() {
			So(date.MustParse("2024-02-29").YearsBefore(2).String(), ShouldEqual, "2022-02-28")
			So(date.MustParse("2025-06-01").YearsBefore(2).String(), ShouldEqual, "2023-06-01")
		})

		Convey("YearsBefore keeps Feb 29 when the earlier year is leap", func() {
			So(date.MustParse("2024-02-29").YearsBefore(4).String(), ShouldEqual, "2020-02-29")
		})

		Convey("Min, Max and Compare order dates", func() {
			a, b := date.MustParse("2024-01-01"), date.MustParse("2024-06-01")
			So(date.Min(a, b), ShouldEqual, a)
			So(date.Max(a, b), ShouldEqual, b)
			So(a.Compare(b), ShouldEqual, -1)
			So(b.Compare(a), ShouldEqual, 1)
			So(a.Compare(a), ShouldEqual, 0)
		})

		Convey("FromTime and Today drop the time of day", func() {
			t := time.Date(2025, time.June, 1, 23, 59, 0, 0, time.FixedZone("X", -7*3600))
			So(date.FromTime(t).String(), ShouldEqual, "2025-06-01")
			So(date.Today(func() time.Time { return t }).String(), ShouldEqual, "2025-06-01")
		})

		Convey("IsLeap follows the Gregorian rules", func() {
			So(date.IsLeap(2024), ShouldBeTrue)
			So(date.IsLeap(2023), ShouldBeFalse)
			So(date.IsLeap(1900), ShouldBeFalse)
			So(date.IsLeap(2000), ShouldBeTrue)
		})
	})
}

func TestJSON(t *testing.T) {
	Convey("Given a struct with a date field", t, func() {
		type payload struct {
			D date.Date `json:"d"`
		}

		Convey("When it is marshalled", func() {
			b, err := json.Marshal(payload{D: date.MustParse("2025-06-01")})
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"d":"2025-06-01"}`)
		})

		Convey("When an invalid date is unmarshalled", func() {
			var p payload
			err := json.Unmarshal([]byte(`{"d":"2025-02-30"}`), &p)
			So(err, ShouldNotBeNil)
		})
	})
}
