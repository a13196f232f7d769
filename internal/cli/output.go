package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/okian/presence/internal/domain/advice"
	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/model"
	"github.com/okian/presence/internal/domain/types"
)

var (
	eligibleColor = color.New(color.FgGreen, color.Bold)
	warningColor  = color.New(color.FgYellow, color.Bold)
	shortColor    = color.New(color.FgRed)
	futureColor   = color.New(color.FgCyan)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	return table
}

func render(table *tablewriter.Table, rows [][]string) error {
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func writeEvaluation(w io.Writer, ev types.Evaluation) error {
	summary := newTable(w, []string{"Target", "Window start", "Window days", "Present", "Absent", "Future conflict"})
	defer func() { _ = summary.Close() }()
	if err := render(summary, [][]string{{
		ev.TargetDate.String(),
		ev.WindowStart.String(),
		strconv.Itoa(ev.TotalWindowDays),
		strconv.Itoa(ev.DaysPresent),
		strconv.Itoa(ev.DaysAbsent),
		strconv.Itoa(ev.FutureConflictDays),
	}}); err != nil {
		return err
	}

	if len(ev.Deductions) > 0 {
		deductions := newTable(w, []string{"Departure", "Return", "Days counted", "Planned"})
		defer func() { _ = deductions.Close() }()
		rows := make([][]string, 0, len(ev.Deductions))
		for _, d := range ev.Deductions {
			planned := ""
			if d.Future {
				planned = futureColor.Sprint("yes")
			}
			rows = append(rows, []string{
				d.Interval.Start.String(),
				d.Interval.End.String(),
				strconv.Itoa(d.DaysDeducted),
				planned,
			})
		}
		if err := render(deductions, rows); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, adviceLine(ev.Advice, ev.Window))
	return err
}

func adviceLine(a advice.Advice, spec model.WindowSpec) string {
	if a.Status == advice.StatusEligible {
		return eligibleColor.Sprint("ELIGIBLE") +
			fmt.Sprintf(": %d days above the %d-day threshold", a.Margin, spec.ThresholdDays)
	}
	head := warningColor.Sprint("SHORT") + ": " + shortColor.Sprintf("%d days", a.Shortfall) + " below the threshold. "
	if a.Cause == advice.CauseFutureTrips {
		return head + fmt.Sprintf("Shorten planned trips by %d days.", a.ShortenFutureTripsBy)
	}
	return head + "Past absences must leave the window first."
}

func writeTrend(w io.Writer, tr types.Trend, showSeries bool) error {
	if showSeries {
		series := newTable(w, []string{"Date", "Present", "Eligible"})
		defer func() { _ = series.Close() }()
		rows := make([][]string, 0, len(tr.Series))
		for _, p := range tr.Series {
			rows = append(rows, []string{p.Date.String(), strconv.Itoa(p.DaysPresent), yesNo(tr.Window.Eligible(p.DaysPresent))})
		}
		if err := render(series, rows); err != nil {
			return err
		}
	}

	first, last := tr.Series[0], tr.Series[len(tr.Series)-1]
	if _, err := fmt.Fprintf(w, "Scanned %s to %s (%d days), threshold %d\n",
		first.Date, last.Date, len(tr.Series), tr.Window.ThresholdDays); err != nil {
		return err
	}

	if len(tr.Crossings) == 0 {
		_, err := fmt.Fprintln(w, "No threshold crossings.")
		return err
	}
	crossings := newTable(w, []string{"Date", "Direction"})
	defer func() { _ = crossings.Close() }()
	rows := make([][]string, 0, len(tr.Crossings))
	for _, c := range tr.Crossings {
		dir := eligibleColor.Sprint("rises above")
		if c.Direction == model.AboveToBelow {
			dir = shortColor.Sprint("drops below")
		}
		rows = append(rows, []string{c.Date.String(), dir})
	}
	return render(crossings, rows)
}

func writeTrips(w io.Writer, ivs []model.Interval, now date.Date) error {
	if len(ivs) == 0 {
		_, err := fmt.Fprintln(w, "No trips.")
		return err
	}
	table := newTable(w, []string{"Departure", "Return", "Days", "Status"})
	defer func() { _ = table.Close() }()
	rows := make([][]string, 0, len(ivs))
	total := 0
	for _, iv := range ivs {
		kind := advice.ClassifyTrip(iv, now)
		status := string(kind)
		if kind == advice.TripFuture {
			status = futureColor.Sprint(status)
		}
		rows = append(rows, []string{iv.Start.String(), iv.End.String(), strconv.Itoa(iv.Days()), status})
		total += iv.Days()
	}
	if err := render(table, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d trips, %d days away\n", len(ivs), total)
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
