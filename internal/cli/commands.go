package cli

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/okian/presence/internal/adapters/share"
	"github.com/okian/presence/internal/domain/advice"
	"github.com/okian/presence/internal/domain/model"
	"github.com/okian/presence/internal/domain/trend"
	"github.com/okian/presence/internal/domain/types"
	"github.com/okian/presence/internal/domain/window"
)

// defaultTrendRadius matches the server's default.
const defaultTrendRadius = 90

func newEvaluateCommand(opts *options) *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Show days present in the window ending at a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := opts.spec()
			if err != nil {
				return err
			}
			now, err := opts.today()
			if err != nil {
				return err
			}
			t, err := opts.dateArg(target)
			if err != nil {
				return err
			}
			ivs, err := opts.intervals(cmd.InOrStdin())
			if err != nil {
				return err
			}

			ev := types.Evaluation{
				EvaluationResult: window.Evaluate(t, ivs, spec, now),
				Window:           spec,
			}
			ev.Advice = advice.Advise(ev.EvaluationResult, spec)

			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), ev)
			}
			return writeEvaluation(cmd.OutOrStdout(), ev)
		},
	}
	cmd.Flags().StringVarP(&target, "date", "d", "", "Target date as YYYY-MM-DD (default: today)")
	return cmd
}

func newTrendCommand(opts *options) *cobra.Command {
	var (
		center     string
		radius     int
		showSeries bool
	)

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Scan days present around a date and list threshold crossings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := opts.spec()
			if err != nil {
				return err
			}
			now, err := opts.today()
			if err != nil {
				return err
			}
			c, err := opts.dateArg(center)
			if err != nil {
				return err
			}
			ivs, err := opts.intervals(cmd.InOrStdin())
			if err != nil {
				return err
			}

			res, err := trend.Scan(c, radius, ivs, spec, now)
			if err != nil {
				return err
			}
			tr := types.Trend{Center: c, RadiusDays: radius, Window: spec, Result: res}

			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), tr)
			}
			return writeTrend(cmd.OutOrStdout(), tr, showSeries)
		},
	}
	cmd.Flags().StringVarP(&center, "date", "d", "", "Centre date as YYYY-MM-DD (default: today)")
	cmd.Flags().IntVarP(&radius, "radius", "r", defaultTrendRadius, "Days scanned on each side of the centre")
	cmd.Flags().BoolVar(&showSeries, "series", false, "Print every day of the scan")
	return cmd
}

func newEncodeCommand(opts *options) *cobra.Command {
	var query bool

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print trips as a compact share string",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ivs, err := opts.intervals(cmd.InOrStdin())
			if err != nil {
				return err
			}
			sortIntervals(ivs)

			var out string
			if query {
				out, err = share.EncodeQuery(ivs)
			} else {
				out, err = share.Encode(ivs)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&query, "query", false, "Print as a data=... query string")
	return cmd
}

func newDecodeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "decode",
		Short: "List the trips in a share string or file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now, err := opts.today()
			if err != nil {
				return err
			}
			ivs, err := opts.intervals(cmd.InOrStdin())
			if err != nil {
				return err
			}
			sortIntervals(ivs)

			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), ivs)
			}
			return writeTrips(cmd.OutOrStdout(), ivs, now)
		},
	}
}

func sortIntervals(ivs []model.Interval) {
	slices.SortStableFunc(ivs, func(a, b model.Interval) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End.String(), b.End.String())
	})
}
