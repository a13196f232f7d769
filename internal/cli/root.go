// Package cli implements presencectl, which runs presence evaluations
// locally against a share string or a JSON file of trips.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/okian/presence/internal/adapters/share"
	"github.com/okian/presence/internal/domain/date"
	"github.com/okian/presence/internal/domain/model"
)

// options holds the flags shared by every subcommand.
type options struct {
	data          string
	file          string
	now           string
	windowYears   int
	thresholdDays int
	jsonOut       bool
	noColor       bool

	// clock is swapped in tests.
	clock func() time.Time
}

// NewRootCommand builds the presencectl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{clock: time.Now}

	root := &cobra.Command{
		Use:           "presencectl",
		Short:         "Evaluate days of presence in a trailing window",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.data, "data", "", "Trips as a compact share string")
	flags.StringVarP(&opts.file, "file", "f", "", "Read trips from a JSON file ('-' for stdin)")
	flags.StringVar(&opts.now, "now", "", "Today's date as YYYY-MM-DD (default: system date)")
	flags.IntVar(&opts.windowYears, "window-years", model.DefaultWindowYears, "Length of the trailing window in years")
	flags.IntVar(&opts.thresholdDays, "threshold", model.DefaultThresholdDays, "Days of presence required")
	flags.BoolVar(&opts.jsonOut, "json", false, "Print JSON instead of tables")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable coloured output")

	root.AddCommand(
		newEvaluateCommand(opts),
		newTrendCommand(opts),
		newEncodeCommand(opts),
		newDecodeCommand(opts),
	)
	return root
}

// Execute runs presencectl with os.Args and reports errors on stderr.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error: ")+err.Error())
		return 1
	}
	return 0
}

func (o *options) spec() (model.WindowSpec, error) {
	spec := model.WindowSpec{WindowYears: o.windowYears, ThresholdDays: o.thresholdDays}
	return spec, spec.Validate()
}

func (o *options) today() (date.Date, error) {
	if o.now == "" {
		return date.Today(o.clock), nil
	}
	return date.Parse(o.now)
}

// dateArg parses an optional date flag, falling back to today.
func (o *options) dateArg(raw string) (date.Date, error) {
	if raw == "" {
		return o.today()
	}
	return date.Parse(raw)
}

// intervals loads trips from --data or --file. Both accept the compact
// and the long JSON form.
func (o *options) intervals(in io.Reader) ([]model.Interval, error) {
	switch {
	case o.data != "" && o.file != "":
		return nil, ErrConflictingInput
	case o.data != "":
		return share.Decode(o.data)
	case o.file == "-":
		b, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return share.Decode(string(b))
	case o.file != "":
		b, err := os.ReadFile(o.file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", o.file, err)
		}
		return share.Decode(string(b))
	default:
		return nil, ErrNoInput
	}
}
