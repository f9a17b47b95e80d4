package cli

import (
	"github.com/spf13/cobra"

	"github.com/ca-srg/propertime/interface/presenter"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

const valueHelp = `A value is a canonical string ("Time: 1698541200.0 (2023-10-29 02:00:00 Europe/Rome)"),
epoch seconds, a hexadecimal float (0x1.94f3f6p+30) or an ISO 8601 string.
Naive ISO strings are read in --zone, --offset or the configured zone.`

// NewNowCommand creates the now command.
func NewNowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Print the current instant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				ic, err := rootOpts.InstantContext()
				if err != nil {
					return err
				}
				result, err := s.Instant.Now(ic)
				if err != nil {
					return err
				}
				return p.PrintInstant(result)
			})
		},
	}
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <value>",
		Short: "Read an instant and print all of its forms",
		Long:  "Read an instant and print all of its forms.\n\n" + valueHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				ic, err := rootOpts.InstantContext()
				if err != nil {
					return err
				}
				result, err := s.Instant.Parse(&usecase.ParseRequest{Value: args[0], InstantContext: ic})
				if err != nil {
					return err
				}
				return p.PrintInstant(result)
			})
		},
	}
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <value> <zone|offset>",
		Short: "Express an instant in another zone or offset",
		Long: `Express an instant in another zone or offset. The point in time does not
change, only its local representation.

` + valueHelp,
		Example: `  propertime convert 2023-06-11T13:47:00+02:00 America/New_York
  propertime convert 1686484020 -0300`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				result, err := s.Instant.Convert(&usecase.ConvertRequest{Value: args[0], To: args[1]})
				if err != nil {
					return err
				}
				return p.PrintInstant(result)
			})
		},
	}
}

// NewShiftCommand creates the shift command.
func NewShiftCommand(rootOpts *RootOptions) *cobra.Command {
	var times int

	cmd := &cobra.Command{
		Use:   "shift <value> <span>",
		Short: "Move an instant by a span",
		Long: `Move an instant by a span. Calendar spans (1D, 2M, 1Y) keep the local
wall-clock time; physical spans (24h, 90m) add exact seconds.

` + valueHelp,
		Example: `  propertime shift "2023-10-29 00:00:00" 1D --zone Europe/Rome
  propertime shift 1698530400 1h --times=-3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				ic, err := rootOpts.InstantContext()
				if err != nil {
					return err
				}
				result, err := s.Instant.Shift(&usecase.ShiftRequest{
					Value:          args[0],
					Span:           args[1],
					Times:          times,
					InstantContext: ic,
				})
				if err != nil {
					return err
				}
				return p.PrintInstant(result)
			})
		},
	}

	cmd.Flags().IntVarP(&times, "times", "n", 1, "how many times to apply the span (negative moves backwards)")

	return cmd
}

// NewRoundCommand creates the round command.
func NewRoundCommand(rootOpts *RootOptions) *cobra.Command {
	var how string

	cmd := &cobra.Command{
		Use:   "round <value> [span]",
		Short: "Round an instant to span boundaries",
		Long: `Round an instant to the boundaries of a span, in local time. Without a
span the configured default span is used.

` + valueHelp,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				ic, err := rootOpts.InstantContext()
				if err != nil {
					return err
				}
				req := &usecase.RoundRequest{Value: args[0], How: how, InstantContext: ic}
				if len(args) == 2 {
					req.Span = args[1]
				}
				result, err := s.Instant.Round(req)
				if err != nil {
					return err
				}
				return p.PrintInstant(result)
			})
		},
	}

	cmd.Flags().StringVar(&how, "how", "", "rounding strategy (half|floor|ceil); defaults to the configured one")

	return cmd
}

// NewSpanCommand creates the span command.
func NewSpanCommand(rootOpts *RootOptions) *cobra.Command {
	var anchor string

	cmd := &cobra.Command{
		Use:   "span <span>",
		Short: "Describe a span",
		Long: `Describe a span such as 1h, 90m, 1D or 1Y_6M. Calendar spans only have a
length in seconds relative to an --anchor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				ic, err := rootOpts.InstantContext()
				if err != nil {
					return err
				}
				result, err := s.Instant.DescribeSpan(&usecase.SpanRequest{
					Span:           args[0],
					Anchor:         anchor,
					InstantContext: ic,
				})
				if err != nil {
					return err
				}
				return p.PrintSpan(result)
			})
		},
	}

	cmd.Flags().StringVar(&anchor, "anchor", "", "instant the span starts at")

	return cmd
}

// NewDayCommand creates the day command.
func NewDayCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "day [value]",
		Short: "Print the local midnights around an instant",
		Long:  "Print the start of the local day containing an instant (now by default) and the start of the next one.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				ic, err := rootOpts.InstantContext()
				if err != nil {
					return err
				}
				req := &usecase.ParseRequest{InstantContext: ic}
				if len(args) == 1 {
					req.Value = args[0]
				}
				result, err := s.Instant.Day(req)
				if err != nil {
					return err
				}
				return p.PrintDay(result)
			})
		},
	}
}
