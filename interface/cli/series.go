package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ca-srg/propertime/domain/repository"
	"github.com/ca-srg/propertime/interface/presenter"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

// NewSeriesCommand creates the series command and its subcommands.
func NewSeriesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Build, store and export series of instants",
	}

	cmd.AddCommand(newSeriesCreateCommand(rootOpts))
	cmd.AddCommand(newSeriesListCommand(rootOpts))
	cmd.AddCommand(newSeriesShowCommand(rootOpts))
	cmd.AddCommand(newSeriesExportCommand(rootOpts))
	cmd.AddCommand(newSeriesDeleteCommand(rootOpts))

	return cmd
}

func newSeriesCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		span  string
		label string
		save  bool
	)

	cmd := &cobra.Command{
		Use:   "create <start> <end>",
		Short: "Build the instants from start to end, one span apart",
		Long: `Build the instants from start to end (inclusive when it falls on a step),
one span apart. The end may be an instant or a span relative to the
start, such as +1D.

` + valueHelp,
		Example: `  propertime series create "2023-10-29 00:00:00" +1D --span 1h --zone Europe/Rome
  propertime series create 1698530400 1698620400 --span 30m --save --label "dst day"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				ic, err := rootOpts.InstantContext()
				if err != nil {
					return err
				}
				result, err := s.Series.Create(cmd.Context(), &usecase.CreateSeriesRequest{
					Label:          label,
					Start:          args[0],
					End:            args[1],
					Span:           span,
					Persist:        save,
					InstantContext: ic,
				})
				if err != nil {
					return err
				}
				return p.PrintSeries(result)
			})
		},
	}

	cmd.Flags().StringVarP(&span, "span", "s", "", "step between instants; defaults to the configured span")
	cmd.Flags().StringVarP(&label, "label", "l", "", "label for the series")
	cmd.Flags().BoolVar(&save, "save", false, "store the series")

	return cmd
}

func newSeriesListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				items, err := s.Series.List(cmd.Context())
				if err != nil {
					return err
				}
				return p.PrintSeriesList(items)
			})
		},
	}
}

func newSeriesShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				result, err := s.Series.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return p.PrintSeries(result)
			})
		},
	}
}

func newSeriesExportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		output   string
		kind     string
		compress bool
	)

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a stored series to a file",
		Long: `Write a stored series as CSV, JSON Lines or CBOR. Without --type the
configured export format is used. --compress applies snappy framing and
is only available for JSON Lines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				result, err := s.Series.Export(cmd.Context(), &usecase.ExportSeriesRequest{
					ID: args[0],
					SeriesExportOptions: repository.SeriesExportOptions{
						OutputPath: output,
						Format:     kind,
						Compress:   compress,
					},
				})
				if err != nil {
					return err
				}
				return p.PrintExport(result)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file; defaults to <id><ext> in the configured directory")
	cmd.Flags().StringVarP(&kind, "type", "t", "", "export format (csv|jsonl|cbor)")
	cmd.Flags().BoolVar(&compress, "compress", false, "snappy-compress JSON Lines output")

	return cmd
}

func newSeriesDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				if err := s.Series.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				return p.PrintMessage(fmt.Sprintf("Deleted series %s", args[0]))
			})
		},
	}
}
