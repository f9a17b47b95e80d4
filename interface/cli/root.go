package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ca-srg/propertime/domain/valueobject"
	"github.com/ca-srg/propertime/interface/presenter"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format   string // "text" | "json" | "yaml"
	Debug    bool
	Zone     string
	Offset   string
	Guessing bool

	provider ServicesProvider
	services *Services
}

// Services holds the use cases the commands run against.
type Services struct {
	Instant usecase.InstantService
	Series  usecase.SeriesService
	Config  usecase.ConfigService
}

// ServicesProvider builds the services once the global flags are parsed.
type ServicesProvider func(opts *RootOptions) (*Services, error)

// NewRootCommand creates the root command for the propertime CLI.
func NewRootCommand(provider ServicesProvider) *cobra.Command {
	opts := &RootOptions{provider: provider}

	cmd := &cobra.Command{
		Use:   "propertime",
		Short: "Timezone-aware instants and spans",
		Long: `propertime reads, converts, shifts and rounds instants that always
carry their zone or offset, and builds series of instants across DST changes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, presenter.Formats)
			}
			if opts.Offset != "" {
				if _, err := valueobject.ParseOffset(opts.Offset); err != nil {
					return err
				}
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "log to stderr at debug level")
	cmd.PersistentFlags().StringVarP(&opts.Zone, "zone", "z", "", "zone for naive input and results (IANA name or \"local\")")
	cmd.PersistentFlags().StringVar(&opts.Offset, "offset", "", "fixed UTC offset for naive input and results (±HH:MM)")
	cmd.PersistentFlags().BoolVar(&opts.Guessing, "guess", false, "resolve ambiguous or missing wall-clock times instead of failing")

	// Instant commands
	cmd.AddCommand(NewNowCommand(opts))
	cmd.AddCommand(NewParseCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewShiftCommand(opts))
	cmd.AddCommand(NewRoundCommand(opts))
	cmd.AddCommand(NewSpanCommand(opts))
	cmd.AddCommand(NewDayCommand(opts))

	cmd.AddCommand(NewSeriesCommand(opts))
	cmd.AddCommand(NewZoneCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// InstantContext returns the zone and offset selected by the global flags.
func (o *RootOptions) InstantContext() (usecase.InstantContext, error) {
	ic := usecase.InstantContext{Zone: o.Zone, Guessing: o.Guessing}
	if o.Offset != "" {
		offset, err := valueobject.ParseOffset(o.Offset)
		if err != nil {
			return usecase.InstantContext{}, err
		}
		ic.Offset = &offset
	}
	return ic, nil
}

func (o *RootOptions) loadServices() (*Services, error) {
	if o.services != nil {
		return o.services, nil
	}
	if o.provider == nil {
		return nil, errors.New("no services configured")
	}
	services, err := o.provider(o)
	if err != nil {
		return nil, err
	}
	o.services = services
	return services, nil
}

// run builds the presenter and services for a command. Errors from fn are
// printed through the presenter and returned with an exit code.
func run(opts *RootOptions, cmd *cobra.Command, fn func(p presenter.Presenter, s *Services) error) error {
	p, err := presenter.NewPresenter(opts.Format, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid output format", err)
	}

	services, err := opts.loadServices()
	if err != nil {
		_ = p.PrintError(err)
		return WrapExitError(ExitCommandError, "initialization failed", err)
	}

	if err := fn(p, services); err != nil {
		_ = p.PrintError(err)
		return WrapExitError(exitCodeFor(err), cmd.Name()+" failed", err)
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range presenter.Formats {
		if f == format {
			return true
		}
	}
	return false
}
