package cli

import (
	"github.com/spf13/cobra"

	"github.com/ca-srg/propertime/interface/presenter"
)

// NewZoneCommand creates the zone command.
func NewZoneCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		at    string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "zone [name]",
		Short: "Show zone offset and DST state",
		Long: `Show the offset and DST state of a zone at an instant (now by default).
Without a name the configured zone is shown along with how it was
determined. --watch shows every zone in zone.watch_zones instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				names := []string{""}
				switch {
				case len(args) == 1:
					names = args
				case watch:
					if cfg := s.Config.GetConfig(); cfg != nil && cfg.Zone != nil && len(cfg.Zone.WatchZones) > 0 {
						names = cfg.Zone.WatchZones
					}
				case rootOpts.Zone != "":
					names = []string{rootOpts.Zone}
				}

				for _, name := range names {
					info, err := s.Instant.ZoneInfo(name, at)
					if err != nil {
						return err
					}
					if err := p.PrintZoneInfo(*info); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "instant to describe the zone at")
	cmd.Flags().BoolVar(&watch, "watch", false, "show the configured watch zones")

	return cmd
}
