package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ca-srg/propertime/interface/presenter"
)

// NewConfigCommand creates the config command and its subcommands.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize the configuration file",
	}

	cmd.AddCommand(newConfigShowCommand(rootOpts))
	cmd.AddCommand(newConfigPathCommand(rootOpts))
	cmd.AddCommand(newConfigInitCommand(rootOpts))

	return cmd
}

func newConfigShowCommand(rootOpts *RootOptions) *cobra.Command {
	var sources bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				if !sources {
					return p.PrintConfig(s.Config.ExportConfig())
				}
				_, sourceMap := s.Config.GetConfigWithSources()
				data := make(map[string]interface{}, len(sourceMap))
				for field, source := range sourceMap {
					data[field] = string(source)
				}
				return p.PrintConfig(data)
			})
		},
	}

	cmd.Flags().BoolVar(&sources, "sources", false, "print where each value came from instead")

	return cmd
}

func newConfigPathCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				return p.PrintMessage(s.Config.GetConfigPath())
			})
		},
	}
}

func newConfigInitCommand(rootOpts *RootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a template configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(p presenter.Presenter, s *Services) error {
				path := s.Config.GetConfigPath()
				if _, err := os.Stat(path); err == nil && !force {
					return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
				}
				if err := s.Config.CreateTemplateConfig(); err != nil {
					return err
				}
				return p.PrintMessage(fmt.Sprintf("Created %s", path))
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
