package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/ca-srg/propertime/infrastructure/di"
	"github.com/ca-srg/propertime/interface/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code. The container is
// only built once a command needs it, so --help and usage errors never
// touch the configuration directory.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, containerOpts ...di.ContainerOption) int {
	var container *di.Container

	root := cli.NewRootCommand(func(opts *cli.RootOptions) (*cli.Services, error) {
		c, err := di.NewContainer(append(containerOpts, di.WithDebugMode(opts.Debug))...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize application: %w", err)
		}
		container = c
		return &cli.Services{
			Instant: c.GetInstantService(),
			Series:  c.GetSeriesService(),
			Config:  c.GetConfigService(),
		}, nil
	})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)

	if container != nil {
		if closeErr := container.Close(); closeErr != nil {
			fmt.Fprintf(stderr, "Warning: %v\n", closeErr)
		}
	}
	if err != nil && !cli.IsReported(err) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return cli.GetExitCode(err)
}
