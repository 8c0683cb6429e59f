package main

import (
	"context"
	"io"
	"os"

	sonic "github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/cycling-auction/internal/app"
	"github.com/riskibarqy/cycling-auction/internal/config"
	"github.com/riskibarqy/cycling-auction/internal/platform/logging"
)

// environmentFunc builds the service container a command runs against.
type environmentFunc func(ctx context.Context) (*app.Container, error)

func defaultEnvironment(ctx context.Context) (*app.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.NewJSONWriter(os.Stderr, cfg.LogLevel).With("service", "auctionctl")
	logging.SetDefault(logger)
	return app.Build(ctx, cfg, logger)
}

func newRootCmd(env environmentFunc) *cobra.Command {
	root := &cobra.Command{
		Use:          "auctionctl",
		Short:        "Operate cycling auction leagues",
		Long:         `auctionctl imports the cyclist catalog and resolves auction rounds against the configured storage.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newImportCyclistsCmd(env),
		newResolveCmd(env),
		newSweepCmd(env),
	)
	return root
}

// withContainer runs fn against a freshly built container and closes it afterwards.
func withContainer(cmd *cobra.Command, env environmentFunc, fn func(ctx context.Context, c *app.Container) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := env(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	return fn(ctx, c)
}

func printJSON(w io.Writer, v any) error {
	out, err := sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(out, '\n'))
	return err
}
