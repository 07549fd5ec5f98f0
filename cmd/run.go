package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/slackard/slackard/internal/daemon"
	"github.com/slackard/slackard/internal/dependency"
)

var runVerbose bool

var runCmd = &cobra.Command{
	Use:   "run <config>",
	Short: "Connect to Slack and run the bot",
	Args:  cobra.ExactArgs(1),
	RunE:  runDaemon,
}

func init() {
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Verbose logging")
}

func runDaemon(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0], runVerbose)
	if err != nil {
		return err
	}

	c, err := dependency.New(cfg)
	if err != nil {
		return err
	}

	// Graceful shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("slackard: starting",
		"version", version,
		"channel", cfg.Slackard.Channel,
		"plugins", c.Plugins(),
	)

	err = c.Daemon().Run(ctx)
	var fe *daemon.FatalError
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		slog.Info("slackard: shutdown complete", "handlers_fired", c.Daemon().HandlersFired())
		return nil
	case errors.As(err, &fe):
		return fmt.Errorf("fatal error: %w", fe.Err)
	default:
		return err
	}
}
