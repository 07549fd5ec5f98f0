package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/slackard/slackard/internal/dependency"
)

var checkCmd = &cobra.Command{
	Use:   "check <config>",
	Short: "Validate a config file and test the Slack credentials",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[0], false)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config:   %s ✓\n", args[0])

	c, err := dependency.New(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Plugins:  %s\n", strings.Join(c.Plugins(), ", "))
	fmt.Fprintf(out, "Tasks:    %d\n", len(c.Registry().Tasks()))
	if c.Registry().Empty() {
		fmt.Fprintln(out, "Warning:  no plugin registered any handler")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gw := c.Gateway()
	if err := gw.Authenticate(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Auth:     ✓")

	channels, err := gw.ListChannels(ctx)
	if err != nil {
		return err
	}
	name := strings.TrimPrefix(cfg.Slackard.Channel, "#")
	id, ok := channels[name]
	if !ok {
		return fmt.Errorf("channel %q not found", name)
	}
	fmt.Fprintf(out, "Channel:  #%s (%s) ✓\n", name, id)
	return nil
}
