package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slackard/slackard/internal/config"
	"github.com/slackard/slackard/internal/plugin/builtin"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the built-in plugins",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cfg := config.DefaultConfig()
		enabled := make(map[string]bool)
		for _, n := range cfg.Slackard.Plugins {
			enabled[n] = true
		}
		for _, name := range builtin.Catalog(&cfg).Available() {
			mark := " "
			if enabled[name] {
				mark = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, name)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "\n* enabled by default")
	},
}
