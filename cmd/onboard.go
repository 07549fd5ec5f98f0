package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/slackard/slackard/internal/config"
)

var onboardPrint bool

var onboardCmd = &cobra.Command{
	Use:   "onboard [path]",
	Short: "Write an example configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOnboard,
}

func init() {
	onboardCmd.Flags().BoolVar(&onboardPrint, "print", false, "Print the example to stdout instead of writing it")
}

func runOnboard(cmd *cobra.Command, args []string) error {
	example := config.Example()
	if onboardPrint {
		data, err := yaml.Marshal(&example)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	path := "slackard.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := config.Save(&example, path); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created config at %s\n", path)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintf(out, "  1. Set apikey in %s (or export %s)\n", path, config.APIKeyEnv)
	fmt.Fprintf(out, "  2. Check it:  slackard check %s\n", path)
	fmt.Fprintf(out, "  3. Run it:    slackard run %s\n", path)
	return nil
}
