package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging, lowest priority first:
defaults, ~/.ssp/config.yaml, ./.ssp/config.yaml, ./.env, SSP_* environment
variables and command line flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := current.cfg.YAML()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)

		if paths, _ := cmd.Flags().GetBool("paths"); paths {
			home, _ := os.UserHomeDir()
			cwd, _ := os.Getwd()
			fmt.Fprintf(cmd.OutOrStdout(), "\n# global:  %s\n# project: %s\n", config.GlobalPath(home), config.ProjectPath(cwd))
		}
		return nil
	},
}

func init() {
	configCmd.Flags().Bool("paths", false, "Also print the config file locations")
}
