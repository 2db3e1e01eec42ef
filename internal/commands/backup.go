package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/planner"
)

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Export tasks, sessions and settings as JSON",
	Long: `Write a backup named ssp_backup_YYYY-MM-DD.json into dir (default the
current directory), or print it with --stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
			data, err := p.Export()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		path, err := p.ExportTo(dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "💾 Exported backup to %s\n", path)
		return nil
	}),
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a JSON backup",
	Long: `Import a backup. Each of tasks, sessions and settings present in the
file replaces the current collection; missing ones are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		if err := p.Import(data); err != nil {
			return err
		}
		view := p.View()
		fmt.Fprintf(cmd.OutOrStdout(), "📥 Imported successfully: %d tasks, %d sessions\n", len(view.Tasks), len(view.Sessions))
		return nil
	}),
}

func init() {
	exportCmd.Flags().Bool("stdout", false, "Print the backup instead of writing a file")
}
