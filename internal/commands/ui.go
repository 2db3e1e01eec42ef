package commands

import (
	"github.com/spf13/cobra"

	"github.com/balkashynov/ssp/internal/planner"
	"github.com/balkashynov/ssp/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:         "ui",
	Aliases:     []string{"dash"},
	Short:       "Open the full-screen dashboard",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationTUI: "true"},
	RunE: withPlanner(func(cmd *cobra.Command, args []string, p *planner.Planner) error {
		return tui.RunDashboardTUI(p)
	}),
}
