package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/chore/internal/app"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks with their descriptions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return c.app.List(cmd.Context(), app.ListOptions{
				ConfigPath: c.configPath,
				All:        all,
			})
		},
	}
	cmd.Flags().BoolP("all", "A", false, "Include tasks without a description")
	return cmd
}
