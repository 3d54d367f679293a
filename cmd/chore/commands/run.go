package commands

import (
	"errors"

	"github.com/spf13/cobra"
	"go.trai.ch/chore/internal/app"
	"go.trai.ch/chore/internal/core/domain"
)

func (c *CLI) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [tasks...]",
		Short: "Run the given tasks, or the default task",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.app.Run(cmd.Context(), args, app.RunOptions{
				ConfigPath: c.configPath,
				Env:        c.env,
				Color:      c.colorMode(),
			})
			if len(args) == 0 && errors.Is(err, domain.ErrNoTargetsSpecified) {
				// Nothing to run: display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			return err
		},
	}
}
