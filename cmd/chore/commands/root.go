// Package commands implements the CLI commands for the chore task runner.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.trai.ch/chore/internal/adapters/detector"
	"go.trai.ch/chore/internal/app"
	"go.trai.ch/chore/internal/build"
	"go.trai.ch/chore/internal/core/domain"
	"go.trai.ch/chore/internal/ui/output"
	"go.trai.ch/zerr"
)

// ErrInvalidColor is returned when --color has an unknown value.
var ErrInvalidColor = zerr.New("invalid color mode")

var colorModes = []string{"auto", "always", "never"}

// CLI represents the command line interface for chore.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	configPath string
	env        []string
	color      string
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, targetNames []string, opts app.RunOptions) error
	List(ctx context.Context, opts app.ListOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "chore",
		Short:         "A task runner for matrix CI runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", domain.DefaultConfigFile, "Path to the project file")
	flags.StringArrayVarP(&c.env, "env", "e", nil, "Set an environment variable (KEY=VALUE), repeatable")
	flags.StringVar(&c.color, "color", "auto", "Color output: auto, always, or never")

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		if !slices.Contains(colorModes, c.color) {
			return zerr.With(zerr.Wrap(ErrInvalidColor, c.color), "color", c.color)
		}
		return nil
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

func (c *CLI) colorMode() output.ColorMode {
	return detector.ResolveColorMode(detector.DetectColorMode(os.Stdout), c.color)
}
