// Package root provides the root command for the pak13 CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/pak13/internal/cmd/build"
	"github.com/open-cli-collective/pak13/internal/cmd/completion"
	"github.com/open-cli-collective/pak13/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/pak13/internal/cmd/init"
	"github.com/open-cli-collective/pak13/internal/cmd/macros"
	"github.com/open-cli-collective/pak13/internal/version"
)

// NewCmdRoot creates the root command for pak13.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pak13",
		Short: "Package a JavaScript game into a 13 KB zip",
		Long: `pak13 packs JavaScript, HTML and CSS sources into a single page and
zips it, checking the result against the 13 KB size budget.

Each build writes four files: the release zip, the minified page inside
it, and an unminified debug page that loads a separate debug script.

Get started by running: pak13 init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: config.json or $PAK13_CONFIG)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	cmd.SetVersionTemplate(version.String() + "\n")

	// Subcommands
	cmd.AddCommand(build.NewCmdBuild())
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(macros.NewCmdMacros())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
