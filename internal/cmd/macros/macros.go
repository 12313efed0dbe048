// Package macros provides commands for inspecting macro transformers and
// the macro calls in a project.
package macros

import (
	"github.com/spf13/cobra"
)

// NewCmdMacros creates the macros command.
func NewCmdMacros() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "macros",
		Aliases: []string{"macro"},
		Short:   "Inspect macros",
		Long: `Commands for listing the built-in transformers and finding macro calls.

A macro call looks like IDENT(ARG) where ARG is a JSON literal. MACROS in
the config binds each IDENT to a transformer, and the call is replaced by
the transformer's output before the JavaScript is compiled.`,
	}

	cmd.AddCommand(NewCmdList())
	cmd.AddCommand(NewCmdScan())

	return cmd
}
