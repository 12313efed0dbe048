// Package configcmd provides config inspection commands.
package configcmd

import (
	"github.com/spf13/cobra"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect pak13 configuration",
		Long:  `Commands for viewing the pak13 build configuration.`,
	}

	cmd.AddCommand(NewCmdShow())

	return cmd
}
