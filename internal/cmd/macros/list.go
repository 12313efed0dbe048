package macros

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/pak13/internal/view"
	"github.com/open-cli-collective/pak13/pkg/macro"
)

type listOptions struct {
	output  string
	noColor bool
	stdout  io.Writer
}

// NewCmdList creates the macros list command.
func NewCmdList() *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List built-in transformers",
		Long:    `List every transformer a macro can be bound to in MACROS.`,
		Example: `  pak13 macros list
  pak13 macros list -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdout = cmd.OutOrStdout()
			return runList(opts)
		},
	}

	return cmd
}

func runList(opts *listOptions) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	headers := []string{"NAME", "ARGUMENT", "OUTPUT"}
	var rows [][]string
	for _, name := range macro.TransformerNames() {
		t := macro.Transformers[name]
		rows = append(rows, []string{t.Name, t.Argument, t.Output})
	}

	renderer.RenderTable(headers, rows)
	return nil
}
