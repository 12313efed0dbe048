package macros

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/pak13/internal/config"
	"github.com/open-cli-collective/pak13/internal/pipeline"
	"github.com/open-cli-collective/pak13/internal/view"
)

type scanOptions struct {
	configPath string
	output     string
	noColor    bool
	width      int
	stdout     io.Writer
}

// NewCmdScan creates the macros scan command.
func NewCmdScan() *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [CONFIG]",
		Short: "List macro calls in the JavaScript sources",
		Long: `Scan reads the configured JavaScript files and lists every call of a
configured macro without building anything. Offsets are byte positions in
the concatenated sources.

An argument ends at the first ')' after the macro name, so an argument
containing ')' is cut short. Such calls show up here as invalid JSON.`,
		Example: `  pak13 macros scan
  pak13 macros scan game.yml -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			if len(args) == 1 {
				opts.configPath = args[0]
			}
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdout = cmd.OutOrStdout()
			return runScan(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.width, "width", "w", 50, "Truncate arguments to this many characters (0 for no limit)")

	return cmd
}

func runScan(ctx context.Context, opts *scanOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	cfg, err := config.LoadValid(config.ResolvePath(opts.configPath))
	if err != nil {
		return err
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	p, err := pipeline.New(*cfg, nil, renderer)
	if err != nil {
		return err
	}

	calls, err := p.Scan(ctx)
	if err != nil {
		return err
	}

	if len(calls) == 0 {
		renderer.RenderText("No macro calls found.")
		return nil
	}

	headers := []string{"IDENTIFIER", "OFFSET", "ARGUMENT", "VALID"}
	var rows [][]string
	for _, c := range calls {
		arg := strings.Join(strings.Fields(c.Raw), " ")
		if opts.width > 0 && renderer.Format() != view.FormatJSON {
			arg = view.Truncate(arg, opts.width)
		}
		rows = append(rows, []string{
			c.Identifier,
			strconv.Itoa(c.Start),
			arg,
			strconv.FormatBool(json.Valid([]byte(c.Raw))),
		})
	}

	renderer.RenderTable(headers, rows)

	if renderer.Format() == view.FormatTable {
		fmt.Fprintf(opts.stdout, "\n%d calls\n", len(calls))
	}
	return nil
}
