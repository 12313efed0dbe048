package configcmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/pak13/internal/config"
	"github.com/open-cli-collective/pak13/internal/view"
)

type showOptions struct {
	configPath string
	output     string
	noColor    bool
	stdout     io.Writer
}

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show [CONFIG]",
		Short: "Display the build configuration",
		Long: `Display the resolved pak13 configuration, including compiler defaults,
and whether it passes validation.`,
		Example: `  # Show ./config.json
  pak13 config show

  # Show another config as JSON
  pak13 config show game.yml -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			if len(args) == 1 {
				opts.configPath = args[0]
			}
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdout = cmd.OutOrStdout()
			return runShow(opts)
		},
	}

	return cmd
}

func runShow(opts *showOptions) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	path := config.ResolvePath(opts.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.Compiler = config.Compiler{
		Target: cfg.Compiler.TargetOrDefault(),
		Format: cfg.Compiler.FormatOrDefault(),
	}
	validErr := cfg.Validate()

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	if renderer.Format() == view.FormatJSON {
		doc := struct {
			Path   string         `json:"path"`
			Config *config.Config `json:"config"`
			Valid  bool           `json:"valid"`
			Error  string         `json:"error,omitempty"`
		}{Path: path, Config: cfg, Valid: validErr == nil}
		if validErr != nil {
			doc.Error = validErr.Error()
		}
		return renderer.RenderJSON(doc)
	}

	rows := [][]string{
		{"INPUT.JS", strings.Join(cfg.Input.JS, ", ")},
		{"INPUT.HTML", cfg.Input.HTML},
		{"INPUT.CSS", cfg.Input.CSS},
		{"OUTPUT.ZIP", cfg.Output.Zip},
		{"OUTPUT.HTML", cfg.Output.HTML},
		{"OUTPUT.DEBUG_HTML", cfg.Output.DebugHTML},
		{"OUTPUT.DEBUG_JS", cfg.Output.DebugJS},
		{"COMPILER.TARGET", cfg.Compiler.Target},
		{"COMPILER.FORMAT", cfg.Compiler.Format},
	}
	for _, m := range cfg.Macros {
		rows = append(rows, []string{"MACROS." + m.Identifier, m.Transformer})
	}
	for i, row := range rows {
		if row[1] == "" {
			rows[i][1] = "-"
		}
	}
	renderer.RenderTable([]string{"KEY", "VALUE"}, rows)

	if renderer.Format() == view.FormatPlain {
		return nil
	}

	dim := color.New(color.Faint)
	fmt.Fprintln(opts.stdout)
	_, _ = dim.Fprintf(opts.stdout, "Config file: %s\n", path)
	if validErr != nil {
		renderer.Warning(validErr.Error())
	} else {
		renderer.Success("Configuration is valid")
	}

	return nil
}
