// Package build provides the build command.
package build

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/pak13/internal/config"
	"github.com/open-cli-collective/pak13/internal/pipeline"
	"github.com/open-cli-collective/pak13/internal/view"
)

type buildOptions struct {
	configPath string
	output     string
	noColor    bool
	stdout     io.Writer
	stderr     io.Writer
	compiler   pipeline.Compiler
}

// summary is the JSON form of a finished build.
type summary struct {
	Config          string         `json:"config"`
	SourceSize      int            `json:"source_size"`
	ExpandedSize    int            `json:"expanded_size"`
	CompiledPercent int            `json:"compiled_percent"`
	Macros          []macroSummary `json:"macros"`
	Outputs         config.Output  `json:"outputs"`
	Zip             budgetSummary  `json:"zip"`
}

type macroSummary struct {
	Identifier   string `json:"identifier"`
	Transformer  string `json:"transformer"`
	Calls        int    `json:"calls"`
	SavedChars   int    `json:"saved_chars"`
	SavedPercent int    `json:"saved_percent"`
}

type budgetSummary struct {
	Size      int64 `json:"size"`
	Max       int64 `json:"max"`
	Percent   int   `json:"percent"`
	Remaining int64 `json:"remaining"`
	Over      bool  `json:"over"`
}

// NewCmdBuild creates the build command.
func NewCmdBuild() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build [CONFIG]",
		Short: "Build the release zip and debug files",
		Long: `Build reads the configured sources, expands macros, compiles the
JavaScript, injects it into the HTML template and writes:

  OUTPUT.ZIP         zip archive holding index.html
  OUTPUT.HTML        minified release page
  OUTPUT.DEBUG_HTML  unminified page loading the debug script
  OUTPUT.DEBUG_JS    readable compiled JavaScript

The zip is then checked against the 13 KB budget. Going over the budget
prints a warning but does not fail the build.`,
		Example: `  # Build with ./config.json
  pak13 build

  # Build with another config
  pak13 build game.yml

  # Print a machine-readable summary
  pak13 build -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			if len(args) == 1 {
				opts.configPath = args[0]
			}
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			return runBuild(cmd.Context(), opts)
		},
	}

	return cmd
}

func runBuild(ctx context.Context, opts *buildOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	path := config.ResolvePath(opts.configPath)
	cfg, err := config.LoadValid(path)
	if err != nil {
		return fmt.Errorf("%w (run 'pak13 init' to create one)", err)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	// Progress lines would corrupt a JSON document on stdout.
	progress := view.NewRenderer(view.Format(opts.output), opts.noColor)
	progress.SetWriter(opts.stdout)
	if renderer.Format() == view.FormatJSON {
		progress.SetWriter(opts.stderr)
	}

	p, err := pipeline.New(*cfg, opts.compiler, progress)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if renderer.Format() != view.FormatJSON {
		return nil
	}
	return renderer.RenderJSON(newSummary(path, cfg.Output, result))
}

func newSummary(path string, out config.Output, result *pipeline.Result) summary {
	s := summary{
		Config:          path,
		SourceSize:      result.SourceSize,
		ExpandedSize:    result.ExpandedSize,
		CompiledPercent: result.CompiledPercent,
		Macros:          []macroSummary{},
		Outputs:         out,
		Zip: budgetSummary{
			Size:      result.Budget.Size,
			Max:       result.Budget.Max,
			Percent:   result.Budget.Percent(),
			Remaining: result.Budget.Remaining(),
			Over:      result.Budget.Over(),
		},
	}
	for _, r := range result.Macros {
		s.Macros = append(s.Macros, macroSummary{
			Identifier:   r.Identifier,
			Transformer:  r.Transformer,
			Calls:        r.Calls,
			SavedChars:   r.Saved(),
			SavedPercent: r.SavedPercent(),
		})
	}
	return s
}
