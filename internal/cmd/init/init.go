// Package init provides the init command for pak13.
package init

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cbroglie/mustache"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/pak13/internal/config"
	"github.com/open-cli-collective/pak13/internal/pipeline"
)

type initOptions struct {
	configPath string
	title      string
	srcDir     string
	outDir     string
	noInput    bool
	force      bool
	stdout     io.Writer
}

// project holds the answers that shape the scaffold.
type project struct {
	Title  string
	SrcDir string
	OutDir string
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a pak13 project",
		Long: `Initialize a pak13 project in the current directory.

This writes a config file and a minimal game: src/main.js, src/index.html
and src/style.css. Existing source files are never overwritten. An
existing config file is only replaced after confirmation or with --force.

All paths in the config are relative to the directory you run pak13 from.`,
		Example: `  # Interactive setup
  pak13 init

  # Accept all defaults
  pak13 init --no-input

  # Write a YAML config instead
  pak13 init --config pak13.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.stdout = cmd.OutOrStdout()
			return runInit(opts)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "My Game", "Page title of the game")
	cmd.Flags().StringVar(&opts.srcDir, "src", "src", "Directory for the source files")
	cmd.Flags().StringVar(&opts.outDir, "dist", "dist", "Directory for the build outputs")
	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "Use flag values without prompting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing config file")

	return cmd
}

func runInit(opts *initOptions) error {
	configPath := config.ResolvePath(opts.configPath)

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if opts.noInput {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(opts.stdout, "Initialization cancelled.")
			return nil
		}
	}

	p := project{
		Title:  opts.title,
		SrcDir: opts.srcDir,
		OutDir: opts.outDir,
	}

	if !opts.noInput {
		if err := promptProject(&p); err != nil {
			return err
		}
	}

	cfg := p.config()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	written, err := p.writeSources(cfg.Input)
	if err != nil {
		return err
	}

	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(opts.stdout, "Configuration saved to %s\n", configPath)
	for _, f := range written {
		fmt.Fprintf(opts.stdout, "Created %s\n", f)
	}
	fmt.Fprintln(opts.stdout, "\nYou're all set! Try running:")
	if configPath == config.DefaultConfigFile {
		fmt.Fprintln(opts.stdout, "  pak13 build")
	} else {
		fmt.Fprintf(opts.stdout, "  pak13 build %s\n", configPath)
	}

	return nil
}

func promptProject(p *project) error {
	required := func(field string) func(string) error {
		return func(s string) error {
			if s == "" {
				return fmt.Errorf("%s is required", field)
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Game title").
				Description("Shown in the browser tab").
				Value(&p.Title).
				Validate(required("title")),

			huh.NewInput().
				Title("Source directory").
				Description("Where main.js, index.html and style.css live").
				Value(&p.SrcDir).
				Validate(required("source directory")),

			huh.NewInput().
				Title("Output directory").
				Description("Where the zip and debug files are written").
				Value(&p.OutDir).
				Validate(required("output directory")),
		),
	)

	return form.Run()
}

func (p project) config() config.Config {
	return config.Config{
		Input: config.Input{
			JS:   []string{filepath.Join(p.SrcDir, "main.js")},
			HTML: filepath.Join(p.SrcDir, "index.html"),
			CSS:  filepath.Join(p.SrcDir, "style.css"),
		},
		Output: config.Output{
			Zip:       filepath.Join(p.OutDir, "game.zip"),
			HTML:      filepath.Join(p.OutDir, "index.html"),
			DebugHTML: filepath.Join(p.OutDir, "debug.html"),
			DebugJS:   filepath.Join(p.OutDir, "debug.js"),
		},
		Macros: config.MacroTable{
			{Identifier: "LEVEL", Transformer: "json"},
			{Identifier: "HELP", Transformer: "string"},
		},
	}
}

// writeSources creates the starter files, skipping any that exist.
func (p project) writeSources(in config.Input) ([]string, error) {
	page, err := mustache.Render(indexTemplate, map[string]string{
		"title":               p.Title,
		pipeline.InjectJSTag:  "{{{" + pipeline.InjectJSTag + "}}}",
		pipeline.InjectCSSTag: "{{{" + pipeline.InjectCSSTag + "}}}",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render index.html: %w", err)
	}

	files := []struct {
		path    string
		content string
	}{
		{in.JS[0], mainJS},
		{in.HTML, page},
		{in.CSS, styleCSS},
	}

	var written []string
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return written, fmt.Errorf("failed to check %s: %w", f.path, err)
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return written, fmt.Errorf("failed to create %s: %w", filepath.Dir(f.path), err)
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		written = append(written, f.path)
	}
	return written, nil
}

const indexTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{title}}</title>
<style>{{{CSS_INJECTION_SITE}}}</style>
</head>
<body>
<canvas id="c" width="320" height="180"></canvas>
<script>{{{JS_INJECTION_SITE}}}</script>
</body>
</html>
`

const styleCSS = `html, body {
  margin: 0;
  height: 100%;
  background: #000;
}

canvas {
  display: block;
  margin: auto;
  height: 100%;
  image-rendering: pixelated;
}
`

// Macro arguments end at the first ')', so keep them free of parentheses.
const mainJS = `// LEVEL and HELP are expanded by pak13 before compiling.
// Run "pak13 macros list" to see every transformer.
const level = LEVEL({"width": 16, "height": 9, "tiles": [0, 1, 1, 0, 1]});
const help = HELP("Arrow keys move, space jumps");

const canvas = document.getElementById("c");
const ctx = canvas.getContext("2d");

function draw() {
  ctx.fillStyle = "#124";
  ctx.fillRect(0, 0, canvas.width, canvas.height);
  ctx.fillStyle = "#fff";
  ctx.font = "12px monospace";
  ctx.fillText(help, 8, 16);
  level.tiles.forEach(function (tile, i) {
    if (tile) {
      ctx.fillRect(8 + i * 20, 40, 16, 16);
    }
  });
  requestAnimationFrame(draw);
}

draw();
`
