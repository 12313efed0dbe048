package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/open-cli-collective/pak13/internal/config"
)

// Mode selects which compiled variant to produce.
type Mode int

const (
	// Optimized is the size-minimized release variant.
	Optimized Mode = iota
	// Debug is the readable, unminified variant.
	Debug
)

func (m Mode) String() string {
	if m == Debug {
		return "debug"
	}
	return "optimized"
}

// Compiler turns macro-free JavaScript into one of the two variants.
// Implementations must not keep state between calls.
type Compiler interface {
	Compile(ctx context.Context, source string, mode Mode) (string, error)
}

var esbuildTargets = map[string]api.Target{
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"es2023": api.ES2023,
	"es2024": api.ES2024,
	"esnext": api.ESNext,
}

// ESBuild compiles with esbuild's in-process transform API.
type ESBuild struct {
	target api.Target
	format api.Format
}

// NewESBuild creates a compiler from the COMPILER config block.
func NewESBuild(c config.Compiler) *ESBuild {
	target, ok := esbuildTargets[c.TargetOrDefault()]
	if !ok {
		target = api.ES2020
	}
	format := api.FormatIIFE
	if c.FormatOrDefault() == "esm" {
		format = api.FormatESModule
	}
	return &ESBuild{target: target, format: format}
}

// Compile implements Compiler.
func (e *ESBuild) Compile(ctx context.Context, source string, mode Mode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	opts := api.TransformOptions{
		Loader:     api.LoaderJS,
		Target:     e.target,
		Format:     e.format,
		Charset:    api.CharsetUTF8,
		Sourcefile: "game.js",
	}
	if mode == Optimized {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
		opts.LegalComments = api.LegalCommentsNone
	}

	result := api.Transform(source, opts)
	if len(result.Errors) > 0 {
		msgs := api.FormatMessages(result.Errors, api.FormatMessagesOptions{
			Kind: api.ErrorMessage,
		})
		return "", errors.New(strings.TrimSpace(strings.Join(msgs, "")))
	}

	code := string(result.Code)
	if mode == Optimized {
		code = strings.TrimRight(code, "\n")
	}
	return code, nil
}
