// Package pipeline turns the configured sources into the release archive and
// its debug companions.
//
// A build is a fixed sequence of stages: gather, expand, compile, inject,
// minify, package, emit, budget. The first failing stage aborts the build.
// Output files written before a failure are left in place.
package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/open-cli-collective/pak13/internal/config"
	"github.com/open-cli-collective/pak13/pkg/macro"
)

// Reporter receives operator diagnostics. *view.Renderer satisfies it.
type Reporter interface {
	Info(msg string)
	Warning(msg string)
	Success(msg string)
}

// Pipeline runs builds for one validated configuration.
type Pipeline struct {
	cfg      config.Config
	bindings []macro.Binding
	compiler Compiler
	out      Reporter
}

// Result describes a successful build.
type Result struct {
	SourceSize      int // bytes of concatenated JS before macro expansion
	ExpandedSize    int // bytes after macro expansion
	CompiledPercent int // optimized JS size as a percentage of SourceSize
	Macros          []macro.Report
	Artifacts       Artifacts
	Budget          Budget
}

// New validates cfg and binds its macros. A nil compiler selects esbuild
// configured from cfg.Compiler.
func New(cfg config.Config, compiler Compiler, out Reporter) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	bindings, err := macro.Bind(cfg.Macros.Entries())
	if err != nil {
		return nil, err
	}

	if compiler == nil {
		compiler = NewESBuild(cfg.Compiler)
	}

	return &Pipeline{
		cfg:      cfg,
		bindings: bindings,
		compiler: compiler,
		out:      out,
	}, nil
}

// Run performs one full build.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	src, err := Gather(ctx, p.cfg.Input)
	if err != nil {
		return nil, err
	}

	expanded, err := p.expand(src.JS)
	if err != nil {
		return nil, err
	}

	optimized, err := p.compiler.Compile(ctx, expanded.source, Optimized)
	if err != nil {
		return nil, fmt.Errorf("%w (optimized): %w", ErrCompile, err)
	}
	debugJS, err := p.compiler.Compile(ctx, expanded.source, Debug)
	if err != nil {
		return nil, fmt.Errorf("%w (debug): %w", ErrCompile, err)
	}

	compiledPercent := percent(int64(len(optimized)), int64(len(src.JS)))
	p.out.Info(fmt.Sprintf("Compiled source is %d%% the size of the original source", compiledPercent))

	debugHTML, err := Inject(src.HTML, DebugScriptTag(p.cfg.Output), src.CSS)
	if err != nil {
		return nil, err
	}

	page, err := MinifyPage(src.HTML, src.CSS, optimized)
	if err != nil {
		return nil, err
	}

	p.out.Info("Creating zip file")
	archive, err := Archive(page)
	if err != nil {
		return nil, err
	}

	artifacts := Artifacts{
		Archive:   archive,
		HTML:      page,
		DebugHTML: debugHTML,
		DebugJS:   debugJS,
	}
	if err := Emit(ctx, p.cfg.Output, artifacts); err != nil {
		return nil, err
	}

	budget, err := CheckBudget(p.cfg.Output.Zip, MaxBytes)
	if err != nil {
		return nil, err
	}
	p.out.Info(fmt.Sprintf("ZIP file size: %d bytes (%d%% of max size, %d bytes remaining)",
		budget.Size, budget.Percent(), budget.Remaining()))
	if budget.Over() {
		p.out.Warning(fmt.Sprintf("Size is greater than allowed (%d of %d bytes)", budget.Size, budget.Max))
	}

	p.out.Success("Done.")

	return &Result{
		SourceSize:      len(src.JS),
		ExpandedSize:    len(expanded.source),
		CompiledPercent: compiledPercent,
		Macros:          expanded.reports,
		Artifacts:       artifacts,
		Budget:          budget,
	}, nil
}

type expansion struct {
	source  string
	reports []macro.Report
}

func (p *Pipeline) expand(source string) (expansion, error) {
	out, reports, err := macro.Expand(source, p.bindings)
	for _, r := range reports {
		p.out.Info(fmt.Sprintf("Applying macro: %s (%s, %d calls)", r.Identifier, r.Transformer, r.Calls))
		p.out.Info(fmt.Sprintf("Saved %d%% (%d chars)", r.SavedPercent(), r.Saved()))
	}
	if err != nil {
		return expansion{}, err
	}
	return expansion{source: out, reports: reports}, nil
}

// Scan gathers the inputs and lists every macro call without expanding.
// Identifiers are scanned independently on the unexpanded source.
func (p *Pipeline) Scan(ctx context.Context) ([]macro.Invocation, error) {
	src, err := Gather(ctx, p.cfg.Input)
	if err != nil {
		return nil, err
	}

	var calls []macro.Invocation
	for _, b := range p.bindings {
		found, err := macro.Scan(src.JS, b.Identifier)
		if err != nil {
			return nil, err
		}
		calls = append(calls, found...)
	}
	return calls, nil
}

func percent(part, whole int64) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}
