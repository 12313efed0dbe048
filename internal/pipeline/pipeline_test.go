package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/pak13/internal/config"
	"github.com/open-cli-collective/pak13/pkg/macro"
)

const testTemplate = `<!DOCTYPE html>
<html>
  <head>
    <style>{{{CSS_INJECTION_SITE}}}</style>
  </head>
  <body>
    <canvas id="c"></canvas>
    <script>{{{JS_INJECTION_SITE}}}</script>
  </body>
</html>
`

const testCSS = `body {
  margin : 0 ;
}
`

// recorder captures diagnostics.
type recorder struct {
	infos     []string
	warnings  []string
	successes []string
}

func (r *recorder) Info(msg string)    { r.infos = append(r.infos, msg) }
func (r *recorder) Warning(msg string) { r.warnings = append(r.warnings, msg) }
func (r *recorder) Success(msg string) { r.successes = append(r.successes, msg) }

// fakeCompiler tags its input so tests can tell the variants apart.
type fakeCompiler struct {
	failMode *Mode
}

func (f *fakeCompiler) Compile(_ context.Context, source string, mode Mode) (string, error) {
	if f.failMode != nil && *f.failMode == mode {
		return "", errors.New("unexpected token")
	}
	if mode == Optimized {
		return "MIN[" + source + "]", nil
	}
	return "DEBUG[" + source + "]", nil
}

// passthrough returns the source unchanged for both variants.
type passthrough struct{}

func (passthrough) Compile(_ context.Context, source string, _ Mode) (string, error) {
	return source, nil
}

type fixture struct {
	dir string
	cfg config.Config
}

func newFixture(t *testing.T, jsFiles ...string) fixture {
	t.Helper()
	dir := t.TempDir()

	var jsPaths []string
	for i, content := range jsFiles {
		p := filepath.Join(dir, "src", fmt.Sprintf("%02d.js", i))
		writeFile(t, p, content)
		jsPaths = append(jsPaths, p)
	}
	writeFile(t, filepath.Join(dir, "src", "index.html"), testTemplate)
	writeFile(t, filepath.Join(dir, "src", "style.css"), testCSS)

	return fixture{
		dir: dir,
		cfg: config.Config{
			Input: config.Input{
				JS:   jsPaths,
				HTML: filepath.Join(dir, "src", "index.html"),
				CSS:  filepath.Join(dir, "src", "style.css"),
			},
			Output: config.Output{
				Zip:       filepath.Join(dir, "dist", "game.zip"),
				HTML:      filepath.Join(dir, "dist", "index.html"),
				DebugHTML: filepath.Join(dir, "dist", "debug.html"),
				DebugJS:   filepath.Join(dir, "dist", "debug.js"),
			},
			Macros: config.MacroTable{
				{Identifier: "UPPER", Transformer: "upper"},
			},
		},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func outputPaths(out config.Output) []string {
	return []string{out.Zip, out.HTML, out.DebugHTML, out.DebugJS}
}

func assertNoOutputs(t *testing.T, out config.Output) {
	t.Helper()
	for _, p := range outputPaths(out) {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "%s should not exist", p)
	}
}

func TestRun_WritesAllArtifacts(t *testing.T) {
	fx := newFixture(t, `const greeting = UPPER("hi");`, `console.log(greeting);`)
	rec := &recorder{}

	p, err := New(fx.cfg, &fakeCompiler{}, rec)
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	expandedJS := "const greeting = HI;\nconsole.log(greeting);"

	// Optimized HTML: minified markup and CSS, compiled JS inlined verbatim.
	page := readFile(t, fx.cfg.Output.HTML)
	assert.Contains(t, page, "<script>MIN["+expandedJS+"]</script>")
	assert.Contains(t, page, "margin:0")
	assert.NotContains(t, page, "\n  ")
	assert.NotContains(t, page, InjectJSTag)
	assert.NotContains(t, page, InjectCSSTag)
	assert.Equal(t, result.Artifacts.HTML, page)

	// Debug HTML loads the debug JS from its own file.
	debugHTML := readFile(t, fx.cfg.Output.DebugHTML)
	assert.Contains(t, debugHTML, `<script src="debug.js">`)
	assert.NotContains(t, debugHTML, "MIN[")
	assert.NotContains(t, debugHTML, "DEBUG[")
	assert.Contains(t, debugHTML, "margin : 0")

	assert.Equal(t, "DEBUG["+expandedJS+"]", readFile(t, fx.cfg.Output.DebugJS))

	// The archive holds exactly the optimized page.
	archive, err := os.ReadFile(fx.cfg.Output.Zip)
	require.NoError(t, err)
	assert.Equal(t, result.Artifacts.Archive, archive)
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "index.html", zr.File[0].Name)
	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	inner, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, page, string(inner))

	// Diagnostics.
	assert.Equal(t, int64(len(archive)), result.Budget.Size)
	assert.False(t, result.Budget.Over())
	assert.Empty(t, rec.warnings)
	assert.Equal(t, []string{"Done."}, rec.successes)
	assert.Contains(t, rec.infos, "Applying macro: UPPER (upper, 1 calls)")
	assert.Contains(t, rec.infos, "Creating zip file")
	require.Len(t, result.Macros, 1)
	assert.Equal(t, 1, result.Macros[0].Calls)
	assert.Equal(t, len(`const greeting = UPPER("hi");`+"\n"+`console.log(greeting);`), result.SourceSize)
	assert.Equal(t, len(expandedJS), result.ExpandedSize)
}

func TestRun_OverBudgetStillSucceeds(t *testing.T) {
	rng := rand.New(rand.NewPCG(13, 13))
	noise := make([]byte, 20*1024)
	for i := range noise {
		noise[i] = byte(rng.UintN(256))
	}
	fx := newFixture(t, `const blob = "`+hex.EncodeToString(noise)+`";`)
	rec := &recorder{}

	p, err := New(fx.cfg, passthrough{}, rec)
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Budget.Over())
	assert.GreaterOrEqual(t, result.Budget.Size, MaxBytes)
	assert.Less(t, result.Budget.Remaining(), int64(0))
	require.Len(t, rec.warnings, 1)
	assert.Contains(t, rec.warnings[0], "Size is greater than allowed")
	assert.Equal(t, []string{"Done."}, rec.successes)

	for _, path := range outputPaths(fx.cfg.Output) {
		_, err := os.Stat(path)
		assert.NoError(t, err, "%s should be retained", path)
	}
}

func TestRun_MissingJSInput(t *testing.T) {
	fx := newFixture(t, `console.log(1);`)
	fx.cfg.Input.JS = append(fx.cfg.Input.JS, filepath.Join(fx.dir, "src", "missing.js"))
	rec := &recorder{}

	p, err := New(fx.cfg, &fakeCompiler{}, rec)
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputRead))
	assert.Contains(t, err.Error(), "missing.js")

	assertNoOutputs(t, fx.cfg.Output)
	assert.Empty(t, rec.successes)
}

func TestRun_MacroArgumentError(t *testing.T) {
	fx := newFixture(t, `const s = UPPER(hi);`)

	p, err := New(fx.cfg, &fakeCompiler{}, &recorder{})
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, macro.ErrArgumentParse))

	var parseErr *macro.ArgumentParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "UPPER", parseErr.Identifier)
	assert.Equal(t, "hi", parseErr.Raw)

	assertNoOutputs(t, fx.cfg.Output)
}

func TestRun_TransformerError(t *testing.T) {
	fx := newFixture(t, `const s = UPPER(1);`)

	p, err := New(fx.cfg, &fakeCompiler{}, &recorder{})
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, macro.ErrTransformer))
	assertNoOutputs(t, fx.cfg.Output)
}

func TestRun_CompileError(t *testing.T) {
	for _, mode := range []Mode{Optimized, Debug} {
		t.Run(mode.String(), func(t *testing.T) {
			fx := newFixture(t, `console.log(1);`)

			p, err := New(fx.cfg, &fakeCompiler{failMode: &mode}, &recorder{})
			require.NoError(t, err)

			_, err = p.Run(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCompile))
			assert.Contains(t, err.Error(), mode.String())
			assertNoOutputs(t, fx.cfg.Output)
		})
	}
}

func TestRun_OutputWriteError(t *testing.T) {
	fx := newFixture(t, `console.log(1);`)
	blocker := filepath.Join(fx.dir, "blocker")
	writeFile(t, blocker, "not a directory")
	fx.cfg.Output.Zip = filepath.Join(blocker, "game.zip")

	p, err := New(fx.cfg, &fakeCompiler{}, &recorder{})
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutputWrite))
}

func TestRun_WithESBuild(t *testing.T) {
	fx := newFixture(t,
		`function scale(value, factor) { return value * factor; }`,
		`document.title = UPPER("pak") + scale(2, 3);`,
	)
	rec := &recorder{}

	p, err := New(fx.cfg, nil, rec)
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, result.Artifacts.HTML, "factor")
	assert.Contains(t, result.Artifacts.DebugJS, "factor")
	assert.Contains(t, result.Artifacts.DebugJS, "PAK")
	assert.Less(t, result.CompiledPercent, 100)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	fx := newFixture(t, `console.log(1);`)
	fx.cfg.Macros = append(fx.cfg.Macros, config.MacroEntry{Identifier: "SVG", Transformer: "svgo"})

	_, err := New(fx.cfg, &fakeCompiler{}, &recorder{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalid))
	assert.True(t, errors.Is(err, macro.ErrUnknownTransformer))
}

func TestPipeline_Scan(t *testing.T) {
	fx := newFixture(t, `a(UPPER("x"))`, `UPPER("y")`)
	fx.cfg.Macros = append(fx.cfg.Macros, config.MacroEntry{Identifier: "a", Transformer: "raw"})

	p, err := New(fx.cfg, &fakeCompiler{}, &recorder{})
	require.NoError(t, err)

	calls, err := p.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, calls, 3)

	assert.Equal(t, "UPPER", calls[0].Identifier)
	assert.Equal(t, `"x"`, calls[0].Raw)
	assert.Equal(t, "UPPER", calls[1].Identifier)
	assert.Equal(t, `"y"`, calls[1].Raw)
	assert.Equal(t, "a", calls[2].Identifier)
	assert.Equal(t, `UPPER("x"`, calls[2].Raw)
}

func TestGather_KeepsDeclaredOrder(t *testing.T) {
	var contents []string
	for i := 0; i < 40; i++ {
		contents = append(contents, strings.Repeat(fmt.Sprintf("// file %d\n", i), 40-i))
	}
	fx := newFixture(t, contents...)

	src, err := Gather(context.Background(), fx.cfg.Input)
	require.NoError(t, err)

	assert.Equal(t, strings.Join(contents, "\n"), src.JS)
	assert.Equal(t, testTemplate, src.HTML)
	assert.Equal(t, testCSS, src.CSS)
}

func TestGather_MissingTemplate(t *testing.T) {
	fx := newFixture(t, `1`)
	fx.cfg.Input.HTML = filepath.Join(fx.dir, "nope.html")

	_, err := Gather(context.Background(), fx.cfg.Input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputRead))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestGather_CancelledContext(t *testing.T) {
	fx := newFixture(t, `1`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Gather(ctx, fx.cfg.Input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
