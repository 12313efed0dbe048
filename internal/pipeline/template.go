package pipeline

import (
	"fmt"
	"html"
	"path/filepath"

	"github.com/cbroglie/mustache"

	"github.com/open-cli-collective/pak13/internal/config"
)

// Placeholder names in the HTML template. Templates should use the
// unescaped form, {{{JS_INJECTION_SITE}}} and {{{CSS_INJECTION_SITE}}}.
const (
	InjectJSTag  = "JS_INJECTION_SITE"
	InjectCSSTag = "CSS_INJECTION_SITE"
)

// Inject renders the template with the given script and style content.
func Inject(tmpl, script, style string) (string, error) {
	out, err := mustache.Render(tmpl, map[string]string{
		InjectJSTag:  script,
		InjectCSSTag: style,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return out, nil
}

// DebugScriptTag closes the template's inline script and loads the debug JS
// from its own file instead. The src is relative to the debug HTML.
func DebugScriptTag(out config.Output) string {
	src, err := filepath.Rel(filepath.Dir(out.DebugHTML), out.DebugJS)
	if err != nil {
		src = filepath.Base(out.DebugJS)
	}
	return `</script><script src="` + html.EscapeString(filepath.ToSlash(src)) + `">`
}
