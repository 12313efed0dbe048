// transformers.go implements the built-in transformers.
package macro

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/svg"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	mimeSVG  = "image/svg+xml"
	mimeCSS  = "text/css"
	mimeHTML = "text/html"
)

// mdRenderer is a pre-configured goldmark instance with GFM table extension.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

var assetMinifier = newAssetMinifier()

func newAssetMinifier() *minify.M {
	m := minify.New()
	m.AddFunc(mimeCSS, css.Minify)
	m.AddFunc(mimeSVG, svg.Minify)
	m.Add(mimeHTML, &html.Minifier{})
	return m
}

func rawTransformer(arg any) (string, error) {
	return stringArg(arg)
}

func upperTransformer(arg any) (string, error) {
	s, err := stringArg(arg)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(s), nil
}

func lowerTransformer(arg any) (string, error) {
	s, err := stringArg(arg)
	if err != nil {
		return "", err
	}
	return strings.ToLower(s), nil
}

// jsonTransformer re-emits the argument as compact JSON, which is also a
// valid JavaScript expression.
func jsonTransformer(arg any) (string, error) {
	return compactJSON(arg)
}

func stringTransformer(arg any) (string, error) {
	if s, ok := arg.(string); ok {
		return jsString(s)
	}
	text, err := compactJSON(arg)
	if err != nil {
		return "", err
	}
	return jsString(text)
}

// markdownTransformer renders markdown to HTML and emits it as a string
// literal.
func markdownTransformer(arg any) (string, error) {
	s, err := stringArg(arg)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(s), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return jsString(strings.TrimSpace(buf.String()))
}

// textTransformer flattens an HTML fragment to markdown-style plain text,
// for strings drawn on a canvas rather than inserted into the DOM.
func textTransformer(arg any) (string, error) {
	s, err := stringArg(arg)
	if err != nil {
		return "", err
	}
	text, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return jsString(strings.TrimSpace(text))
}

func minifyTransformer(mediatype string) Transformer {
	return func(arg any) (string, error) {
		s, err := stringArg(arg)
		if err != nil {
			return "", err
		}
		out, err := assetMinifier.String(mediatype, s)
		if err != nil {
			return "", fmt.Errorf("minify %s: %w", mediatype, err)
		}
		return jsString(out)
	}
}

func stringArg(arg any) (string, error) {
	s, ok := arg.(string)
	if !ok {
		return "", fmt.Errorf("expected string argument, got %T", arg)
	}
	return s, nil
}

// compactJSON encodes v without HTML escaping, so '<' stays one byte.
func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) (string, error) {
	return compactJSON(s)
}
