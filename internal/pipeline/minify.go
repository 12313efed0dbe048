package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

// pageMinifier collapses HTML whitespace and minifies embedded CSS. No
// JavaScript minifier is registered, so script bodies pass through as-is.
var pageMinifier = newPageMinifier()

func newPageMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
	})
	return m
}

// MinifyPage renders the release page. The template is rendered with a
// random marker as the script, minified, and only then is the marker swapped
// for the compiled JS, so the HTML minifier never sees the compiled code.
// The marker is regenerated until it occurs nowhere in the inputs.
func MinifyPage(tmpl, style, compiledJS string) (string, error) {
	marker, err := scriptMarker(tmpl, style)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMinify, err)
	}

	page, err := Inject(tmpl, marker, style)
	if err != nil {
		return "", err
	}

	minified, err := pageMinifier.String("text/html", page)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMinify, err)
	}

	return strings.Replace(minified, marker, compiledJS, 1), nil
}

func scriptMarker(inputs ...string) (string, error) {
	buf := make([]byte, 16)
	for {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		marker := "pak13_script_" + hex.EncodeToString(buf)
		clash := false
		for _, in := range inputs {
			if strings.Contains(in, marker) {
				clash = true
				break
			}
		}
		if !clash {
			return marker, nil
		}
	}
}
