package pipeline

import "errors"

var (
	// ErrInputRead is returned when a declared input file cannot be read.
	ErrInputRead = errors.New("failed to read input")
	// ErrCompile is returned when the JavaScript compiler rejects the source.
	ErrCompile = errors.New("failed to compile")
	// ErrTemplate is returned when the HTML template cannot be rendered.
	ErrTemplate = errors.New("failed to render template")
	// ErrMinify is returned when the page cannot be minified.
	ErrMinify = errors.New("failed to minify page")
	// ErrArchive is returned when the zip archive cannot be built.
	ErrArchive = errors.New("failed to create archive")
	// ErrOutputWrite is returned when an artifact cannot be written.
	ErrOutputWrite = errors.New("failed to write output")
)
