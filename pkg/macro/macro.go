// Package macro expands call-like macros embedded in JavaScript source.
//
// A macro call is written IDENT(ARG), where ARG is a JSON literal. Each call
// is replaced with the output of the transformer bound to IDENT.
package macro

import (
	"math"
	"unicode/utf8"
)

// Transformer maps a parsed macro argument to replacement source text.
// Transformers must be pure: the same argument always yields the same text.
type Transformer func(arg any) (string, error)

// Binding ties a macro identifier to a resolved transformer.
type Binding struct {
	Identifier  string      // matched literally as "Identifier("
	Name        string      // registry name of the transformer
	Transformer Transformer // resolved function
}

// Invocation is a single macro call located in a source buffer.
type Invocation struct {
	Identifier string
	Raw        string // argument text between '(' and the first ')'
	Start      int    // byte offset of the identifier
	End        int    // byte offset just past the closing ')'
}

// Report summarizes the expansion of one identifier.
type Report struct {
	Identifier  string
	Transformer string
	Calls       int
	Before      int // buffer length in characters before expansion
	After       int // buffer length in characters after expansion
}

// Saved returns how many characters the expansion removed. It is negative
// when the macro grew the source.
func (r Report) Saved() int {
	return r.Before - r.After
}

// SavedPercent returns Saved as a rounded percentage of Before.
func (r Report) SavedPercent() int {
	if r.Before == 0 {
		return 0
	}
	return int(math.Round(100 * float64(r.Saved()) / float64(r.Before)))
}

func charCount(s string) int {
	return utf8.RuneCountInString(s)
}
