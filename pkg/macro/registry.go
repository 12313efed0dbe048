// registry.go holds the static table of transformers macros can be bound to.
package macro

import (
	"fmt"
	"sort"
)

// TransformerType describes a registered transformer.
type TransformerType struct {
	Name     string      // registry name used in MACROS
	Argument string      // expected JSON argument
	Output   string      // what replaces the call
	Apply    Transformer // the transformation itself
}

// Transformers maps transformer names to their definitions.
// Adding a new transformer = adding one entry here.
var Transformers = map[string]TransformerType{
	"raw": {
		Name:     "raw",
		Argument: "string",
		Output:   "the string, unquoted",
		Apply:    rawTransformer,
	},
	"upper": {
		Name:     "upper",
		Argument: "string",
		Output:   "the upper-cased string, unquoted",
		Apply:    upperTransformer,
	},
	"lower": {
		Name:     "lower",
		Argument: "string",
		Output:   "the lower-cased string, unquoted",
		Apply:    lowerTransformer,
	},
	"json": {
		Name:     "json",
		Argument: "any",
		Output:   "compact JSON literal",
		Apply:    jsonTransformer,
	},
	"string": {
		Name:     "string",
		Argument: "any",
		Output:   "string literal of the value",
		Apply:    stringTransformer,
	},
	"markdown": {
		Name:     "markdown",
		Argument: "markdown string",
		Output:   "string literal of the rendered HTML",
		Apply:    markdownTransformer,
	},
	"text": {
		Name:     "text",
		Argument: "HTML string",
		Output:   "string literal of the markdown text",
		Apply:    textTransformer,
	},
	"svg": {
		Name:     "svg",
		Argument: "SVG string",
		Output:   "string literal of the minified SVG",
		Apply:    minifyTransformer(mimeSVG),
	},
	"css": {
		Name:     "css",
		Argument: "CSS string",
		Output:   "string literal of the minified CSS",
		Apply:    minifyTransformer(mimeCSS),
	},
	"html": {
		Name:     "html",
		Argument: "HTML string",
		Output:   "string literal of the minified HTML",
		Apply:    minifyTransformer(mimeHTML),
	},
}

// LookupTransformer returns the transformer registered under name.
// Names are case-sensitive.
func LookupTransformer(name string) (TransformerType, bool) {
	tt, ok := Transformers[name]
	return tt, ok
}

// TransformerNames returns the registered names, sorted.
func TransformerNames() []string {
	names := make([]string, 0, len(Transformers))
	for name := range Transformers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry is an unresolved identifier → transformer name pair.
type Entry struct {
	Identifier  string
	Transformer string
}

// Bind resolves entries against the registry, keeping their order.
// Every entry is checked before anything is returned, so a table with an
// unknown transformer never yields a partial binding list.
func Bind(entries []Entry) ([]Binding, error) {
	bindings := make([]Binding, 0, len(entries))
	seen := make(map[string]bool, len(entries))

	for _, e := range entries {
		if e.Identifier == "" {
			return nil, fmt.Errorf("%w: empty identifier", ErrInvalidBinding)
		}
		if seen[e.Identifier] {
			return nil, fmt.Errorf("%w: duplicate identifier %q", ErrInvalidBinding, e.Identifier)
		}
		seen[e.Identifier] = true

		tt, ok := LookupTransformer(e.Transformer)
		if !ok {
			return nil, fmt.Errorf("%w %q for macro %s", ErrUnknownTransformer, e.Transformer, e.Identifier)
		}
		bindings = append(bindings, Binding{
			Identifier:  e.Identifier,
			Name:        e.Transformer,
			Transformer: tt.Apply,
		})
	}

	return bindings, nil
}
