package macro

import (
	"encoding/json"
	"strings"
)

// Expand rewrites source by replacing every call of each bound identifier
// with its transformer's output.
//
// Bindings are processed in order and each identifier is exhausted before the
// next one starts. Within an identifier calls are replaced left to right; the
// search resumes after the inserted replacement, so transformer output is
// never expanded again by the same identifier. One Report is returned per
// binding, in binding order.
func Expand(source string, bindings []Binding) (string, []Report, error) {
	reports := make([]Report, 0, len(bindings))

	for _, b := range bindings {
		expanded, report, err := expandOne(source, b)
		if err != nil {
			return source, reports, err
		}
		source = expanded
		reports = append(reports, report)
	}

	return source, reports, nil
}

// expandOne exhausts a single identifier.
func expandOne(source string, b Binding) (string, Report, error) {
	report := Report{
		Identifier:  b.Identifier,
		Transformer: b.Name,
		Before:      charCount(source),
	}

	pos := 0
	for pos <= len(source) {
		inv, ok, err := nextInvocation(source, b.Identifier, pos)
		if err != nil {
			return source, report, err
		}
		if !ok {
			break
		}

		replacement, err := apply(b, inv)
		if err != nil {
			return source, report, err
		}

		var sb strings.Builder
		sb.Grow(inv.Start + len(replacement) + len(source) - inv.End)
		sb.WriteString(source[:inv.Start])
		sb.WriteString(replacement)
		sb.WriteString(source[inv.End:])
		source = sb.String()

		pos = inv.Start + len(replacement)
		report.Calls++
	}

	report.After = charCount(source)
	return source, report, nil
}

// apply parses the invocation's argument and runs the bound transformer.
func apply(b Binding, inv Invocation) (string, error) {
	var arg any
	if err := json.Unmarshal([]byte(inv.Raw), &arg); err != nil {
		return "", &ArgumentParseError{
			Identifier: inv.Identifier,
			Raw:        inv.Raw,
			Offset:     inv.Start,
			Err:        err,
		}
	}

	out, err := b.Transformer(arg)
	if err != nil {
		return "", &TransformerError{
			Identifier:  b.Identifier,
			Transformer: b.Name,
			Err:         err,
		}
	}
	return out, nil
}
