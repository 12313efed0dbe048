// scanner.go locates macro calls in a source buffer.
package macro

import (
	"errors"
	"strings"
)

var errUnterminated = errors.New("missing closing ')'")

// nextInvocation finds the first call of identifier at or after pos.
// Returns ok=false when no further "identifier(" exists.
//
// The argument ends at the first ')' after the opening parenthesis. Nesting
// is not tracked, so an argument such as "(a)" is cut short and then fails
// to parse, and a ')' inside a JSON string ends the argument early.
func nextInvocation(source, identifier string, pos int) (Invocation, bool, error) {
	opener := identifier + "("

	idx := strings.Index(source[pos:], opener)
	if idx < 0 {
		return Invocation{}, false, nil
	}
	start := pos + idx
	argStart := start + len(opener)

	closeIdx := strings.IndexByte(source[argStart:], ')')
	if closeIdx < 0 {
		return Invocation{}, false, &ArgumentParseError{
			Identifier: identifier,
			Raw:        source[argStart:],
			Offset:     start,
			Err:        errUnterminated,
		}
	}
	argEnd := argStart + closeIdx

	return Invocation{
		Identifier: identifier,
		Raw:        source[argStart:argEnd],
		Start:      start,
		End:        argEnd + 1, // skip ')'
	}, true, nil
}

// Scan returns every call of identifier in source, left to right, without
// expanding anything. Calls are non-overlapping: scanning resumes after the
// closing parenthesis of the previous call.
func Scan(source, identifier string) ([]Invocation, error) {
	var calls []Invocation
	pos := 0

	for pos < len(source) {
		inv, ok, err := nextInvocation(source, identifier, pos)
		if err != nil {
			return calls, err
		}
		if !ok {
			break
		}
		calls = append(calls, inv)
		pos = inv.End
	}

	return calls, nil
}
