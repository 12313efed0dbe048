package macro

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBind(t *testing.T, entries ...Entry) []Binding {
	t.Helper()
	bindings, err := Bind(entries)
	require.NoError(t, err)
	return bindings
}

func TestExpand_Upper(t *testing.T) {
	bindings := mustBind(t, Entry{Identifier: "UPPER", Transformer: "upper"})

	out, reports, err := Expand(`a UPPER("hi") b`, bindings)
	require.NoError(t, err)

	assert.Equal(t, "a HI b", out)
	require.Len(t, reports, 1)
	assert.Equal(t, "UPPER", reports[0].Identifier)
	assert.Equal(t, "upper", reports[0].Transformer)
	assert.Equal(t, 1, reports[0].Calls)
	assert.Equal(t, 15, reports[0].Before)
	assert.Equal(t, 6, reports[0].After)
	assert.Equal(t, 9, reports[0].Saved())
	assert.Equal(t, 60, reports[0].SavedPercent())
}

func TestExpand_IdentifierMajorOrder(t *testing.T) {
	var calls []string
	record := func(name string) Transformer {
		return func(arg any) (string, error) {
			calls = append(calls, fmt.Sprintf("%s%v", name, arg))
			return name, nil
		}
	}
	bindings := []Binding{
		{Identifier: "A", Name: "a", Transformer: record("a")},
		{Identifier: "B", Name: "b", Transformer: record("b")},
	}

	out, reports, err := Expand("B(1) A(2) B(3) A(4)", bindings)
	require.NoError(t, err)

	assert.Equal(t, []string{"a2", "a4", "b1", "b3"}, calls)
	assert.Equal(t, "b a b a", out)
	require.Len(t, reports, 2)
	assert.Equal(t, "A", reports[0].Identifier)
	assert.Equal(t, 2, reports[0].Calls)
	assert.Equal(t, "B", reports[1].Identifier)
	assert.Equal(t, 2, reports[1].Calls)
}

func TestExpand_ShiftingPositions(t *testing.T) {
	grow := func(arg any) (string, error) {
		return fmt.Sprintf("value-%v-long", arg), nil
	}
	bindings := []Binding{{Identifier: "X", Name: "grow", Transformer: grow}}

	out, reports, err := Expand("X(1),X(2);X(3)", bindings)
	require.NoError(t, err)

	assert.Equal(t, "value-1-long,value-2-long;value-3-long", out)
	assert.Equal(t, 3, reports[0].Calls)
	assert.Less(t, reports[0].SavedPercent(), 0)
}

func TestExpand_AdjacentCallsWithEmptyReplacement(t *testing.T) {
	empty := func(any) (string, error) { return "", nil }
	bindings := []Binding{{Identifier: "X", Name: "empty", Transformer: empty}}

	out, reports, err := Expand("X(1)X(2)X(3)", bindings)
	require.NoError(t, err)

	assert.Equal(t, "", out)
	assert.Equal(t, 3, reports[0].Calls)
	assert.Equal(t, 100, reports[0].SavedPercent())
}

func TestExpand_ReplacementIsNotRescanned(t *testing.T) {
	echo := func(any) (string, error) { return "X(0)", nil }
	bindings := []Binding{{Identifier: "X", Name: "echo", Transformer: echo}}

	out, reports, err := Expand("X(1) X(2)", bindings)
	require.NoError(t, err)
	assert.Equal(t, "X(0) X(0)", out)
	assert.Equal(t, 2, reports[0].Calls)

	// A second pass finds the tokens the transformer produced.
	again, reports, err := Expand(out, bindings)
	require.NoError(t, err)
	assert.Equal(t, "X(0) X(0)", again)
	assert.Equal(t, 2, reports[0].Calls)
}

func TestExpand_SelfReproducingOutputIsLeftInPlace(t *testing.T) {
	bindings := mustBind(t,
		Entry{Identifier: "R", Transformer: "raw"},
		Entry{Identifier: "U", Transformer: "upper"},
	)

	out, reports, err := Expand(`R("R(") R("U(")"ok")`, bindings)
	require.NoError(t, err)

	// R's output still holds an R call; the later U binding expands its own.
	assert.Equal(t, "R( OK", out)
	assert.Equal(t, 2, reports[0].Calls)
	assert.Equal(t, 1, reports[1].Calls)
}

func TestExpand_IdentityIsIdempotent(t *testing.T) {
	bindings := mustBind(t, Entry{Identifier: "ID", Transformer: "raw"})

	out, _, err := Expand(`const a = ID("abc") + ID("def");`, bindings)
	require.NoError(t, err)
	assert.Equal(t, `const a = abc + def;`, out)
	assert.NotContains(t, out, "ID(")

	again, reports, err := Expand(out, bindings)
	require.NoError(t, err)
	assert.Equal(t, out, again)
	assert.Equal(t, 0, reports[0].Calls)
	assert.Equal(t, 0, reports[0].Saved())
}

func TestExpand_FirstCloseParenEndsArgument(t *testing.T) {
	t.Run("truncated argument still parses", func(t *testing.T) {
		bindings := mustBind(t, Entry{Identifier: "M", Transformer: "json"})

		out, _, err := Expand("M(1)2)", bindings)
		require.NoError(t, err)
		assert.Equal(t, "12)", out)
	})

	t.Run("close paren inside string literal", func(t *testing.T) {
		bindings := mustBind(t, Entry{Identifier: "M", Transformer: "raw"})

		_, _, err := Expand(`M("a)b")`, bindings)
		require.Error(t, err)

		var parseErr *ArgumentParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "M", parseErr.Identifier)
		assert.Equal(t, `"a`, parseErr.Raw)
		assert.Equal(t, 0, parseErr.Offset)
	})

	t.Run("close paren inside object", func(t *testing.T) {
		bindings := mustBind(t, Entry{Identifier: "M", Transformer: "json"})

		_, _, err := Expand(`x; M({"k":"(v)"})`, bindings)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrArgumentParse))

		var parseErr *ArgumentParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, `{"k":"(v`, parseErr.Raw)
		assert.Equal(t, 3, parseErr.Offset)
	})
}

func TestExpand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		entry   Entry
		wantIs  error
		errPart string
	}{
		{
			name:    "malformed json",
			source:  `UPPER(hi)`,
			entry:   Entry{Identifier: "UPPER", Transformer: "upper"},
			wantIs:  ErrArgumentParse,
			errPart: `cannot parse argument "hi"`,
		},
		{
			name:    "unterminated call",
			source:  `UPPER("hi"`,
			entry:   Entry{Identifier: "UPPER", Transformer: "upper"},
			wantIs:  errUnterminated,
			errPart: "missing closing ')'",
		},
		{
			name:    "transformer rejects argument",
			source:  `UPPER(42)`,
			entry:   Entry{Identifier: "UPPER", Transformer: "upper"},
			wantIs:  ErrTransformer,
			errPart: "macro UPPER (upper): expected string argument, got float64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Expand(tt.source, mustBind(t, tt.entry))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantIs), "got %v", err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}
}

func TestExpand_StopsAtFirstFailure(t *testing.T) {
	var calls int
	count := func(any) (string, error) {
		calls++
		return "", nil
	}
	bindings := []Binding{
		{Identifier: "BAD", Name: "raw", Transformer: rawTransformer},
		{Identifier: "OK", Name: "count", Transformer: count},
	}

	_, reports, err := Expand(`BAD(1) OK(1)`, bindings)
	require.Error(t, err)

	var tErr *TransformerError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, "BAD", tErr.Identifier)
	assert.Equal(t, 0, calls)
	assert.Empty(t, reports)
}

func TestExpand_Deterministic(t *testing.T) {
	bindings := mustBind(t,
		Entry{Identifier: "J", Transformer: "json"},
		Entry{Identifier: "S", Transformer: "string"},
	)
	source := strings.Repeat(`J({"b":1,"a":[1,2]}) S(3) `, 20)

	first, _, err := Expand(source, bindings)
	require.NoError(t, err)
	second, _, err := Expand(source, bindings)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, first, `{"a":[1,2],"b":1} "3"`)
}

func TestExpand_NoBindings(t *testing.T) {
	out, reports, err := Expand("UPPER(1)", nil)
	require.NoError(t, err)
	assert.Equal(t, "UPPER(1)", out)
	assert.Empty(t, reports)
}

func TestReport_SavedPercentEmptySource(t *testing.T) {
	assert.Equal(t, 0, Report{}.SavedPercent())
}
