package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"a", "a"},
		{"  a&b  ", "a & b"},
		{"a & b | c", "a & b | c"},
		{"(a & b) | c", "a & b | c"},
		{"(a | b) & c", "(a | b) & c"},
		{"a | (b & c)", "a | b & c"},
		{"!a & b", "!a & b"},
		{"!(a & b)", "!(a & b)"},
		{"!(a | b)", "!(a | b)"},
		{"!!a", "!!a"},
		{"((a))", "a"},
		{"(a & b) & c", "a & b & c"},
		{"a & (b & c)", "a & (b & c)"},
		{"a | (b | c)", "a | (b | c)"},
		{"a -> b | c", "a -> b | c"},
		{"(a | b) -> (c & a)", "a | b -> c & a"},
		{"a<->b", "a <-> b"},
		{"(a -> b) -> c", "(a -> b) -> c"},
		{"a -> (b <-> c)", "a -> (b <-> c)"},
		{"!(a -> b)", "!(a -> b)"},
		{"(a -> b) & c", "(a -> b) & c"},
		{"c | (a <-> b)", "c | (a <-> b)"},
	}

	for _, tt := range tests {
		e := mustParse(t, tt.input)
		assert.Equal(t, tt.want, Format(e), "Format(parse(%q))", tt.input)
		assert.Equal(t, tt.want, e.String())
	}
}

func TestFormatAll(t *testing.T) {
	t.Parallel()
	stmts := mustParseAll(t, "a", "b&c", "(a)->b")
	assert.Equal(t, "a\nb & c\na -> b", FormatAll(stmts))
	assert.Equal(t, "", FormatAll(nil))
}

func TestFormatRoundTrip(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"a",
		"!a",
		"!!!a",
		"a & b & c",
		"a & (b & c)",
		"(a | b) | c",
		"a | (b | c)",
		"a | b & c",
		"(a | b) & c",
		"!(a | b) & !c",
		"a -> b",
		"a <-> b",
		"(a -> b) -> c",
		"a -> (b -> c)",
		"(a <-> b) <-> (b <-> c)",
		"!(a -> b) | (c <-> a)",
		"((a & (b | !c)) -> (c | a & b))",
		"use_go & (requires_cgo | !static_build) -> fast_build",
		"x1 & (x2 | (x3 & (x4 | x5)))",
	}

	for _, input := range inputs {
		first := mustParse(t, input)
		text := Format(first)

		second, err := Parse(text)
		require.NoError(t, err, "canonical form %q of %q does not parse", text, input)
		assert.Equal(t, first, second, "round trip of %q via %q", input, text)

		// canonicalization is idempotent
		assert.Equal(t, text, Format(second))
	}
}

func TestFormatHandBuiltTrees(t *testing.T) {
	t.Parallel()
	tests := []struct {
		expr Expr
		want string
	}{
		{Implies(a, Implies(b, c)), "a -> (b -> c)"},
		{Iff(Implies(a, b), c), "(a -> b) <-> c"},
		{And(Or(a, b), Or(b, c)), "(a | b) & (b | c)"},
		{Or(And(a, b), And(b, c)), "a & b | b & c"},
		{Not(Not(And(a, b))), "!!(a & b)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.expr))
		assert.Equal(t, tt.expr, mustParse(t, tt.want))
	}
}
