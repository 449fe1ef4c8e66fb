package logic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	a = Var("a")
	b = Var("b")
	c = Var("c")
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  Expr
	}{
		{"variable", "a", a},
		{"snake case", "a_b_2", Var("a_b_2")},
		{"digits", "a1", Var("a1")},
		{"negation", "!a", Not(a)},
		{"double negation", "!!a", Not(Not(a))},
		{"and", "a & b", And(a, b)},
		{"and is left associative", "a & b & c", And(And(a, b), c)},
		{"or is left associative", "a | b | c", Or(Or(a, b), c)},
		{"and binds tighter than or", "a & b | c", Or(And(a, b), c)},
		{"and binds tighter than or on the right", "a | b & c", Or(a, And(b, c))},
		{"not binds tighter than and", "!a & b", And(Not(a), b)},
		{"not of group", "!(a & b)", Not(And(a, b))},
		{"implies", "a -> b", Implies(a, b)},
		{"iff", "a <-> b", Iff(a, b)},
		{"implies with or operands", "a | b -> b & c", Implies(Or(a, b), And(b, c))},
		{"grouped implication", "(a -> b) -> c", Implies(Implies(a, b), c)},
		{"implication inside group", "a -> (b -> c)", Implies(a, Implies(b, c))},
		{"no spaces", "a&b|!c", Or(And(a, b), Not(c))},
		{"iff without spaces", "a<->b", Iff(a, b)},
		{"tabs and surrounding space", "\t a \t&\tb  ", And(a, b)},
		{"nested groups", "((a))", a},
		{"right grouping", "a & (b & c)", And(a, And(b, c))},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		column  int
		message string
	}{
		{"uppercase identifier", "Foo", 1, `invalid identifier "Foo": must be snake_case`},
		{"leading digit", "1abc", 1, `invalid identifier "1abc": must be snake_case`},
		{"hyphen", "a-b", 2, `unexpected characters "-b"`},
		{"chained implication", "a -> b -> c", 8, `unexpected characters "-> c"`},
		{"chained equivalence", "a <-> b <-> c", 9, `unexpected characters "<-> c"`},
		{"missing operand", "a &", 4, "unexpected end of input"},
		{"dangling not", "!", 2, "unexpected end of input"},
		{"missing close paren", "(a & b", 7, "expected ')'"},
		{"empty group", "()", 2, `expected identifier, found ')'`},
		{"leading operator", "& a", 1, `expected identifier, found '&'`},
		{"invalid identifier inside expression", "a & B", 5, `invalid identifier "B": must be snake_case`},
		{"column counts leading whitespace", "  Foo", 3, `invalid identifier "Foo": must be snake_case`},
		{"two variables", "a b", 3, `unexpected characters "b"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.input)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, 0, pe.Line)
			assert.Equal(t, tt.column, pe.Column)
			assert.Equal(t, tt.message, pe.Msg)
		})
	}
}

func TestParseRejectsEmptyAndComments(t *testing.T) {
	t.Parallel()
	for _, input := range []string{"", "   ", "# note", "  # indented note"} {
		_, err := Parse(input)
		var pe *ParseError
		require.True(t, errors.As(err, &pe), "input %q", input)
		assert.Equal(t, "empty or comment line", pe.Error())
	}
}

func TestIdentifierValidation(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"a", "a1", "a_b_2", "use_go", "z_"} {
		assert.True(t, IsIdentifier(name), name)
		_, err := Parse(name)
		assert.NoError(t, err, name)
	}
	for _, name := range []string{"Foo", "1abc", "a-b", "_a", "aB", ""} {
		assert.False(t, IsIdentifier(name), name)
		_, err := Parse(name)
		assert.Error(t, err, name)
	}
}

func TestNewVar(t *testing.T) {
	t.Parallel()
	v, err := NewVar("use_go")
	require.NoError(t, err)
	assert.Equal(t, "use_go", v.Name())

	_, err = NewVar("UseGo")
	assert.Error(t, err)

	assert.Panics(t, func() { Var("9lives") })
}

func TestParseAll(t *testing.T) {
	t.Parallel()

	t.Run("comments and blank lines", func(t *testing.T) {
		t.Parallel()
		got, err := ParseAll("# note\n\na_fact")
		require.NoError(t, err)
		assert.Equal(t, []Expr{Var("a_fact")}, got)
	})

	t.Run("keeps order", func(t *testing.T) {
		t.Parallel()
		got, err := ParseAll("use_go\n  # indented comment\n\t\nuse_go -> fast\r\nb\n")
		require.NoError(t, err)
		assert.Equal(t, []Expr{Var("use_go"), Implies(Var("use_go"), Var("fast")), b}, got)
	})

	t.Run("empty program", func(t *testing.T) {
		t.Parallel()
		got, err := ParseAll("\n# only comments\n")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("error reports line and returns nothing", func(t *testing.T) {
		t.Parallel()
		got, err := ParseAll("a\nb & \nc")
		require.Error(t, err)
		assert.Nil(t, got)

		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 2, pe.Line)
		assert.Equal(t, "line 2: unexpected end of input at column 4", err.Error())
	})

	t.Run("trailing input message", func(t *testing.T) {
		t.Parallel()
		_, err := ParseAll("a\na -> b -> c")
		assert.EqualError(t, err, `line 2: unexpected characters "-> c" at column 8`)
	})

	t.Run("first error wins", func(t *testing.T) {
		t.Parallel()
		_, err := ParseAll("# header\nBad\nalso Bad")
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 2, pe.Line)
	})
}

func TestParseProgramLines(t *testing.T) {
	t.Parallel()
	prog, err := ParseProgram("# facts\na\n\n  b -> a\n")
	require.NoError(t, err)
	require.Equal(t, 2, prog.Len())
	assert.Equal(t, Statement{Expr: a, Line: 2, Column: 1}, prog.Statements[0])
	assert.Equal(t, Statement{Expr: Implies(b, a), Line: 4, Column: 3}, prog.Statements[1])
	assert.Equal(t, []Expr{a, Implies(b, a)}, prog.Exprs())
}

func TestStructuralEquality(t *testing.T) {
	t.Parallel()
	x, err := Parse("(a & b) | !c")
	require.NoError(t, err)
	y, err := Parse("a&b | !c")
	require.NoError(t, err)

	assert.True(t, Equal(x, y))
	assert.False(t, Equal(x, Or(And(b, a), Not(c))))

	set := map[Expr]int{x: 1}
	assert.Equal(t, 1, set[y])
}

func TestVariables(t *testing.T) {
	t.Parallel()
	e, err := Parse("zeta & (alpha -> beta) | !alpha")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "zeta"}, Variables(e))
	assert.Equal(t, []string{"a", "b", "c"}, Variables(c, And(b, a)))
	assert.Empty(t, Variables())
}
