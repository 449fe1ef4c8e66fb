package logic

import (
	"fmt"
	"regexp"
	"sort"
)

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Expr represents a propositional expression.
//
// All implementations are comparable value types, so two expressions are
// equal under == exactly when they have the same shape and the same
// variable names. Expressions can be used directly as map keys.
type Expr interface {
	isExpr()
	String() string
}

// VarExpr is a propositional variable (a fact).
type VarExpr struct {
	name string
}

func (VarExpr) isExpr() {}
func (e VarExpr) String() string {
	return e.name
}

// Name returns the variable name.
func (e VarExpr) Name() string {
	return e.name
}

// NotExpr represents a negation: !Inner
type NotExpr struct {
	Inner Expr
}

func (NotExpr) isExpr() {}
func (e NotExpr) String() string {
	return Format(e)
}

// AndExpr represents a conjunction: Left & Right
type AndExpr struct {
	Left  Expr
	Right Expr
}

func (AndExpr) isExpr() {}
func (e AndExpr) String() string {
	return Format(e)
}

// OrExpr represents a disjunction: Left | Right
type OrExpr struct {
	Left  Expr
	Right Expr
}

func (OrExpr) isExpr() {}
func (e OrExpr) String() string {
	return Format(e)
}

// ImpliesExpr represents an implication: Antecedent -> Consequent
type ImpliesExpr struct {
	Antecedent Expr
	Consequent Expr
}

func (ImpliesExpr) isExpr() {}
func (e ImpliesExpr) String() string {
	return Format(e)
}

// IffExpr represents an equivalence: Left <-> Right
type IffExpr struct {
	Left  Expr
	Right Expr
}

func (IffExpr) isExpr() {}
func (e IffExpr) String() string {
	return Format(e)
}

// IsIdentifier reports whether name is a valid variable name.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// NewVar creates a variable, validating its name.
func NewVar(name string) (VarExpr, error) {
	if !IsIdentifier(name) {
		return VarExpr{}, fmt.Errorf("invalid identifier %q: must be snake_case", name)
	}
	return VarExpr{name: name}, nil
}

// Var creates a variable and panics if the name is invalid.
// Intended for names known at compile time.
func Var(name string) VarExpr {
	v, err := NewVar(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Not creates a negation.
func Not(e Expr) Expr {
	return NotExpr{Inner: e}
}

// And creates a conjunction.
func And(left, right Expr) Expr {
	return AndExpr{Left: left, Right: right}
}

// Or creates a disjunction.
func Or(left, right Expr) Expr {
	return OrExpr{Left: left, Right: right}
}

// Implies creates an implication.
func Implies(antecedent, consequent Expr) Expr {
	return ImpliesExpr{Antecedent: antecedent, Consequent: consequent}
}

// Iff creates an equivalence.
func Iff(left, right Expr) Expr {
	return IffExpr{Left: left, Right: right}
}

// Equal reports whether two expressions are structurally identical.
func Equal(a, b Expr) bool {
	return a == b
}

// Variables returns the distinct variable names of the given expressions,
// sorted by name.
func Variables(exprs ...Expr) []string {
	seen := make(map[string]struct{})
	for _, e := range exprs {
		collectVariables(e, seen)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectVariables(expr Expr, seen map[string]struct{}) {
	switch e := expr.(type) {
	case VarExpr:
		seen[e.name] = struct{}{}
	case NotExpr:
		collectVariables(e.Inner, seen)
	case AndExpr:
		collectVariables(e.Left, seen)
		collectVariables(e.Right, seen)
	case OrExpr:
		collectVariables(e.Left, seen)
		collectVariables(e.Right, seen)
	case ImpliesExpr:
		collectVariables(e.Antecedent, seen)
		collectVariables(e.Consequent, seen)
	case IffExpr:
		collectVariables(e.Left, seen)
		collectVariables(e.Right, seen)
	case nil:
	default:
		panic(fmt.Sprintf("logic: unexpected expression %T", expr))
	}
}

// Statement is a parsed expression together with its 1-indexed source
// position.
type Statement struct {
	Expr   Expr
	Line   int
	Column int // first non-whitespace byte of the line
}

// Program is an ordered list of statements.
type Program struct {
	Statements []Statement
}

// Exprs returns the expressions of the program in source order.
func (p *Program) Exprs() []Expr {
	exprs := make([]Expr, len(p.Statements))
	for i, s := range p.Statements {
		exprs[i] = s.Expr
	}
	return exprs
}

// Len returns the number of statements.
func (p *Program) Len() int {
	return len(p.Statements)
}
