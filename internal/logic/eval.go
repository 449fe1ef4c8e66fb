package logic

import (
	"fmt"
	"sort"
	"strings"
)

// Assignment maps variable names to truth values.
// Variables missing from an assignment are false.
type Assignment map[string]bool

// String returns the assignment as `a=true, b=false`, sorted by name.
func (a Assignment) String() string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%t", name, a[name])
	}
	return strings.Join(parts, ", ")
}

// Evaluate computes the truth value of expr under the assignment.
// Unassigned variables evaluate to false, so partial assignments can be
// used for probing.
func Evaluate(expr Expr, a Assignment) bool {
	switch e := expr.(type) {
	case VarExpr:
		return a[e.name]
	case NotExpr:
		return !Evaluate(e.Inner, a)
	case AndExpr:
		return Evaluate(e.Left, a) && Evaluate(e.Right, a)
	case OrExpr:
		return Evaluate(e.Left, a) || Evaluate(e.Right, a)
	case ImpliesExpr:
		return !Evaluate(e.Antecedent, a) || Evaluate(e.Consequent, a)
	case IffExpr:
		return Evaluate(e.Left, a) == Evaluate(e.Right, a)
	default:
		panic(fmt.Sprintf("logic: unexpected expression %T", expr))
	}
}

// EvaluateAll evaluates every expression under the same assignment.
func EvaluateAll(exprs []Expr, a Assignment) []bool {
	results := make([]bool, len(exprs))
	for i, e := range exprs {
		results[i] = Evaluate(e, a)
	}
	return results
}
