package logic

import "maps"

// Class is the semantic classification of a single expression.
type Class int

const (
	_ Class = iota
	// Contingent expressions are true under some assignments and false
	// under others.
	Contingent
	// Tautology expressions are true under every assignment.
	Tautology
	// Contradiction expressions are false under every assignment.
	Contradiction
)

func (c Class) String() string {
	switch c {
	case Contingent:
		return "contingent"
	case Tautology:
		return "tautology"
	case Contradiction:
		return "contradiction"
	default:
		return "?"
	}
}

// forEachAssignment enumerates every assignment of vars in a fixed order:
// assignment number i gives variable vars[j] the value of bit j of i.
// vars must be sorted for the order to be reproducible.
//
// visit receives the same map on every call and must not retain it.
// Enumeration stops as soon as visit returns false; the result reports
// whether every assignment was visited.
func forEachAssignment(vars []string, visit func(Assignment) bool) bool {
	a := make(Assignment, len(vars))
	bits := make([]bool, len(vars))
	for _, v := range vars {
		a[v] = false
	}

	for {
		if !visit(a) {
			return false
		}

		// increment the counter, least significant bit first
		j := 0
		for j < len(bits) && bits[j] {
			bits[j] = false
			a[vars[j]] = false
			j++
		}
		if j == len(bits) {
			return true
		}
		bits[j] = true
		a[vars[j]] = true
	}
}

// IsTautology reports whether expr is true under every assignment of its
// variables. An expression without variables is a tautology.
func IsTautology(expr Expr) bool {
	vars := Variables(expr)
	if len(vars) == 0 {
		return true
	}
	return forEachAssignment(vars, func(a Assignment) bool {
		return Evaluate(expr, a)
	})
}

// IsContradiction reports whether expr is false under every assignment of
// its variables. An expression without variables is not a contradiction.
// This deliberately differs from the IsTautology convention.
func IsContradiction(expr Expr) bool {
	vars := Variables(expr)
	if len(vars) == 0 {
		return false
	}
	return forEachAssignment(vars, func(a Assignment) bool {
		return !Evaluate(expr, a)
	})
}

// ImpliesSemantically reports whether every assignment that makes all
// facts true also makes expr true. The enumeration covers the union of
// the variables of facts and expr; an empty universe yields true.
//
// The cost is exponential in the number of distinct variables.
func ImpliesSemantically(facts []Expr, expr Expr) bool {
	vars := Variables(append(append([]Expr(nil), facts...), expr)...)
	if len(vars) == 0 {
		return true
	}
	return forEachAssignment(vars, func(a Assignment) bool {
		return !allTrue(facts, a) || Evaluate(expr, a)
	})
}

// Consistent reports whether some assignment makes all facts true.
// An empty set of facts is consistent.
func Consistent(facts []Expr) bool {
	vars := Variables(facts...)
	if len(vars) == 0 {
		return true
	}
	exhausted := forEachAssignment(vars, func(a Assignment) bool {
		return !allTrue(facts, a)
	})
	return !exhausted
}

// Counterexample returns the first assignment, in enumeration order, that
// makes all facts true and expr false. The boolean is false when facts
// semantically imply expr.
func Counterexample(facts []Expr, expr Expr) (Assignment, bool) {
	vars := Variables(append(append([]Expr(nil), facts...), expr)...)

	var found Assignment
	forEachAssignment(vars, func(a Assignment) bool {
		if allTrue(facts, a) && !Evaluate(expr, a) {
			found = maps.Clone(a)
			return false
		}
		return true
	})
	return found, found != nil
}

// Classify returns the semantic class of expr.
func Classify(expr Expr) Class {
	switch {
	case IsTautology(expr):
		return Tautology
	case IsContradiction(expr):
		return Contradiction
	default:
		return Contingent
	}
}

func allTrue(facts []Expr, a Assignment) bool {
	for _, f := range facts {
		if !Evaluate(f, a) {
			return false
		}
	}
	return true
}
