package logic

import (
	"fmt"
	"strings"
)

// Binding strength of each operator in canonical output.
const (
	precImplies = 0 // also <->
	precOr      = 1
	precAnd     = 2
	precNot     = 3
)

// Format renders expr in canonical syntax with the fewest parentheses
// needed to parse back to the same tree.
//
// Formatting is a canonicalization, not an echo of the source: redundant
// parentheses are dropped. Operands of -> and <-> are written bare unless
// they are themselves implications or equivalences, and the right operand
// of & or | is parenthesized when it is the same operator, since both
// associate to the left.
func Format(expr Expr) string {
	var b strings.Builder
	writeExpr(&b, expr, precImplies)
	return b.String()
}

// FormatAll renders one statement per line, in order.
func FormatAll(stmts []Expr) string {
	lines := make([]string, len(stmts))
	for i, s := range stmts {
		lines[i] = Format(s)
	}
	return strings.Join(lines, "\n")
}

func writeExpr(b *strings.Builder, expr Expr, parent int) {
	switch e := expr.(type) {
	case VarExpr:
		b.WriteString(e.name)
	case NotExpr:
		b.WriteByte('!')
		writeExpr(b, e.Inner, precNot)
	case AndExpr:
		writeBinary(b, e.Left, " & ", e.Right, precAnd, parent)
	case OrExpr:
		writeBinary(b, e.Left, " | ", e.Right, precOr, parent)
	case ImpliesExpr:
		writeBinary(b, e.Antecedent, " -> ", e.Consequent, precImplies, parent)
	case IffExpr:
		writeBinary(b, e.Left, " <-> ", e.Right, precImplies, parent)
	default:
		panic(fmt.Sprintf("logic: unexpected expression %T", expr))
	}
}

func writeBinary(b *strings.Builder, left Expr, op string, right Expr, prec, parent int) {
	wrap := parent > prec
	if wrap {
		b.WriteByte('(')
	}

	if prec == precImplies {
		// -> and <-> do not chain, so only a nested implication or
		// equivalence needs parentheses here.
		writeExpr(b, left, precOr)
		b.WriteString(op)
		writeExpr(b, right, precOr)
	} else {
		writeExpr(b, left, prec)
		b.WriteString(op)
		writeExpr(b, right, prec+1)
	}

	if wrap {
		b.WriteByte(')')
	}
}
