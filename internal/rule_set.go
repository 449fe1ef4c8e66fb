package internal

import (
	"fmt"

	"github.com/gnolang/arbiter/internal/logic"
	tt "github.com/gnolang/arbiter/internal/types"
)

/*
* Implement each rule as a separate struct
 */

// LintRule defines the interface for all program rules.
type LintRule interface {
	// Check runs the rule on a parsed program and returns its diagnostics.
	Check(filename string, prog *logic.Program) ([]tt.Diagnostic, error)

	// Name returns the name of the rule.
	Name() string

	// Severity returns the severity of the rule.
	Severity() tt.Severity

	// SetSeverity sets the severity of the rule.
	SetSeverity(tt.Severity)
}

type severity struct {
	level tt.Severity
}

func (s *severity) Severity() tt.Severity {
	return s.level
}

func (s *severity) SetSeverity(level tt.Severity) {
	s.level = level
}

func newDiagnostic(r LintRule, filename string, stmt logic.Statement, msg string) tt.Diagnostic {
	return tt.Diagnostic{
		Rule:      r.Name(),
		Filename:  filename,
		Message:   msg,
		Statement: logic.Format(stmt.Expr),
		Line:      stmt.Line,
		Column:    stmt.Column,
		Severity:  r.Severity(),
	}
}

type ContradictionRule struct {
	severity
}

func NewContradictionRule() LintRule {
	return &ContradictionRule{severity{tt.SeverityWarning}}
}

func (r *ContradictionRule) Check(filename string, prog *logic.Program) ([]tt.Diagnostic, error) {
	var diags []tt.Diagnostic
	for _, stmt := range prog.Statements {
		if logic.IsContradiction(stmt.Expr) {
			diags = append(diags, newDiagnostic(r, filename, stmt, "statement is a contradiction"))
		}
	}
	return diags, nil
}

func (r *ContradictionRule) Name() string {
	return "contradiction"
}

type TautologyRule struct {
	severity
}

func NewTautologyRule() LintRule {
	return &TautologyRule{severity{tt.SeverityInfo}}
}

func (r *TautologyRule) Check(filename string, prog *logic.Program) ([]tt.Diagnostic, error) {
	var diags []tt.Diagnostic
	for _, stmt := range prog.Statements {
		if logic.IsTautology(stmt.Expr) {
			d := newDiagnostic(r, filename, stmt, "statement is a tautology")
			d.Note = "it holds under every assignment and carries no information"
			diags = append(diags, d)
		}
	}
	return diags, nil
}

func (r *TautologyRule) Name() string {
	return "tautology"
}

// DuplicateStatementRule reports the statements that compression drops.
type DuplicateStatementRule struct {
	severity
}

func NewDuplicateStatementRule() LintRule {
	return &DuplicateStatementRule{severity{tt.SeverityInfo}}
}

func (r *DuplicateStatementRule) Check(filename string, prog *logic.Program) ([]tt.Diagnostic, error) {
	var diags []tt.Diagnostic
	first := make(map[logic.Expr]int, prog.Len())
	for _, stmt := range prog.Statements {
		line, seen := first[stmt.Expr]
		if !seen {
			first[stmt.Expr] = stmt.Line
			continue
		}
		d := newDiagnostic(r, filename, stmt, fmt.Sprintf("duplicate of the statement on line %d", line))
		d.Note = "compression keeps only the first occurrence"
		diags = append(diags, d)
	}
	return diags, nil
}

func (r *DuplicateStatementRule) Name() string {
	return "duplicate-statement"
}

// RedundantStatementRule reports statements entailed by the rest of the
// program. It never changes what compression removes.
type RedundantStatementRule struct {
	severity
}

func NewRedundantStatementRule() LintRule {
	return &RedundantStatementRule{severity{tt.SeverityOff}}
}

func (r *RedundantStatementRule) Check(filename string, prog *logic.Program) ([]tt.Diagnostic, error) {
	unique := uniqueStatements(prog)
	exprs := make([]logic.Expr, len(unique))
	for i, s := range unique {
		exprs[i] = s.Expr
	}

	// an inconsistent program entails everything
	if !logic.Consistent(exprs) {
		return nil, nil
	}

	var diags []tt.Diagnostic
	for i, stmt := range unique {
		if logic.IsTautology(stmt.Expr) {
			continue
		}
		others := make([]logic.Expr, 0, len(exprs)-1)
		others = append(others, exprs[:i]...)
		others = append(others, exprs[i+1:]...)
		if len(others) > 0 && logic.ImpliesSemantically(others, stmt.Expr) {
			diags = append(diags, newDiagnostic(r, filename, stmt, "statement is implied by the other statements"))
		}
	}
	return diags, nil
}

func (r *RedundantStatementRule) Name() string {
	return "redundant-statement"
}

// InconsistentProgramRule reports the first statement after which the
// program can no longer be satisfied, unless a single statement is
// already a contradiction on its own.
type InconsistentProgramRule struct {
	severity
}

func NewInconsistentProgramRule() LintRule {
	return &InconsistentProgramRule{severity{tt.SeverityError}}
}

func (r *InconsistentProgramRule) Check(filename string, prog *logic.Program) ([]tt.Diagnostic, error) {
	exprs := prog.Exprs()
	for _, e := range exprs {
		if logic.IsContradiction(e) {
			return nil, nil
		}
	}
	if logic.Consistent(exprs) {
		return nil, nil
	}

	for k := 2; k <= len(exprs); k++ {
		if !logic.Consistent(exprs[:k]) {
			stmt := prog.Statements[k-1]
			d := newDiagnostic(r, filename, stmt, "statements cannot all be true")
			d.Note = fmt.Sprintf("the statements up to line %d are jointly unsatisfiable", stmt.Line)
			return []tt.Diagnostic{d}, nil
		}
	}
	return nil, nil
}

func (r *InconsistentProgramRule) Name() string {
	return "inconsistent-program"
}

func uniqueStatements(prog *logic.Program) []logic.Statement {
	seen := make(map[logic.Expr]struct{}, prog.Len())
	unique := make([]logic.Statement, 0, prog.Len())
	for _, s := range prog.Statements {
		if _, ok := seen[s.Expr]; ok {
			continue
		}
		seen[s.Expr] = struct{}{}
		unique = append(unique, s)
	}
	return unique
}
