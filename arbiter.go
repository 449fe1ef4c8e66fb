// Package arbiter validates, checks and compresses propositional fact files.
//
// A program is a list of statements, one per line, over snake_case facts:
//
//	# comments start with a hash
//	use_go
//	use_go -> fast_builds
//	!legacy_api & (rest | grpc)
//
// This package exposes the operations of the arbiter command as a library.
package arbiter

import (
	"github.com/gnolang/arbiter/internal"
	"github.com/gnolang/arbiter/internal/logic"
	tt "github.com/gnolang/arbiter/internal/types"
)

type (
	Expr       = logic.Expr
	ParseError = logic.ParseError
	Assignment = logic.Assignment
	Diagnostic = tt.Diagnostic
	Severity   = tt.Severity
)

// Result is the outcome of compressing a program.
type Result struct {
	Parsed         int
	Contradictions []Expr
	Statements     []Expr
}

// String returns the compressed program in canonical form.
func (r Result) String() string {
	return logic.FormatAll(r.Statements)
}

// Compress parses a program, collects its contradictory statements and
// removes structural duplicates, keeping the first occurrence of each.
func Compress(source string) (Result, error) {
	stmts, err := logic.ParseAll(source)
	if err != nil {
		return Result{}, err
	}

	res := Result{Parsed: len(stmts)}
	for _, s := range stmts {
		if logic.IsContradiction(s) {
			res.Contradictions = append(res.Contradictions, s)
		}
	}
	res.Statements = logic.Compress(stmts)
	return res, nil
}

// Check runs the default rules over a program.
func Check(source []byte) ([]Diagnostic, error) {
	engine, err := internal.NewEngine(nil)
	if err != nil {
		return nil, err
	}
	return engine.RunSource(source)
}

// Entails reports whether the facts of a program imply the expression.
// When they do not, the first counterexample is returned.
func Entails(source, expr string) (bool, Assignment, error) {
	facts, err := logic.ParseAll(source)
	if err != nil {
		return false, nil, err
	}
	e, err := logic.Parse(expr)
	if err != nil {
		return false, nil, err
	}
	if logic.ImpliesSemantically(facts, e) {
		return true, nil, nil
	}
	cex, _ := logic.Counterexample(facts, e)
	return false, cex, nil
}
