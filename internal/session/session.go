// Package session keeps an interactive knowledge base of logic facts.
package session

import (
	"fmt"
	"strings"

	"github.com/gnolang/arbiter/internal/logic"
)

// Result describes what happened when a statement was added.
type Result struct {
	Expr         logic.Expr
	Class        logic.Class
	Duplicate    bool
	Inconsistent bool // facts became jointly unsatisfiable with this statement
}

func (r Result) String() string {
	parts := []string{r.Class.String()}
	if r.Duplicate {
		parts = append(parts, "duplicate")
	}
	s := strings.Join(parts, ", ")
	if r.Inconsistent {
		s += "\nWARNING: facts are now inconsistent"
	}
	return s
}

// Session is an ordered list of facts. It is not safe for concurrent use.
type Session struct {
	facts      []logic.Expr
	consistent bool
}

func New() *Session {
	return &Session{consistent: true}
}

// Assert parses one statement and adds it to the facts.
func (s *Session) Assert(line string) (Result, error) {
	expr, err := logic.Parse(line)
	if err != nil {
		return Result{}, err
	}
	return s.add(expr), nil
}

func (s *Session) add(expr logic.Expr) Result {
	res := Result{Expr: expr, Class: logic.Classify(expr)}
	for _, f := range s.facts {
		if logic.Equal(f, expr) {
			res.Duplicate = true
			break
		}
	}

	s.facts = append(s.facts, expr)
	if s.consistent && !logic.Consistent(s.facts) {
		s.consistent = false
		res.Inconsistent = true
	}
	return res
}

// Load adds every statement of a program. Nothing is added when the
// program fails to parse.
func (s *Session) Load(text string) ([]Result, error) {
	exprs, err := logic.ParseAll(text)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(exprs))
	for _, e := range exprs {
		results = append(results, s.add(e))
	}
	return results, nil
}

// Entails reports whether the facts entail the expression, and a
// counterexample when they do not.
func (s *Session) Entails(text string) (bool, logic.Assignment, error) {
	expr, err := logic.Parse(text)
	if err != nil {
		return false, nil, err
	}
	if cex, ok := logic.Counterexample(s.facts, expr); ok {
		return false, cex, nil
	}
	return true, nil, nil
}

// Eval evaluates every fact under the assignment. Unassigned variables
// are false.
func (s *Session) Eval(assignment logic.Assignment) []bool {
	return logic.EvaluateAll(s.facts, assignment)
}

// Facts returns the compressed facts.
func (s *Session) Facts() []logic.Expr {
	return logic.Compress(s.facts)
}

// Statements returns every fact in the order it was added.
func (s *Session) Statements() []logic.Expr {
	return append([]logic.Expr(nil), s.facts...)
}

func (s *Session) Len() int {
	return len(s.facts)
}

func (s *Session) Consistent() bool {
	return s.consistent
}

func (s *Session) Reset() {
	s.facts = nil
	s.consistent = true
}

// ParseAssignment parses a comma separated list of variable settings such
// as "a,b=false,c=true". A name without a value is true.
func ParseAssignment(text string) (logic.Assignment, error) {
	assignment := make(logic.Assignment)
	for _, item := range strings.Split(text, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, value, hasValue := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !logic.IsIdentifier(name) {
			return nil, fmt.Errorf("invalid identifier %q: must be snake_case", name)
		}
		v := true
		if hasValue {
			switch strings.ToLower(strings.TrimSpace(value)) {
			case "true", "1", "t":
				v = true
			case "false", "0", "f":
				v = false
			default:
				return nil, fmt.Errorf("invalid value %q for %s", value, name)
			}
		}
		assignment[name] = v
	}
	return assignment, nil
}
