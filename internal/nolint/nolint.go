package nolint

import (
	"fmt"
	"strings"

	"github.com/gnolang/arbiter/internal/logic"
)

const nolintPrefix = "nolint"

// Manager manages nolint scopes and checks if a line is nolinted.
type Manager struct {
	scopes []nolintScope
}

// nolintScope represents a range of lines where nolint applies.
type nolintScope struct {
	rules map[string]struct{}
	start int
	end   int
}

// ParseComments scans the comment lines of a program for nolint directives:
//
//	# nolint
//	# nolint:rule1,rule2
//
// A directive applies to the statement that follows it, possibly after
// other comment lines. A directive placed before the first statement and
// not directly followed by one applies to the whole file.
func ParseComments(source string, prog *logic.Program) *Manager {
	lines := strings.Split(source, "\n")

	statementLines := make(map[int]struct{}, prog.Len())
	firstStatement := len(lines) + 1
	for _, s := range prog.Statements {
		statementLines[s.Line] = struct{}{}
		if s.Line < firstStatement {
			firstStatement = s.Line
		}
	}

	manager := &Manager{}
	for i, line := range lines {
		lineNum := i + 1
		rules, err := parseComment(line)
		if err != nil {
			// not a directive, or a malformed one
			continue
		}

		ns := nolintScope{rules: rules, start: lineNum, end: lineNum}
		next := nextNonComment(lines, i+1)
		if _, ok := statementLines[next]; ok {
			ns.end = next
		} else if lineNum < firstStatement {
			ns.start, ns.end = 1, len(lines)
		}
		manager.scopes = append(manager.scopes, ns)
	}
	return manager
}

// parseComment extracts the rule set of a single nolint comment line.
// An empty set means every rule.
func parseComment(line string) (map[string]struct{}, error) {
	text := strings.TrimSpace(line)
	if !strings.HasPrefix(text, "#") {
		return nil, fmt.Errorf("not a comment")
	}
	text = strings.TrimSpace(strings.TrimPrefix(text, "#"))
	if !strings.HasPrefix(text, nolintPrefix) {
		return nil, fmt.Errorf("invalid nolint comment")
	}

	rest := strings.TrimRight(text[len(nolintPrefix):], " \t\r")
	if rest == "" {
		return parseIgnoreRuleNames(""), nil
	}
	if rest[0] != ':' {
		return nil, fmt.Errorf("invalid nolint comment format")
	}
	rest = strings.TrimSpace(rest[1:])
	if rest == "" {
		return nil, fmt.Errorf("invalid nolint comment: no rules specified after colon")
	}
	return parseIgnoreRuleNames(rest), nil
}

// parseIgnoreRuleNames parses the rule list from the nolint comment.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

// nextNonComment returns the 1-indexed number of the first line at or
// after index start that is not a comment, or 0 if there is none.
func nextNonComment(lines []string, start int) int {
	for i := start; i < len(lines); i++ {
		if !strings.HasPrefix(strings.TrimSpace(lines[i]), "#") {
			return i + 1
		}
	}
	return 0
}

// IsNolint checks if the given line is nolinted for the rule.
func (m *Manager) IsNolint(line int, ruleName string) bool {
	if m == nil {
		return false
	}
	for _, ns := range m.scopes {
		if line < ns.start || line > ns.end {
			continue
		}
		// If the rules list is empty, nolint applies to all rules
		if len(ns.rules) == 0 {
			return true
		}
		if _, ok := ns.rules[ruleName]; ok {
			return true
		}
	}
	return false
}
