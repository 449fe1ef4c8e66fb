package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gnolang/arbiter/internal/logic"
	"github.com/gnolang/arbiter/internal/nolint"
	tt "github.com/gnolang/arbiter/internal/types"
)

// Engine runs program rules over logic files.
// It is safe for concurrent use once configured.
type Engine struct {
	ignoredRules map[string]bool
	ignoredPaths []string
	rules        map[string]LintRule
	cache        *Cache
}

// NewEngine creates a new engine. Rules missing from the configuration
// keep their default severity.
func NewEngine(rules map[string]tt.ConfigRule) (*Engine, error) {
	engine := &Engine{}
	if err := engine.applyRules(rules); err != nil {
		return nil, err
	}
	return engine, nil
}

// Define the ruleConstructor type
type ruleConstructor func() LintRule

// Define the ruleMap type
type ruleMap map[string]ruleConstructor

// Create a map to hold the mappings of rule names to their constructors
var allRuleConstructors = ruleMap{
	"contradiction":        NewContradictionRule,
	"tautology":            NewTautologyRule,
	"duplicate-statement":  NewDuplicateStatementRule,
	"redundant-statement":  NewRedundantStatementRule,
	"inconsistent-program": NewInconsistentProgramRule,
}

// DefaultRules returns the configuration entry of every known rule with
// its default severity.
func DefaultRules() map[string]tt.ConfigRule {
	rules := make(map[string]tt.ConfigRule, len(allRuleConstructors))
	for name, newRule := range allRuleConstructors {
		rules[name] = tt.ConfigRule{Severity: newRule().Severity()}
	}
	return rules
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) error {
	e.rules = make(map[string]LintRule)
	for key, newRule := range allRuleConstructors {
		rule := newRule()
		if cfg, ok := rules[key]; ok {
			rule.SetSeverity(cfg.Severity)
		}
		if rule.Severity() != tt.SeverityOff {
			e.rules[key] = rule
		}
	}

	keys := make([]string, 0, len(rules))
	for key := range rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := allRuleConstructors[key]; !ok {
			return fmt.Errorf("unknown rule %q", key)
		}
		if rules[key].Severity == tt.SeverityUnset {
			return fmt.Errorf("rule %q: missing severity", key)
		}
	}
	return nil
}

// Rules returns the names of the enabled rules, sorted.
func (e *Engine) Rules() []string {
	names := make([]string, 0, len(e.rules))
	for name := range e.rules {
		if !e.ignoredRules[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// RuleSet describes the active rules and their severities, for example
// "contradiction=WARNING,tautology=INFO". Two engines with the same rule
// set produce the same diagnostics for the same source.
func (e *Engine) RuleSet() string {
	names := e.Rules()
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + e.rules[name].Severity().String()
	}
	return strings.Join(parts, ",")
}

// SetCache enables result caching for Run.
func (e *Engine) SetCache(c *Cache) {
	e.cache = c
}

// Run checks the given file and returns its diagnostics.
func (e *Engine) Run(filename string) ([]tt.Diagnostic, error) {
	if e.isIgnoredPath(filename) {
		return nil, nil
	}

	var ruleSet string
	if e.cache != nil {
		ruleSet = e.RuleSet()
		if diags, ok := e.cache.Get(filename, ruleSet); ok {
			return diags, nil
		}
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	diags, err := e.run(filename, string(source))
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		if err := e.cache.Set(filename, ruleSet, source, diags); err != nil {
			return nil, err
		}
	}
	return diags, nil
}

// RunSource checks the given program text and returns its diagnostics.
func (e *Engine) RunSource(source []byte) ([]tt.Diagnostic, error) {
	return e.run("", string(source))
}

func (e *Engine) run(filename, source string) ([]tt.Diagnostic, error) {
	prog, err := logic.ParseProgram(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(filename), err)
	}

	nolintMgr := nolint.ParseComments(source, prog)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	var allDiags []tt.Diagnostic
	for _, rule := range e.rules {
		if e.ignoredRules[rule.Name()] {
			continue
		}
		wg.Add(1)
		go func(r LintRule) {
			defer wg.Done()
			diags, err := r.Check(filename, prog)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("rule %s: %w", r.Name(), err)
				}
				return
			}
			allDiags = append(allDiags, filterNolintDiagnostics(nolintMgr, diags)...)
		}(rule)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sortDiagnostics(allDiags)
	return allDiags, nil
}

func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath excludes files matching the glob pattern. The pattern is
// matched against both the full path and its base name.
func (e *Engine) IgnorePath(pattern string) {
	e.ignoredPaths = append(e.ignoredPaths, pattern)
}

func (e *Engine) isIgnoredPath(path string) bool {
	for _, pattern := range e.ignoredPaths {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(path)); ok {
			return true
		}
	}
	return false
}

// filterNolintDiagnostics filters diagnostics based on nolint comments.
func filterNolintDiagnostics(mgr *nolint.Manager, diags []tt.Diagnostic) []tt.Diagnostic {
	filtered := make([]tt.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if !mgr.IsNolint(d.Line, d.Rule) {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

func sortDiagnostics(diags []tt.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Filename != diags[j].Filename {
			return diags[i].Filename < diags[j].Filename
		}
		if diags[i].Line != diags[j].Line {
			return diags[i].Line < diags[j].Line
		}
		return diags[i].Rule < diags[j].Rule
	})
}

func displayName(filename string) string {
	if filename == "" {
		return "source"
	}
	return filename
}

// SourceCode stores the content of a source file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(content), nil
}

// NewSourceCode splits program text into lines.
func NewSourceCode(content []byte) *SourceCode {
	return &SourceCode{Lines: strings.Split(string(content), "\n")}
}
