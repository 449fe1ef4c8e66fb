// Package internal provides the diagnostics engine for logic programs.
//
// Key components:
//
// Engine: parses a program and runs every enabled rule over it. Rules can be
// disabled by name, files can be skipped by glob pattern, and results can
// be cached per file.
//
// LintRule: the contract of a program rule. Each rule inspects a parsed
// program and returns diagnostics with the rule's configured severity.
//
// Cache: gob-encoded diagnostics per file, invalidated when the file content
// or modification time changes.
//
// Watcher: re-runs the engine on program files as they are written.
//
// SourceCode: the lines of a program, used to render diagnostics.
//
// Usage:
//
//	engine, err := internal.NewEngine(nil)
//	if err != nil {
//	    // handle error
//	}
//	diags, err := engine.Run("facts.arb")
//
// Diagnostics on a statement preceded by a `# nolint` or
// `# nolint:rule1,rule2` comment line are suppressed.
package internal
