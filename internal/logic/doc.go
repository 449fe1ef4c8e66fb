// Package logic implements a small propositional logic engine used to
// compress lists of facts.
//
// The engine parses one statement per line into an immutable expression
// tree, evaluates trees under variable assignments, decides semantic
// properties by exhaustive truth-table enumeration and renders trees back
// to canonical text.
//
// Syntax, from loosest to tightest binding:
//
//	a <-> b    equivalence (does not chain)
//	a -> b     implication (does not chain)
//	a | b      disjunction (left-associative)
//	a & b      conjunction (left-associative)
//	!a         negation
//	(a)        grouping
//
// Identifiers are lowercase snake_case: [a-z][a-z0-9_]*.
// Lines starting with '#' are comments.
//
// Out of scope:
//   - quantifiers and numeric values
//   - semantic redundancy elimination (only exact duplicates are removed)
//   - incremental or polynomial satisfiability checking
package logic
