// Package expressions evaluates guard and template expressions embedded
// in workflow specs. Fragments are delimited by "<%" and "%>" with no
// nesting; two dialects are supported behind one facade, selected by
// name, mirroring the evaluator abstraction in the system this package
// models (spec.md §4.1, §9).
package expressions

import (
	"fmt"
)

// Span locates an extracted expression fragment within its source text,
// in characters (runes), not bytes.
type Span struct {
	Start int
	End   int
}

// Fragment is one "<% ... %>" occurrence found by Extract.
type Fragment struct {
	Expr string
	Span Span
}

// ValidationError is a single parse-time problem found in an expression.
type ValidationError struct {
	Message string
	Offset  int
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s (at offset %d)", e.Message, e.Offset)
}

// Evaluator evaluates expressions written in one dialect against a
// context mapping. Implementations must be safe for concurrent Evaluate
// calls once constructed; Get returns a shared instance per dialect.
type Evaluator interface {
	// Evaluate runs expr (the bare text between "<%" and "%>", or a
	// string containing zero or more such fragments) against ctx.
	// An empty or all-whitespace expr evaluates to true.
	Evaluate(expr string, ctx map[string]any) (any, error)

	// Validate parse-checks expr without evaluating it, returning every
	// syntax problem found.
	Validate(expr string) []ValidationError

	// Dialect returns the name this evaluator is registered under.
	Dialect() string
}

const (
	// DialectQuery is the data-query dialect the conductor uses for
	// transition guard criteria.
	DialectQuery = "query"

	// DialectTemplate is the Jinja-like templating dialect used
	// elsewhere in a workflow spec (e.g. "publish" value templates).
	// The conductor never selects it directly.
	DialectTemplate = "template"
)

// Get returns the shared Evaluator for the named dialect. It panics on
// an unknown dialect name, since dialect selection is a programming
// error, not a runtime condition.
func Get(dialect string) Evaluator {
	switch dialect {
	case DialectQuery:
		return queryEvaluator
	case DialectTemplate:
		return templateEvaluator
	default:
		panic(fmt.Sprintf("expressions: unknown dialect %q", dialect))
	}
}

// EvaluationError wraps a runtime failure in guard evaluation, tagged
// with the offending expression source per spec.md §4.1.
type EvaluationError struct {
	Expr string
	Err  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("expression evaluation failed for %q: %v", e.Expr, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
