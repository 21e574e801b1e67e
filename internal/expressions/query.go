package expressions

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// celEvaluator implements the data-query dialect on top of CEL
// (Common Expression Language). The whole evaluation context is exposed
// to expressions as a single "ctx" map variable, so guard criteria read
// e.g. "ctx.temperature > 25" or "ctx.__tasks.task1.result == 'ok'".
type celEvaluator struct {
	env *cel.Env
}

var queryEvaluator Evaluator = newCELEvaluator()

func newCELEvaluator() *celEvaluator {
	env, err := cel.NewEnv(
		cel.Variable("ctx", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		panic(fmt.Sprintf("expressions: failed to build CEL environment: %v", err))
	}
	return &celEvaluator{env: env}
}

func (e *celEvaluator) Dialect() string { return DialectQuery }

func (e *celEvaluator) compile(expr string) (cel.Program, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("building program: %w", err)
	}
	return prg, nil
}

// Evaluate runs expr, which may contain zero or more "<% ... %>"
// fragments, against ctx. A bare expression body (no delimiters) is
// also accepted so guard criteria can be stored pre-unwrapped.
func (e *celEvaluator) Evaluate(expr string, ctx map[string]any) (any, error) {
	if IsBlank(expr) {
		return true, nil
	}

	body, err := soleFragmentOrLiteral(expr)
	if err != nil {
		return nil, &EvaluationError{Expr: expr, Err: err}
	}
	if IsBlank(body) {
		return true, nil
	}

	prg, err := e.compile(body)
	if err != nil {
		return nil, &EvaluationError{Expr: expr, Err: err}
	}

	out, _, err := prg.Eval(map[string]any{"ctx": ctx})
	if err != nil {
		return nil, &EvaluationError{Expr: expr, Err: err}
	}
	return out.Value(), nil
}

// Validate parse-checks expr, returning every CEL compile diagnostic.
// Offsets are approximated from the reported column, since CEL reports
// positions as line/column, not a flat character offset.
func (e *celEvaluator) Validate(expr string) []ValidationError {
	if IsBlank(expr) {
		return nil
	}

	body, err := soleFragmentOrLiteral(expr)
	if err != nil {
		if ve, ok := err.(*ValidationError); ok {
			return []ValidationError{*ve}
		}
		return []ValidationError{{Message: err.Error()}}
	}
	if IsBlank(body) {
		return nil
	}

	_, issues := e.env.Compile(body)
	if issues == nil || issues.Err() == nil {
		return nil
	}

	var errs []ValidationError
	for _, iss := range issues.Errors() {
		errs = append(errs, ValidationError{
			Message: iss.Message,
			Offset:  iss.Location.Column(),
		})
	}
	return errs
}

// FragmentIssue is one expression-syntax problem found in a single
// "<% ... %>" fragment extracted from a larger piece of spec text.
type FragmentIssue struct {
	Fragment string
	Message  string
}

// ValidateFragments extracts every "<% ... %>" fragment from text and
// syntax-checks each one independently as a query-dialect expression body,
// regardless of how many fragments text contains or whether they are mixed
// with literal text. This is what the spec model's expression-validation
// pass uses for interpolated fields (input, publish), where the query
// dialect's single-fragment Evaluate restriction does not apply.
func ValidateFragments(text string) []FragmentIssue {
	fragments, err := Extract(text)
	if err != nil {
		if ve, ok := err.(*ValidationError); ok {
			return []FragmentIssue{{Fragment: text, Message: ve.Message}}
		}
		return []FragmentIssue{{Fragment: text, Message: err.Error()}}
	}

	ce := queryEvaluator.(*celEvaluator)
	var issues []FragmentIssue
	for _, f := range fragments {
		if IsBlank(f.Expr) {
			continue
		}
		_, celIssues := ce.env.Compile(f.Expr)
		if celIssues == nil || celIssues.Err() == nil {
			continue
		}
		for _, iss := range celIssues.Errors() {
			issues = append(issues, FragmentIssue{
				Fragment: "<% " + f.Expr + " %>",
				Message:  iss.Message,
			})
		}
	}
	return issues
}

// soleFragmentOrLiteral unwraps a single "<% ... %>" fragment if expr is
// wrapped in one, otherwise treats expr as a bare expression body. A
// string with more than one fragment, or text mixed with fragments, is
// rejected: the query dialect only evaluates a single guard expression
// at a time (use the template dialect for interpolation into text).
func soleFragmentOrLiteral(expr string) (string, error) {
	fragments, err := Extract(expr)
	if err != nil {
		return "", err
	}
	switch len(fragments) {
	case 0:
		return expr, nil
	case 1:
		f := fragments[0]
		if f.Span.Start != 0 || f.Span.End != len([]rune(expr)) {
			return "", &ValidationError{Message: "query expressions must not mix literal text with a guard fragment", Offset: 0}
		}
		return f.Expr, nil
	default:
		return "", &ValidationError{Message: "query expressions must contain at most one guard fragment", Offset: fragments[1].Span.Start}
	}
}
