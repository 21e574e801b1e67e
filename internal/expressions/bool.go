package expressions

import "fmt"

// EvaluateGuard evaluates expr with the query dialect and coerces the
// result to a boolean, the contract transition guards rely on. A
// non-boolean result is an evaluation failure tagged with expr, per
// spec.md §4.1.
func EvaluateGuard(expr string, ctx map[string]any) (bool, error) {
	out, err := Get(DialectQuery).Evaluate(expr, ctx)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, &EvaluationError{Expr: expr, Err: fmt.Errorf("guard did not evaluate to a boolean, got %T", out)}
	}
	return b, nil
}
