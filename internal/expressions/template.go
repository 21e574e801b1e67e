package expressions

import (
	"bytes"
	"strings"
	"text/template"
)

// templateEvaluatorT implements the Jinja-like dialect on text/template.
// No ecosystem Jinja-for-Go implementation appears anywhere in the
// example pack this repository was built from, so this one dialect is
// built on the standard library (see DESIGN.md). "<% ... %>" fragments
// are rewritten to "{{ ... }}" actions evaluated against ctx as the
// template's dot context, so a fragment body is ordinary Go template
// syntax (".foo", "index .bar 0", and so on).
type templateEvaluatorT struct{}

var templateEvaluator Evaluator = templateEvaluatorT{}

func (templateEvaluatorT) Dialect() string { return DialectTemplate }

func normalizeToGoTemplate(text string) (string, error) {
	fragments, err := Extract(text)
	if err != nil {
		return "", err
	}
	if len(fragments) == 0 {
		return text, nil
	}

	runes := []rune(text)
	var b strings.Builder
	last := 0
	for _, f := range fragments {
		b.WriteString(string(runes[last:f.Span.Start]))
		b.WriteString("{{ ")
		b.WriteString(f.Expr)
		b.WriteString(" }}")
		last = f.Span.End
	}
	b.WriteString(string(runes[last:]))
	return b.String(), nil
}

func (templateEvaluatorT) Evaluate(expr string, ctx map[string]any) (any, error) {
	if IsBlank(expr) {
		return true, nil
	}

	normalized, err := normalizeToGoTemplate(expr)
	if err != nil {
		return nil, &EvaluationError{Expr: expr, Err: err}
	}

	tmpl, err := template.New("expr").Option("missingkey=zero").Parse(normalized)
	if err != nil {
		return nil, &EvaluationError{Expr: expr, Err: err}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return nil, &EvaluationError{Expr: expr, Err: err}
	}
	return buf.String(), nil
}

func (templateEvaluatorT) Validate(expr string) []ValidationError {
	if IsBlank(expr) {
		return nil
	}

	normalized, err := normalizeToGoTemplate(expr)
	if err != nil {
		if ve, ok := err.(*ValidationError); ok {
			return []ValidationError{*ve}
		}
		return []ValidationError{{Message: err.Error()}}
	}

	if _, err := template.New("expr").Parse(normalized); err != nil {
		return []ValidationError{{Message: err.Error()}}
	}
	return nil
}
