package expressions

import (
	"strings"
)

const (
	openDelim  = "<%"
	closeDelim = "%>"
)

// Extract locates every "<% ... %>" fragment in text. Nested "<%" inside
// an already-open fragment is a syntax error reported at the position of
// the inner opener, matching spec.md §4.1's "nested <% is a syntax
// error" rule.
func Extract(text string) ([]Fragment, error) {
	runes := []rune(text)
	var fragments []Fragment

	i := 0
	for i < len(runes) {
		openAt := indexOf(runes, openDelim, i)
		if openAt == -1 {
			break
		}

		bodyStart := openAt + len([]rune(openDelim))
		closeAt := indexOf(runes, closeDelim, bodyStart)

		// Detect nesting: another opener before the matching closer.
		if nestedAt := indexOf(runes, openDelim, bodyStart); nestedAt != -1 && (closeAt == -1 || nestedAt < closeAt) {
			return nil, &ValidationError{
				Message: "nested expression opener",
				Offset:  nestedAt,
			}
		}

		if closeAt == -1 {
			return nil, &ValidationError{
				Message: "unmatched expression opener",
				Offset:  openAt,
			}
		}

		body := strings.TrimSpace(string(runes[bodyStart:closeAt]))
		fragments = append(fragments, Fragment{
			Expr: body,
			Span: Span{Start: openAt, End: closeAt + len([]rune(closeDelim))},
		})

		i = closeAt + len([]rune(closeDelim))
	}

	return fragments, nil
}

func indexOf(runes []rune, needle string, from int) int {
	n := []rune(needle)
	for i := from; i+len(n) <= len(runes); i++ {
		match := true
		for j := range n {
			if runes[i+j] != n[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// IsBlank reports whether an expression body is empty or all whitespace,
// the case that evaluates to true unconditionally (spec.md §4.1).
func IsBlank(expr string) bool {
	return strings.TrimSpace(expr) == ""
}
