package specs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/workflow-conductor/conductor/internal/expressions"
)

// SyntaxError is one schema-validation problem (spec.md §4.4/§8
// scenario 6). SpecPath is empty for a top-level "required" failure,
// the Go stand-in for the source's spec_path: None.
type SyntaxError struct {
	SpecPath   string `json:"spec_path,omitempty"`
	SchemaPath string `json:"schema_path"`
	Message    string `json:"message"`
}

// ExpressionError is one expression-syntax problem found in an
// expression-bearing field of the document.
type ExpressionError struct {
	Type       string `json:"type"`
	Expression string `json:"expression"`
	SpecPath   string `json:"spec_path"`
	SchemaPath string `json:"schema_path"`
	Message    string `json:"message"`
}

// ValidationResult is the two-pass validation outcome spec.md §4.4
// describes, omitting empty keys when serialized.
type ValidationResult struct {
	Syntax      []SyntaxError     `json:"syntax,omitempty"`
	Expressions []ExpressionError `json:"expressions,omitempty"`
}

// Empty reports whether the document validated cleanly.
func (r ValidationResult) Empty() bool {
	return len(r.Syntax) == 0 && len(r.Expressions) == 0
}

// Validate runs the two-pass validation described in spec.md §4.4
// against the root workflow schema (meta properties included).
func Validate(doc map[string]any) (ValidationResult, error) {
	return validateAgainst(workflowSchema(true), doc)
}

func validateAgainst(s schema, doc map[string]any) (ValidationResult, error) {
	var result ValidationResult

	schemaLoader := gojsonschema.NewGoLoader(map[string]any(s))
	docLoader := gojsonschema.NewGoLoader(doc)

	out, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return result, fmt.Errorf("specs: schema validation: %w", err)
	}
	for _, e := range out.Errors() {
		field := e.Field()
		specPath := specPathFor(field)
		schemaPath := schemaPathFor(field, e.Type())

		// A "required" violation's Field() names the object missing the
		// property, not the property itself; append it so spec_path
		// points at the absent attribute. A top-level miss keeps
		// spec_path empty (the Go stand-in for spec_path: None).
		if e.Type() == "required" && specPath != "" {
			if prop, ok := e.Details()["property"].(string); ok {
				specPath = specPath + "." + prop
			}
		}

		result.Syntax = append(result.Syntax, SyntaxError{
			SpecPath:   specPath,
			SchemaPath: schemaPath,
			Message:    e.Description(),
		})
	}
	sort.SliceStable(result.Syntax, func(i, j int) bool {
		return result.Syntax[i].SpecPath < result.Syntax[j].SpecPath
	})

	walkExpressions(s, doc, true, "", "", func(specPath, schemaPath string, value any, hasDoc bool) {
		if !hasDoc {
			return
		}
		text, ok := value.(string)
		if !ok || expressions.IsBlank(text) {
			return
		}
		for _, issue := range expressions.ValidateFragments(text) {
			result.Expressions = append(result.Expressions, ExpressionError{
				Type:       "query",
				Expression: issue.Fragment,
				SpecPath:   specPath,
				SchemaPath: schemaPath,
				Message:    issue.Message,
			})
		}
	})

	return result, nil
}

func specPathFor(field string) string {
	if field == "" || field == "(root)" {
		return ""
	}
	return field
}

// schemaPathFor approximates the dotted schema_path scenario 6 expects,
// reconstructed from the document field path plus the violated keyword
// since gojsonschema does not expose a schema-side JSON pointer.
func schemaPathFor(field, errType string) string {
	prefix := schemaPathForField(field)
	keyword := schemaKeyword(errType)
	if prefix == "" {
		return keyword
	}
	if keyword == "" {
		return prefix
	}
	return prefix + "." + keyword
}

func schemaPathForField(field string) string {
	if field == "" || field == "(root)" {
		return ""
	}
	parts := strings.Split(field, ".")
	segs := make([]string, 0, len(parts)*2)
	for _, p := range parts {
		segs = append(segs, "properties", p)
	}
	return strings.Join(segs, ".")
}

func schemaKeyword(errType string) string {
	switch errType {
	case "required":
		return "required"
	case "enum":
		return "enum"
	case "invalid_type":
		return "type"
	case "additional_property_not_allowed":
		return "additionalProperties"
	case "array_min_items":
		return "minItems"
	case "number_gte":
		return "minimum"
	case "number_lte":
		return "maximum"
	default:
		return errType
	}
}
