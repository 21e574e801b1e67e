package specs

import (
	"reflect"
	"testing"
)

func TestParseDocument_Errors(t *testing.T) {
	cases := []string{"", "   ", "foobar"}
	for _, text := range cases {
		if _, err := ParseDocument(text); err == nil {
			t.Errorf("ParseDocument(%q): expected error", text)
		}
	}
}

func TestParseDocument_Mapping(t *testing.T) {
	doc, err := ParseDocument(`
tasks:
  task1:
    action: core.noop
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := doc["tasks"]; !ok {
		t.Fatal("expected tasks key in parsed document")
	}
}

func TestBuildWorkflowSpec_NormalizesDo(t *testing.T) {
	doc, err := ParseDocument(`
tasks:
  task1:
    action: core.noop
    next:
      - do: task2
      - do: "task3, task4"
      - do: [task5, task6]
`)
	if err != nil {
		t.Fatal(err)
	}
	ws, err := BuildWorkflowSpec(doc)
	if err != nil {
		t.Fatal(err)
	}
	task1 := ws.Tasks["task1"]
	if task1 == nil {
		t.Fatal("expected task1")
	}
	if len(task1.Next) != 3 {
		t.Fatalf("expected 3 next entries, got %d", len(task1.Next))
	}
	if !reflect.DeepEqual(task1.Next[0].Do, []string{"task2"}) {
		t.Errorf("single name form: got %v", task1.Next[0].Do)
	}
	if !reflect.DeepEqual(task1.Next[1].Do, []string{"task3", "task4"}) {
		t.Errorf("comma-joined form: got %v", task1.Next[1].Do)
	}
	if !reflect.DeepEqual(task1.Next[2].Do, []string{"task5", "task6"}) {
		t.Errorf("list form: got %v", task1.Next[2].Do)
	}
}

func TestValidate_Valid(t *testing.T) {
	doc, err := ParseDocument(`
version: '1.0'
tasks:
  task1:
    action: core.noop
    input:
      greeting: "<% ctx.name %>"
    next:
      - when: "<% ctx.__tasks.task1.state == 'succeeded' %>"
        do: task2
  task2:
    action: core.noop
`)
	if err != nil {
		t.Fatal(err)
	}
	result, err := Validate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Empty() {
		t.Fatalf("expected a clean validation, got %+v", result)
	}
}

// TestValidate_Scenario6 mirrors spec.md §8 scenario 6: a version enum
// violation, a missing required field, and three malformed expressions
// must all surface in one validate() call with the documented shape. The
// two malformed query fragments are CEL-specific rather than the
// source's yaql examples — "{"a": 123}" happens to be a valid CEL map
// literal, so it can't stand in for a parse error under this dialect.
func TestValidate_Scenario6(t *testing.T) {
	doc, err := ParseDocument(`
version: '2.0'
tasks:
  task1:
    input:
      greeting: "<% 1 +/ 2 %> and <% ctx..foo %>"
  task2:
    action: core.noop
    next:
      - when: "<% <% $.foobar %>"
        do: task1
`)
	if err != nil {
		t.Fatal(err)
	}

	result, err := Validate(doc)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Syntax) != 2 {
		t.Fatalf("expected 2 syntax errors, got %d: %+v", len(result.Syntax), result.Syntax)
	}
	bySpecPath := make(map[string]SyntaxError)
	for _, e := range result.Syntax {
		bySpecPath[e.SpecPath] = e
	}
	versionErr, ok := bySpecPath["version"]
	if !ok {
		t.Fatalf("expected a syntax error at spec_path 'version', got %+v", result.Syntax)
	}
	if versionErr.SchemaPath != "properties.version.enum" {
		t.Errorf("expected schema_path properties.version.enum, got %s", versionErr.SchemaPath)
	}
	requiredErr, ok := bySpecPath["tasks.task1.action"]
	if !ok {
		t.Fatalf("expected a required-property syntax error at spec_path 'tasks.task1.action', got %+v", result.Syntax)
	}
	if requiredErr.SchemaPath != "properties.tasks.properties.task1.required" {
		t.Errorf("expected schema_path properties.tasks.properties.task1.required, got %s", requiredErr.SchemaPath)
	}

	if len(result.Expressions) != 3 {
		t.Fatalf("expected 3 expression errors, got %d: %+v", len(result.Expressions), result.Expressions)
	}
	var greetingCount, whenCount int
	for _, e := range result.Expressions {
		if e.Type != "query" {
			t.Errorf("expected type 'query', got %s", e.Type)
		}
		switch e.SpecPath {
		case "tasks.task1.input.greeting":
			greetingCount++
		case "tasks.task2.next.0.when":
			whenCount++
		default:
			t.Errorf("unexpected spec_path %s", e.SpecPath)
		}
	}
	if greetingCount != 2 {
		t.Errorf("expected 2 expression errors under the greeting field, got %d", greetingCount)
	}
	if whenCount != 1 {
		t.Errorf("expected 1 expression error under the when field, got %d", whenCount)
	}
}

// mockLeafSpec and mockParentSpec exercise the generic Spec protocol the
// way the system this package models layers BaseSpec subclasses, kept
// deliberately separate from the workflow domain types.
type mockLeafSpec struct {
	BaseSpec
}

func newMockLeafSpec() *mockLeafSpec {
	return &mockLeafSpec{BaseSpec: NewBaseSpec(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"attr1": map[string]any(exprString()),
		},
		"required":             []any{"attr1"},
		"additionalProperties": false,
	})}
}

func TestBaseSpec_ExprPaths(t *testing.T) {
	leaf := newMockLeafSpec()
	parent := BaseSpec{schemaDoc: schema{
		"type": "object",
		"properties": schema{
			"attr1": leaf.schemaDoc,
			"attr2": exprString(),
		},
	}}

	paths := parent.ExprPaths()
	want := map[string]string{
		"attr1.attr1": "properties.attr1.properties.attr1",
		"attr2":       "properties.attr2",
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("got %v, want %v", paths, want)
	}
}

func TestGetSchema_IncludesMetaAtRootOnly(t *testing.T) {
	withMeta := GetSchema("meta")
	props := withMeta["properties"].(map[string]any)
	if _, ok := props["version"]; !ok {
		t.Error("expected root schema to carry a version property")
	}

	withoutMeta := GetSchema()
	props = withoutMeta["properties"].(map[string]any)
	if _, ok := props["version"]; ok {
		t.Error("expected nested schema (includes=none) to omit version")
	}
}

// TestGetExprSchemaPaths_Smoke documents that the root workflow schema's
// only expression-bearing leaves live under "tasks", which is a
// dynamic (additionalProperties) subtree GetExprSchemaPaths cannot
// enumerate without a concrete document; it is exercised with a document
// instead, in TestValidate_Scenario6.
func TestGetExprSchemaPaths_Smoke(t *testing.T) {
	paths := GetExprSchemaPaths()
	if len(paths) != 0 {
		t.Errorf("expected no statically-known expression paths on the root schema, got %v", paths)
	}
}
