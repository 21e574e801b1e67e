package specs

// Spec is the shared validation protocol every node of the spec tree
// implements: workflow, task, and transition specs are all "tagged
// variants" over the same schema/expr_paths/validate protocol (spec.md
// §9 design note, "Polymorphic spec tree").
type Spec interface {
	Schema() map[string]any
	ExprPaths() map[string]string
	Validate(doc map[string]any) (ValidationResult, error)
}

// BaseSpec implements Spec generically off a fixed schema. Concrete spec
// kinds embed it rather than reimplementing the protocol, the same way
// every BaseSpec subclass in the system this package models gets
// schema()/expr_paths()/validate() for free from its _schema attribute.
type BaseSpec struct {
	schemaDoc schema
}

// NewBaseSpec wraps a schema literal for embedding into a concrete spec
// type.
func NewBaseSpec(s map[string]any) BaseSpec {
	return BaseSpec{schemaDoc: schema(s)}
}

func (b BaseSpec) Schema() map[string]any {
	return map[string]any(b.schemaDoc)
}

func (b BaseSpec) ExprPaths() map[string]string {
	paths := make(map[string]string)
	walkExpressions(b.schemaDoc, nil, false, "", "", func(specPath, schemaPath string, _ any, _ bool) {
		paths[specPath] = schemaPath
	})
	return paths
}

func (b BaseSpec) Validate(doc map[string]any) (ValidationResult, error) {
	return validateAgainst(b.schemaDoc, doc)
}

var (
	_ Spec = BaseSpec{}
	_ Spec = (*WorkflowSpec)(nil)
	_ Spec = (*TaskSpec)(nil)
	_ Spec = (*TransitionSpec)(nil)
)
