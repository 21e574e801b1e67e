// Package specs implements the workflow spec model: YAML parsing into a
// generic document tree, a restricted JSON-schema subset describing the
// shape of that tree, and two-pass validation (schema syntax, then
// expression syntax) per spec.md §3/§4.4.
package specs

// schema is the restricted JSON-schema subset spec.md §3 calls for:
// type/properties/required/additionalProperties/enum/items/oneOf. It is
// represented as a plain map so it can be merged and walked without a
// dedicated schema type, the same approach orquesta's BaseSpec.get_schema
// takes with Python dicts.
type schema = map[string]any

func nonEmptyString() schema {
	return schema{"type": "string", "minLength": 1}
}

func nonEmptyDict() schema {
	return schema{"type": "object", "minProperties": 1}
}

// exprString marks a schema leaf as expression-bearing: GetExprSchemaPaths
// collects the spec_path/schema_path of every leaf carrying this marker so
// the expression-syntax validation pass knows where to look.
func exprString() schema {
	return schema{"type": "string", "format": "expression"}
}

func uniqueStringList() schema {
	return schema{
		"type":        "array",
		"items":       schema{"type": "string"},
		"uniqueItems": true,
	}
}

// transitionSchema describes one entry of a task's "next" list: when
// (guard), publish (vars to set), do (one or more task names to run).
func transitionSchema() schema {
	return schema{
		"type": "object",
		"properties": schema{
			"when": exprString(),
			"publish": schema{
				"type":                 "object",
				"additionalProperties": exprString(),
			},
			"do": schema{
				"oneOf": []any{
					schema{"type": "string"},
					schema{"type": "array", "items": schema{"type": "string"}},
				},
			},
		},
		"additionalProperties": false,
	}
}

// taskSchema describes one task entry under "tasks". with-items and retry
// are accepted but inert at the conductor level (see SPEC_FULL.md §4.4).
func taskSchema() schema {
	return schema{
		"type": "object",
		"properties": schema{
			"action": schema{"type": "string", "minLength": 1},
			"input": schema{
				"type":                 "object",
				"additionalProperties": exprString(),
			},
			"next": schema{
				"type":  "array",
				"items": transitionSchema(),
			},
			"join": schema{
				"oneOf": []any{
					schema{"type": "string", "enum": []any{"all"}},
					schema{"type": "integer", "minimum": 1},
				},
			},
			"with-items": schema{"type": "object", "additionalProperties": true},
			"retry":      schema{"type": "object", "additionalProperties": true},
		},
		"required":             []any{"action"},
		"additionalProperties": false,
	}
}

// workflowSchema is the root schema. Meta properties (name/version/
// description/tags) are included only when requested, mirroring
// BaseSpec.get_schema(includes=None) stripping them for nested specs.
func workflowSchema(includeMeta bool) schema {
	props := schema{
		"tasks": schema{
			"type":                 "object",
			"minProperties":        1,
			"additionalProperties": taskSchema(),
		},
		"vars":   schema{"type": "object", "additionalProperties": true},
		"input":  schema{"type": "array", "items": schema{"oneOf": []any{schema{"type": "string"}, schema{"type": "object"}}}},
		"output": schema{"type": "object", "additionalProperties": true},
	}
	if includeMeta {
		props["name"] = nonEmptyString()
		props["version"] = schema{"enum": []any{"1.0", 1.0}}
		props["description"] = nonEmptyString()
		props["tags"] = uniqueStringList()
	}
	return schema{
		"type":                 "object",
		"properties":           props,
		"required":             []any{"tasks"},
		"additionalProperties": false,
	}
}

// GetSchema returns the workflow root schema. Passing includes=nil/empty
// strips the meta properties, the same "includes=None" convention
// BaseSpec.get_schema uses for nested, non-root specs.
func GetSchema(includes ...string) map[string]any {
	includeMeta := false
	for _, inc := range includes {
		if inc == "meta" {
			includeMeta = true
		}
	}
	return workflowSchema(includeMeta)
}
