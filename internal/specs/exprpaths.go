package specs

import (
	"strconv"
	"strings"
)

// GetExprSchemaPaths walks the root workflow schema's properties/items/
// oneOf recursively and collects every statically-known leaf marked as an
// expression (format: "expression"), mirroring
// BaseSpec.get_expr_schema_paths. Leaves reachable only through a
// document-driven additionalProperties or items subtree (e.g. "tasks.
// <name>.input.<key>") have no concrete path without a document and are
// not listed here; use walkExpressions with a document for those.
func GetExprSchemaPaths() map[string]string {
	paths := make(map[string]string)
	walkExpressions(workflowSchema(true), nil, false, "", "", func(specPath, schemaPath string, _ any, _ bool) {
		paths[specPath] = schemaPath
	})
	return paths
}

// walkExpressions co-walks a schema and, optionally, the document it
// describes. onLeaf fires once per expression-bearing leaf the walk
// reaches; hasDoc tells the callback whether doc is meaningful (false
// when no concrete document value exists at this path, e.g. when only
// listing schema paths).
func walkExpressions(node schema, doc any, hasDoc bool, specPath, schemaPath string, onLeaf func(specPath, schemaPath string, doc any, hasDoc bool)) {
	if isExpressionLeaf(node) {
		onLeaf(specPath, schemaPath, doc, hasDoc)
		return
	}

	if props, ok := node["properties"].(schema); ok {
		docMap, docIsMap := doc.(map[string]any)
		for name, childAny := range props {
			child, ok := childAny.(schema)
			if !ok {
				continue
			}
			var childDoc any
			childHasDoc := hasDoc && docIsMap
			if childHasDoc {
				childDoc = docMap[name]
			}
			walkExpressions(child, childDoc, childHasDoc, join(specPath, name), join(schemaPath, "properties", name), onLeaf)
		}
	}

	if ap, ok := node["additionalProperties"].(schema); ok && hasDoc {
		if docMap, ok := doc.(map[string]any); ok {
			declared, _ := node["properties"].(schema)
			for key, val := range docMap {
				if declared != nil {
					if _, isDeclared := declared[key]; isDeclared {
						continue
					}
				}
				walkExpressions(ap, val, true, join(specPath, key), join(schemaPath, "additionalProperties"), onLeaf)
			}
		}
	}

	if items, ok := node["items"].(schema); ok && hasDoc {
		if docList, ok := doc.([]any); ok {
			for i, v := range docList {
				walkExpressions(items, v, true, join(specPath, strconv.Itoa(i)), join(schemaPath, "items"), onLeaf)
			}
		}
	}

	if variants, ok := node["oneOf"].([]any); ok {
		for i, v := range variants {
			variantSchema, ok := v.(schema)
			if !ok {
				continue
			}
			walkExpressions(variantSchema, doc, hasDoc, specPath, join(schemaPath, "oneOf", strconv.Itoa(i)), onLeaf)
		}
	}
}

func isExpressionLeaf(node schema) bool {
	return node["format"] == "expression"
}

func join(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ".")
}
