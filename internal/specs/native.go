package specs

import (
	"fmt"
	"strconv"
	"strings"
)

// TransitionSpec is one entry of a task's "next" list: a guard, the vars
// it publishes on satisfaction, and the task(s) it leads to.
type TransitionSpec struct {
	BaseSpec
	When    string
	Publish map[string]any
	Do      []string
}

// TaskSpec is one task entry under "tasks".
type TaskSpec struct {
	BaseSpec
	Name      string
	Action    string
	Input     map[string]any
	Next      []*TransitionSpec
	Join      any
	WithItems map[string]any
	Retry     map[string]any
}

// WorkflowSpec is the root spec document.
type WorkflowSpec struct {
	BaseSpec
	Name        string
	Version     string
	Description string
	Tags        []string
	Vars        map[string]any
	Input       []string
	Output      map[string]any
	Tasks       map[string]*TaskSpec
}

// BuildWorkflowSpec constructs a typed WorkflowSpec from a parsed
// document. It does not validate; call Validate on the result (or on the
// raw doc via package-level Validate) first if the document's syntax is
// untrusted.
func BuildWorkflowSpec(doc map[string]any) (*WorkflowSpec, error) {
	ws := &WorkflowSpec{BaseSpec: NewBaseSpec(map[string]any(workflowSchema(true)))}

	ws.Name, _ = doc["name"].(string)
	ws.Version, _ = stringOrNumber(doc["version"])
	ws.Description, _ = doc["description"].(string)
	ws.Tags = stringList(doc["tags"])
	ws.Vars = toStringMap(doc["vars"])
	ws.Output = toStringMap(doc["output"])
	ws.Input = inputNames(doc["input"])

	tasksDoc, _ := doc["tasks"].(map[string]any)
	ws.Tasks = make(map[string]*TaskSpec, len(tasksDoc))
	for name, raw := range tasksDoc {
		taskDoc, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("specs: task %q must be a mapping", name)
		}
		task, err := buildTaskSpec(name, taskDoc)
		if err != nil {
			return nil, err
		}
		ws.Tasks[name] = task
	}
	return ws, nil
}

func buildTaskSpec(name string, doc map[string]any) (*TaskSpec, error) {
	t := &TaskSpec{
		BaseSpec: NewBaseSpec(map[string]any(taskSchema())),
		Name:     name,
	}
	t.Action, _ = doc["action"].(string)
	t.Input = toStringMap(doc["input"])
	t.Join = doc["join"]
	t.WithItems = toStringMap(doc["with-items"])
	t.Retry = toStringMap(doc["retry"])

	nextList, _ := doc["next"].([]any)
	for _, raw := range nextList {
		transDoc, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("specs: task %q has a malformed next entry", name)
		}
		t.Next = append(t.Next, buildTransitionSpec(transDoc))
	}
	return t, nil
}

func buildTransitionSpec(doc map[string]any) *TransitionSpec {
	tr := &TransitionSpec{BaseSpec: NewBaseSpec(map[string]any(transitionSchema()))}
	tr.When, _ = doc["when"].(string)
	tr.Publish = toStringMap(doc["publish"])
	tr.Do = normalizeDo(doc["do"])
	return tr
}

// normalizeDo accepts the three forms spec.md §6 allows for "do": a
// single task name, a comma-joined string of names, or a YAML list of
// names — all folded into []string.
func normalizeDo(v any) []string {
	switch val := v.(type) {
	case string:
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	default:
		return nil
	}
}

func toStringMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// inputNames flattens the "input" list, whose entries are either a bare
// name or a single-key mapping of name to default value.
func inputNames(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch val := it.(type) {
		case string:
			out = append(out, val)
		case map[string]any:
			for k := range val {
				out = append(out, k)
			}
		}
	}
	return out
}

func stringOrNumber(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	default:
		return "", false
	}
}
