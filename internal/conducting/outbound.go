package conducting

import (
	"fmt"
	"sort"

	"github.com/workflow-conductor/conductor/internal/expressions"
	"github.com/workflow-conductor/conductor/internal/flow"
	"github.com/workflow-conductor/conductor/internal/states"
)

// NextTask is one candidate the caller should dispatch next.
type NextTask struct {
	ID   string
	Name string
	Ctx  int
}

// evaluateOutbound runs the outbound-transition evaluation spec.md §4.5
// describes for a newly-terminal entry: record the task's result onto
// its context, then for every outbound edge whose criteria is empty or
// evaluates true, mark it satisfied for the destination's *current*
// activation epoch.
func (c *Conductor) evaluateOutbound(name string, entry *flow.Entry, result any) {
	ctx := c.flow.CurrentContext(entry)
	ctx.RecordResult(name, entry.State, result)
	view := ctx.View()

	ctxIdx := 0
	if entry.Ctx != nil {
		ctxIdx = *entry.Ctx
	}

	for _, e := range c.graph.GetNextSequences(name) {
		criteria, _ := e.Attrs["criteria"].(string)
		satisfied, err := expressions.EvaluateGuard(criteria, view)
		if err != nil {
			// Guard evaluation failures are treated as the guard
			// evaluating false, not a conductor crash. The error itself
			// is not kept anywhere.
			satisfied = false
		}
		if !satisfied {
			continue
		}

		markName := fmt.Sprintf("%s__%d", e.Dst, e.Key)
		entry.OutboundMarks[markName] = true
		c.graph.UpdateSequence(name, e.Dst, e.Key, map[string]any{"satisfied": true})

		c.marks = append(c.marks, mark{
			Dst:    e.Dst,
			Key:    e.Key,
			Epoch:  c.flow.Activations(e.Dst),
			CtxIdx: ctxIdx,
		})
	}
}

// joinThreshold returns how many satisfied inbound edges name's current
// activation needs before it is runnable. Tasks with no inbound edges
// (workflow entry points) are vacuously satisfied.
func (c *Conductor) joinThreshold(name string) int {
	if c.graph.InDegree(name) == 0 {
		return 0
	}
	task := c.spec.Tasks[name]
	if task != nil {
		switch j := task.Join.(type) {
		case string:
			if j == "all" {
				return c.graph.InDegree(name)
			}
		case int:
			if j > 0 {
				return j
			}
		}
	}
	return 1
}

// countMarks returns how many marks target name's current activation
// epoch, plus the context index to use if name becomes runnable
// (the lowest-key satisfying edge's context, for determinism).
func (c *Conductor) countMarks(name string, epoch int) (int, int) {
	count := 0
	ctxIdx := 0
	bestKey := -1
	for _, m := range c.marks {
		if m.Dst != name || m.Epoch != epoch {
			continue
		}
		count++
		if bestKey == -1 || m.Key < bestKey {
			bestKey = m.Key
			ctxIdx = m.CtxIdx
		}
	}
	return count, ctxIdx
}

// GetNextTasks returns the tasks runnable right now, sorted by name: a
// pure function of the graph and flow log (spec.md §4.5/§8 property 4).
// Outside RUNNING it returns nil (the documented Open Question
// decision, see DESIGN.md).
func (c *Conductor) GetNextTasks() []NextTask {
	if c.state != states.WorkflowRunning {
		return nil
	}

	var out []NextTask
	for _, name := range c.graph.TaskNames() {
		epoch := c.flow.Activations(name)
		if c.graph.InDegree(name) == 0 && epoch > 0 {
			// A pure entry point only ever fires once; nothing ever adds
			// new marks for it, so later epochs never become runnable.
			continue
		}

		threshold := c.joinThreshold(name)
		count, ctxIdx := c.countMarks(name, epoch)
		if count < threshold {
			continue
		}
		out = append(out, NextTask{ID: name, Name: name, Ctx: ctxIdx})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
