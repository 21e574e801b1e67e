package flow

import "github.com/workflow-conductor/conductor/internal/states"

// Log is the append-only task-flow log: an ordered sequence of entries
// plus a task_name -> latest-index mapping (spec.md §3).
type Log struct {
	Sequence []*Entry
	Tasks    map[string]int
	Contexts []*Context
}

// NewLog builds an empty flow log seeded with one initial context built
// from workflow inputs.
func NewLog(inputs map[string]any) *Log {
	return &Log{
		Tasks:    make(map[string]int),
		Contexts: []*Context{NewContext(inputs)},
	}
}

// LatestIndex returns the index of the most recent entry for name, or
// -1 if the task has never been observed.
func (l *Log) LatestIndex(name string) int {
	idx, ok := l.Tasks[name]
	if !ok {
		return -1
	}
	return idx
}

// LatestEntry returns the most recent entry for name, or nil.
func (l *Log) LatestEntry(name string) *Entry {
	idx := l.LatestIndex(name)
	if idx < 0 {
		return nil
	}
	return l.Sequence[idx]
}

// Append adds a new entry for name to the tail of the sequence and
// repoints the latest-index mapping at it. This is the only way the
// sequence grows; no operation mutates an existing entry's ID.
func (l *Log) Append(name string, ctxIdx *int) *Entry {
	e := &Entry{ID: name, Ctx: ctxIdx, OutboundMarks: make(map[string]bool)}
	l.Sequence = append(l.Sequence, e)
	l.Tasks[name] = len(l.Sequence) - 1
	return e
}

// Activations returns how many times name has appeared in the log,
// i.e. its activation count so far — used by the conductor to compute
// the current epoch when resolving a join barrier.
func (l *Log) Activations(name string) int {
	count := 0
	for _, e := range l.Sequence {
		if e.ID == name {
			count++
		}
	}
	return count
}

// ActivationIndex returns the 0-based ordinal of entry index idx among
// all entries for the same task name (its epoch number).
func (l *Log) ActivationIndex(idx int) int {
	if idx < 0 || idx >= len(l.Sequence) {
		return -1
	}
	name := l.Sequence[idx].ID
	epoch := 0
	for i := 0; i < idx; i++ {
		if l.Sequence[i].ID == name {
			epoch++
		}
	}
	return epoch
}

// CurrentContext returns the context an entry's Ctx index points to, or
// the log's initial context if the entry has none set.
func (l *Log) CurrentContext(e *Entry) *Context {
	if e != nil && e.Ctx != nil && *e.Ctx < len(l.Contexts) {
		return l.Contexts[*e.Ctx]
	}
	if len(l.Contexts) == 0 {
		return NewContext(nil)
	}
	return l.Contexts[0]
}

// RecordResult stores a completed task's result onto ctx's "__tasks"
// bookkeeping, mirroring on_task_complete's context['__tasks'] update.
func (c *Context) RecordResult(id string, state states.TaskState, result any) {
	if c.Tasks == nil {
		c.Tasks = make(map[string]TaskResult)
	}
	c.Tasks[id] = TaskResult{ID: id, State: string(state), Result: result}
}
