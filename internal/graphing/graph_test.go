package graphing

import "testing"

func fixtureGraph(t *testing.T) *WorkflowGraph {
	t.Helper()
	g := NewWorkflowGraph()
	for i := 1; i <= 5; i++ {
		name := taskName(i)
		if err := g.AddTask(name, map[string]any{"name": name}); err != nil {
			t.Fatalf("AddTask(%s): %v", name, err)
		}
	}
	mustTransition(t, g, "task1", "task2")
	mustTransition(t, g, "task1", "task5")
	mustTransition(t, g, "task2", "task3")
	mustTransition(t, g, "task3", "task4")
	mustTransition(t, g, "task4", "task2")
	return g
}

func taskName(i int) string {
	return "task" + string(rune('0'+i))
}

func mustTransition(t *testing.T, g *WorkflowGraph, src, dst string) {
	t.Helper()
	if _, err := g.AddTransition(src, dst, nil); err != nil {
		t.Fatalf("AddTransition(%s, %s): %v", src, dst, err)
	}
}

func TestAddTask_Duplicate(t *testing.T) {
	g := NewWorkflowGraph()
	if err := g.AddTask("t1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := g.AddTask("t1", nil)
	if _, ok := err.(*DuplicateTaskError); !ok {
		t.Fatalf("expected DuplicateTaskError, got %v", err)
	}
}

func TestAddTransition_InvalidTask(t *testing.T) {
	g := NewWorkflowGraph()
	g.AddTask("t1", nil)
	_, err := g.AddTransition("t1", "missing", nil)
	if _, ok := err.(*InvalidTaskError); !ok {
		t.Fatalf("expected InvalidTaskError, got %v", err)
	}
}

func TestAddTransition_ParallelEdges(t *testing.T) {
	g := NewWorkflowGraph()
	g.AddTask("a", nil)
	g.AddTask("b", nil)

	k1, err := g.AddTransition("a", "b", nil)
	if err != nil {
		t.Fatal(err)
	}
	k2, err := g.AddTransition("a", "b", nil)
	if err != nil {
		t.Fatal(err)
	}
	if k1 == k2 {
		t.Fatalf("expected distinct keys for parallel edges, got %d and %d", k1, k2)
	}
	if got := len(g.GetNextSequences("a")); got != 2 {
		t.Fatalf("expected 2 outbound edges, got %d", got)
	}
}

func TestGetNextSequences_Order(t *testing.T) {
	g := fixtureGraph(t)
	edges := g.GetNextSequences("task1")
	if len(edges) != 2 {
		t.Fatalf("expected 2 outbound edges from task1, got %d", len(edges))
	}
	if edges[0].Dst != "task2" || edges[1].Dst != "task5" {
		t.Fatalf("expected sorted order task2, task5; got %s, %s", edges[0].Dst, edges[1].Dst)
	}
}

func TestInCycle(t *testing.T) {
	g := fixtureGraph(t)

	if g.InCycle("task1") {
		t.Error("task1 should not be in a cycle")
	}
	for _, name := range []string{"task2", "task3", "task4"} {
		if !g.InCycle(name) {
			t.Errorf("%s should be in a cycle", name)
		}
	}
	if g.InCycle("task5") {
		t.Error("task5 should not be in a cycle")
	}
}

func TestInCycle_SelfLoop(t *testing.T) {
	g := NewWorkflowGraph()
	g.AddTask("a", nil)
	g.AddTransition("a", "a", nil)
	if !g.InCycle("a") {
		t.Error("self-loop should count as a cycle")
	}
}

func TestUpdateSequence(t *testing.T) {
	g := NewWorkflowGraph()
	g.AddTask("a", nil)
	g.AddTask("b", nil)
	key, _ := g.AddTransition("a", "b", nil)

	if err := g.UpdateSequence("a", "b", key, map[string]any{"satisfied": true}); err != nil {
		t.Fatal(err)
	}

	edges := g.GetNextSequences("a")
	if edges[0].Attrs["satisfied"] != true {
		t.Error("expected satisfied attr to be updated")
	}
}

func TestInOutDegree(t *testing.T) {
	g := fixtureGraph(t)
	if g.InDegree("task2") != 2 {
		t.Errorf("expected task2 in-degree 2, got %d", g.InDegree("task2"))
	}
	if g.OutDegree("task1") != 2 {
		t.Errorf("expected task1 out-degree 2, got %d", g.OutDegree("task1"))
	}
}
