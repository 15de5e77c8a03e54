package dag

import (
	"errors"
	"testing"
)

func TestAddNode_Errors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	g.AddNode(Node{ID: "a"})
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) = %v, want ErrDuplicateNodeID", err)
	}
}

func TestAddEdge_Errors(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	if err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge = %v, want ErrUnknownSourceNode", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge = %v, want ErrUnknownTargetNode", err)
	}
}

func TestNodes_InsertionOrder(t *testing.T) {
	g := New()
	ids := []string{"z", "m", "a", "q"}
	for _, id := range ids {
		g.AddNode(Node{ID: id})
	}
	got := NodeIDs(g.Nodes())
	for i := range ids {
		if got[i] != ids[i] {
			t.Fatalf("Nodes() = %v, want %v", got, ids)
		}
	}

	g.SetRows(map[string]int{"z": 1, "a": 1})
	row1 := NodeIDs(g.NodesInRow(1))
	if len(row1) != 2 || row1[0] != "z" || row1[1] != "a" {
		t.Errorf("NodesInRow(1) = %v, want [z a]", row1)
	}
}

func TestRemoveEdge(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})
	g.AddEdge(Edge{From: "a", To: "b"})

	g.RemoveEdge("a", "b")
	g.RemoveEdge("a", "missing")

	if g.EdgeCount() != 0 || g.HasEdge("a", "b") {
		t.Errorf("edge a→b still present")
	}
	if g.InDegree("b") != 0 || g.OutDegree("a") != 0 {
		t.Errorf("adjacency not updated")
	}
}

func TestRemoveEdges(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(Node{ID: id})
	}
	g.AddEdge(Edge{From: "a", To: "b"})
	g.AddEdge(Edge{From: "b", To: "c"})
	g.AddEdge(Edge{From: "a", To: "c"})

	g.RemoveEdges([]Edge{{From: "a", To: "c"}, {From: "b", To: "c"}, {From: "c", To: "a"}})

	if g.EdgeCount() != 1 || !g.HasEdge("a", "b") {
		t.Errorf("Edges() = %v, want [a→b]", g.Edges())
	}
	if g.InDegree("c") != 0 || g.OutDegree("a") != 1 {
		t.Errorf("adjacency not updated")
	}
}

func TestReachableWithin(t *testing.T) {
	g := New()
	for i := range 10 {
		g.AddNode(Node{ID: string(rune('a' + i))})
	}
	for i := range 9 {
		g.AddEdge(Edge{From: string(rune('a' + i)), To: string(rune('a' + i + 1))})
	}

	if found, _ := g.ReachableWithin("a", "j", 0); !found {
		t.Error("ReachableWithin(a, j, unbounded) = false, want true")
	}
	found, visited := g.ReachableWithin("a", "j", 3)
	if found || visited != 3 {
		t.Errorf("ReachableWithin(a, j, 3) = %v, %d, want false, 3", found, visited)
	}
	if found, _ := g.ReachableWithin("j", "a", 100); found {
		t.Error("ReachableWithin(j, a) = true, want false")
	}
	if !g.Reachable("c", "c") {
		t.Error("Reachable(c, c) = false, want true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		edges []Edge
		want  error
	}{
		{
			name:  "valid",
			nodes: []Node{{ID: "a", Row: 0}, {ID: "b", Row: 1}},
			edges: []Edge{{From: "a", To: "b"}},
		},
		{
			name:  "skips row",
			nodes: []Node{{ID: "a", Row: 0}, {ID: "b", Row: 2}},
			edges: []Edge{{From: "a", To: "b"}},
			want:  ErrNonConsecutiveRows,
		},
		{
			name:  "back edge",
			nodes: []Node{{ID: "a", Row: 0}, {ID: "b", Row: 1}, {ID: "c", Row: 2}},
			edges: []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "a"}},
			want:  ErrNonConsecutiveRows,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			for _, n := range tt.nodes {
				g.AddNode(n)
			}
			for _, e := range tt.edges {
				g.AddEdge(e)
			}
			if err := g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDetectCycles(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: "a"})
	g.AddNode(Node{ID: "b"})
	g.AddEdge(Edge{From: "a", To: "b"})
	g.AddEdge(Edge{From: "b", To: "a"})
	if err := g.detectCycles(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("detectCycles() = %v, want ErrGraphHasCycle", err)
	}
}

func TestCountCrossings(t *testing.T) {
	g := New()
	for _, n := range []Node{{ID: "a", Row: 0}, {ID: "b", Row: 0}, {ID: "c", Row: 0}, {ID: "x", Row: 1}, {ID: "y", Row: 1}, {ID: "z", Row: 1}} {
		g.AddNode(n)
	}
	g.AddEdge(Edge{From: "a", To: "z"})
	g.AddEdge(Edge{From: "b", To: "y"})
	g.AddEdge(Edge{From: "c", To: "x"})

	crossed := map[int][]string{0: {"a", "b", "c"}, 1: {"x", "y", "z"}}
	if got := CountCrossings(g, crossed); got != 3 {
		t.Errorf("CountCrossings = %d, want 3", got)
	}
	clean := map[int][]string{0: {"a", "b", "c"}, 1: {"z", "y", "x"}}
	if got := CountCrossings(g, clean); got != 0 {
		t.Errorf("CountCrossings = %d, want 0", got)
	}
	if got := CountPairCrossings(g, "a", "b", []string{"x", "y", "z"}, false); got != 1 {
		t.Errorf("CountPairCrossings = %d, want 1", got)
	}
}
