package transform

import (
	"slices"
	"strconv"
	"testing"

	"github.com/matzehuels/ontoviz/pkg/dag"
)

func rankGraph(t *testing.T, nodes []string, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, id := range nodes {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}
	return g
}

func TestBreakCycles(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []string
		edges     [][2]string
		want      []dag.Edge
		wantEdges int
	}{
		{
			name:      "empty",
			wantEdges: 0,
		},
		{
			name:      "chain",
			nodes:     []string{"Thing", "Agent", "Person"},
			edges:     [][2]string{{"Thing", "Agent"}, {"Agent", "Person"}},
			wantEdges: 2,
		},
		{
			name:      "diamond",
			nodes:     []string{"Thing", "Agent", "Place", "Venue"},
			edges:     [][2]string{{"Thing", "Agent"}, {"Thing", "Place"}, {"Agent", "Venue"}, {"Place", "Venue"}},
			wantEdges: 4,
		},
		{
			name:      "two-cycle",
			nodes:     []string{"A", "B"},
			edges:     [][2]string{{"A", "B"}, {"B", "A"}},
			want:      []dag.Edge{{From: "B", To: "A"}},
			wantEdges: 1,
		},
		{
			name:      "triangle",
			nodes:     []string{"A", "B", "C"},
			edges:     [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}},
			want:      []dag.Edge{{From: "C", To: "A"}},
			wantEdges: 2,
		},
		{
			name:      "separate cycles",
			nodes:     []string{"a", "b", "c", "d"},
			edges:     [][2]string{{"a", "b"}, {"b", "a"}, {"c", "d"}, {"d", "c"}},
			want:      []dag.Edge{{From: "b", To: "a"}, {From: "d", To: "c"}},
			wantEdges: 2,
		},
		{
			name:      "self-loop",
			nodes:     []string{"a"},
			edges:     [][2]string{{"a", "a"}},
			want:      []dag.Edge{{From: "a", To: "a"}},
			wantEdges: 0,
		},
		{
			name:      "cycle below a source",
			nodes:     []string{"root", "b", "c", "d"},
			edges:     [][2]string{{"root", "b"}, {"b", "c"}, {"c", "d"}, {"d", "b"}},
			want:      []dag.Edge{{From: "d", To: "b"}},
			wantEdges: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := rankGraph(t, tt.nodes, tt.edges)
			got := BreakCycles(g)
			if !slices.Equal(got, tt.want) {
				t.Errorf("removed %v, want %v", got, tt.want)
			}
			if g.EdgeCount() != tt.wantEdges {
				t.Errorf("EdgeCount() = %d, want %d", g.EdgeCount(), tt.wantEdges)
			}
			if again := BreakCycles(g); len(again) != 0 {
				t.Errorf("graph still cyclic: %v", again)
			}
		})
	}
}

func TestBreakCyclesDeepChain(t *testing.T) {
	const n = 50000
	nodes := make([]string, n)
	var edges [][2]string
	for i := range nodes {
		nodes[i] = "c" + strconv.Itoa(i)
		if i > 0 {
			edges = append(edges, [2]string{nodes[i-1], nodes[i]})
		}
	}
	edges = append(edges, [2]string{nodes[n-1], nodes[0]})

	g := rankGraph(t, nodes, edges)
	got := BreakCycles(g)
	if len(got) != 1 || got[0].From != nodes[n-1] {
		t.Errorf("removed %v, want the closing edge", got)
	}
}
