package transform

import "github.com/matzehuels/ontoviz/pkg/dag"

// AssignLayers sets every node's row to the length of the longest path
// reaching it from a source, so sources sit on row 0 and every edge points
// to a strictly deeper row. In the hierarchical layout a row is a rank:
// parents above children, and an association pushes its target below its
// source. Existing rows are overwritten.
//
// Ranks are computed in Kahn order, O(V + E). The graph must be acyclic;
// nodes on a cycle never become ready and keep row 0, so callers run
// [BreakCycles] first.
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for head := 0; head < len(queue); head++ {
		id := queue[head]
		next := rows[id] + 1
		for _, child := range g.Children(id) {
			rows[child] = max(rows[child], next)
			if inDegree[child]--; inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}
