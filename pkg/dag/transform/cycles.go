package transform

import "github.com/matzehuels/ontoviz/pkg/dag"

// BreakCycles makes g acyclic by removing the back edges of a depth-first
// search and returns them in the order they were found. The search starts
// from sources, then from any node still unvisited, both in insertion
// order, so the same graph always loses the same edges. Self-loops are
// always removed.
func BreakCycles(g *dag.DAG) []dag.Edge {
	const (
		unvisited = iota
		onStack
		done
	)
	state := make(map[string]int, g.NodeCount())
	var back []dag.Edge

	type frame struct {
		id       string
		children []string
		next     int
	}
	visit := func(root string) {
		if state[root] != unvisited {
			return
		}
		state[root] = onStack
		stack := []frame{{id: root, children: g.Children(root)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(top.children) {
				state[top.id] = done
				stack = stack[:len(stack)-1]
				continue
			}
			child := top.children[top.next]
			top.next++
			switch state[child] {
			case unvisited:
				state[child] = onStack
				stack = append(stack, frame{id: child, children: g.Children(child)})
			case onStack:
				back = append(back, dag.Edge{From: top.id, To: child})
			}
		}
	}

	for _, n := range g.Sources() {
		visit(n.ID)
	}
	for _, n := range g.Nodes() {
		visit(n.ID)
	}

	g.RemoveEdges(back)
	return back
}
