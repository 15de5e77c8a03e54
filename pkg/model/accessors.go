package model

import (
	"slices"

	"github.com/matzehuels/ontoviz/pkg/graph"
)

// Len returns the number of (deduplicated) nodes.
func (m *Model) Len() int { return len(m.nodes) }

// Index returns the stable index of a node id.
func (m *Model) Index(id string) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// ID returns the id of node i.
func (m *Model) ID(i int) string { return m.nodes[i].ID }

// Node returns a copy of node i.
func (m *Model) Node(i int) graph.Node { return m.nodes[i].Clone() }

// IDs returns all node ids in index order.
func (m *Model) IDs() []string {
	ids := make([]string, len(m.nodes))
	for i, n := range m.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Nodes returns a copy of the normalized nodes in index order.
func (m *Model) Nodes() []graph.Node {
	out := make([]graph.Node, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Edges returns a copy of the valid edges in input order.
func (m *Model) Edges() []graph.Edge { return slices.Clone(m.edges) }

// Dropped returns the edges removed because an endpoint was missing.
func (m *Model) Dropped() []graph.Edge { return slices.Clone(m.dropped) }

// IsConnected reports whether node i appears in at least one valid edge.
func (m *Model) IsConnected(i int) bool { return m.connected[i] }

// Connected returns the indices of connected nodes in index order.
func (m *Model) Connected() []int {
	var out []int
	for i, c := range m.connected {
		if c {
			out = append(out, i)
		}
	}
	return out
}

// Orphans returns the indices of nodes without edges, sorted by id.
func (m *Model) Orphans() []int {
	var out []int
	for i, c := range m.connected {
		if !c {
			out = append(out, i)
		}
	}
	slices.SortFunc(out, m.byID)
	return out
}

// Parent returns the primary parent of node i, or -1.
func (m *Model) Parent(i int) int { return m.parent[i] }

// SecondaryParents returns parents recorded for node i but not used for the tree.
func (m *Model) SecondaryParents(i int) []int { return slices.Clone(m.secondary[i]) }

// Children returns the tree children of node i, sorted by id.
func (m *Model) Children(i int) []int { return m.children[i] }

// Roots returns connected nodes without a primary parent, in index order.
func (m *Model) Roots() []int { return m.roots }

// Depth returns the tree depth of node i (roots and orphans are 0).
func (m *Model) Depth(i int) int { return m.depth[i] }

// MaxDepth returns the greatest tree depth.
func (m *Model) MaxDepth() int { return m.maxDepth }

// SubtreeSize returns the number of leaves in the subtree rooted at i.
// A leaf counts itself.
func (m *Model) SubtreeSize(i int) int { return m.leaves[i] }

// HasCycles reports whether any directed cycle exists over all valid edges.
func (m *Model) HasCycles() bool { return m.hasCycles }

// Groups returns group id → member ids in index order.
func (m *Model) Groups() map[string][]string {
	return graph.Snapshot{Nodes: m.nodes}.Groups()
}

// OutEdges returns the targets of node i over all valid edges.
func (m *Model) OutEdges(i int) []int { return m.out[i] }
