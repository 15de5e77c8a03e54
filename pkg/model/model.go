// Package model builds the normalized, indexed view of a graph snapshot that
// every layout strategy consumes.
//
// A [Model] assigns each node a stable integer index (its position in the
// deduplicated input), classifies nodes as connected or orphan, derives a
// single-parent tree from hierarchy edges, computes depth and subtree leaf
// counts, and detects cycles over the full edge set.
//
// # Primary-Parent Policy
//
// Ontologies allow multiple inheritance but tree-based layouts need a single
// parent per node. For hierarchy edges, processed in input order, the first
// edge for a given child wins. Later parent edges for the same child are kept
// as secondary parents and never influence positioning. An edge whose
// acceptance would close a loop in the tree is treated as secondary as well,
// so the derived structure is always a forest. The original edge list is
// preserved unchanged in [Model.Edges].
//
// # Cycles
//
// [Model.HasCycles] is computed by a depth-first search with white/gray/black
// coloring over all valid edges (not just hierarchy edges), so cycles formed
// by any combination of edge types are reported.
package model

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/ontoviz/pkg/graph"
)

// Model is an immutable, indexed view of a snapshot. Build it with [Build].
type Model struct {
	nodes   []graph.Node
	edges   []graph.Edge
	dropped []graph.Edge
	index   map[string]int

	// Adjacency over all valid edges, by index.
	out [][]int

	connected []bool
	parent    []int
	secondary [][]int
	children  [][]int
	roots     []int
	depth     []int
	leaves    []int
	maxDepth  int
	hasCycles bool
}

// Option configures [Build].
type Option func(*buildConfig)

type buildConfig struct {
	logger *log.Logger
}

// WithLogger sets the logger used for warnings about dropped input.
func WithLogger(l *log.Logger) Option {
	return func(c *buildConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Build normalizes nodes and edges into a Model. Inputs are copied; the
// caller's slices are never retained or modified.
//
// Duplicate node ids keep their first occurrence. Edges whose endpoints are
// not among the nodes are dropped with a warning and reported by
// [Model.Dropped]. Neither condition is fatal.
func Build(nodes []graph.Node, edges []graph.Edge, opts ...Option) *Model {
	cfg := buildConfig{logger: log.NewWithOptions(io.Discard, log.Options{})}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Model{
		nodes: make([]graph.Node, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}

	for _, n := range nodes {
		if _, dup := m.index[n.ID]; dup {
			cfg.logger.Warn("duplicate node id ignored", "id", n.ID)
			continue
		}
		m.index[n.ID] = len(m.nodes)
		m.nodes = append(m.nodes, n.Clone())
	}

	n := len(m.nodes)
	m.out = make([][]int, n)
	m.connected = make([]bool, n)

	for _, e := range edges {
		s, okS := m.index[e.Source]
		t, okT := m.index[e.Target]
		if !okS || !okT {
			cfg.logger.Warn("dropping dangling edge",
				"source", e.Source, "target", e.Target, "type", e.EdgeType)
			m.dropped = append(m.dropped, e)
			continue
		}
		m.edges = append(m.edges, e)
		m.out[s] = append(m.out[s], t)
		m.connected[s] = true
		m.connected[t] = true
	}

	m.buildTree()
	m.computeDepths()
	m.computeLeaves()
	m.hasCycles = m.detectCycles()

	if len(m.dropped) > 0 {
		cfg.logger.Debug("model built with dropped edges",
			"nodes", n, "edges", len(m.edges), "dropped", len(m.dropped))
	}
	return m
}

// =============================================================================
// Tree Construction
// =============================================================================

func (m *Model) buildTree() {
	n := len(m.nodes)
	m.parent = make([]int, n)
	m.secondary = make([][]int, n)
	m.children = make([][]int, n)
	for i := range m.parent {
		m.parent[i] = -1
	}

	for _, e := range m.edges {
		if !e.EdgeType.IsHierarchy() {
			continue
		}
		child, par := m.index[e.Source], m.index[e.Target]
		if child == par {
			continue
		}
		if m.parent[child] >= 0 || m.isAncestor(child, par) {
			if m.parent[child] != par && !slices.Contains(m.secondary[child], par) {
				m.secondary[child] = append(m.secondary[child], par)
			}
			continue
		}
		m.parent[child] = par
		m.children[par] = append(m.children[par], child)
	}

	for i := range m.children {
		slices.SortFunc(m.children[i], m.byID)
	}
	for i := 0; i < n; i++ {
		if m.connected[i] && m.parent[i] < 0 {
			m.roots = append(m.roots, i)
		}
	}
}

// isAncestor reports whether a is node or one of its ancestors in the tree built so far.
func (m *Model) isAncestor(a, node int) bool {
	for cur := node; cur >= 0; cur = m.parent[cur] {
		if cur == a {
			return true
		}
	}
	return false
}

func (m *Model) computeDepths() {
	m.depth = make([]int, len(m.nodes))
	queue := slices.Clone(m.roots)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range m.children[cur] {
			m.depth[c] = m.depth[cur] + 1
			m.maxDepth = max(m.maxDepth, m.depth[c])
			queue = append(queue, c)
		}
	}
}

// computeLeaves computes subtree leaf counts bottom-up in reverse BFS order.
func (m *Model) computeLeaves() {
	m.leaves = make([]int, len(m.nodes))
	order := make([]int, 0, len(m.nodes))
	queue := slices.Clone(m.roots)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		order = append(order, cur)
		queue = append(queue, m.children[cur]...)
	}
	for i := range m.leaves {
		m.leaves[i] = 1
	}
	for k := len(order) - 1; k >= 0; k-- {
		cur := order[k]
		if len(m.children[cur]) == 0 {
			continue
		}
		sum := 0
		for _, c := range m.children[cur] {
			sum += m.leaves[c]
		}
		m.leaves[cur] = sum
	}
}

// detectCycles runs a white/gray/black DFS over all edges.
func (m *Model) detectCycles() bool {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(m.nodes))
	var hasCycle bool

	var dfs func(i int)
	dfs = func(i int) {
		color[i] = gray
		for _, next := range m.out[i] {
			switch color[next] {
			case white:
				dfs(next)
			case gray:
				hasCycle = true
			}
		}
		color[i] = black
	}

	for i := range m.nodes {
		if color[i] == white {
			dfs(i)
		}
	}
	return hasCycle
}

func (m *Model) byID(a, b int) int {
	switch {
	case m.nodes[a].ID < m.nodes[b].ID:
		return -1
	case m.nodes[a].ID > m.nodes[b].ID:
		return 1
	}
	return 0
}
