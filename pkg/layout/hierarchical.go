package layout

import (
	"context"
	"math"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/ontoviz/pkg/dag"
	"github.com/matzehuels/ontoviz/pkg/dag/transform"
	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/model"
)

// reachBudget bounds the node visits buildRankGraph spends on cycle checks.
const reachBudget = 1 << 20

// maxVirtual bounds the virtual nodes subdivision may add. Past it, long
// edges stay unsplit and crossing reduction only sees adjacent-rank edges.
const maxVirtual = 200_000

// virtualCount returns the number of virtual nodes [transform.Subdivide]
// would add to g.
func virtualCount(g *dag.DAG) int {
	n := 0
	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		n += max(dst.Row-src.Row-1, 0)
	}
	return n
}

// ranking is the result of the hierarchical placement of connected nodes.
type ranking struct {
	pos  []r2.Vec // by model index, valid where has is true
	has  []bool
	rank []int
	box  graph.Rect // union of node boxes; zero when no node is ranked
}

// buildRankGraph converts the connected part of m into a DAG whose edges
// point from earlier to later ranks. Primary tree edges are always kept
// (parent → child). Secondary hierarchy edges and then every other edge
// (source → target) are added unless they would close a cycle; the few
// cycles that remain are broken by DFS back-edge removal.
//
// The cycle checks share a budget of reachBudget node visits. Once it is
// spent, edges are added unchecked and left to the back-edge removal.
func buildRankGraph(m *model.Model, logger *log.Logger) *dag.DAG {
	budget := reachBudget
	g := dag.New()
	for _, i := range m.Connected() {
		_ = g.AddNode(dag.Node{ID: m.ID(i)})
	}

	add := func(from, to string, force bool) {
		if from == to || g.HasEdge(from, to) {
			return
		}
		if !force && budget > 0 {
			closes, visited := g.ReachableWithin(to, from, budget)
			budget -= visited
			if closes {
				return
			}
		}
		_ = g.AddEdge(dag.Edge{From: from, To: to})
	}

	for i := 0; i < m.Len(); i++ {
		if p := m.Parent(i); p >= 0 {
			add(m.ID(p), m.ID(i), true)
		}
	}
	for _, e := range m.Edges() {
		if e.EdgeType.IsHierarchy() {
			add(e.Target, e.Source, false)
		}
	}
	for _, e := range m.Edges() {
		if !e.EdgeType.IsHierarchy() {
			add(e.Source, e.Target, false)
		}
	}

	if budget <= 0 {
		logger.Debug("cycle check budget spent", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	}
	for _, e := range transform.BreakCycles(g) {
		logger.Debug("ignoring back edge for ranking", "from", e.From, "to", e.To)
	}
	return g
}

// rankConnected places connected nodes on ranks. Along the rank axis a node
// sits at rank × (extent + RankSep); across it nodes are spaced by extent +
// NodeSep and every rank is centered on zero. Cancelling ctx cuts crossing
// reduction short; every connected node is still placed.
func rankConnected(ctx context.Context, m *model.Model, opts *Options) ranking {
	n := m.Len()
	r := ranking{
		pos:  make([]r2.Vec, n),
		has:  make([]bool, n),
		rank: make([]int, n),
	}

	g := buildRankGraph(m, opts.Logger)
	if g.NodeCount() == 0 {
		return r
	}
	transform.AssignLayers(g)
	if v := virtualCount(g); v <= maxVirtual {
		transform.Subdivide(g)
	} else {
		opts.Logger.Debug("skipping edge subdivision", "virtual_nodes", v, "limit", maxVirtual)
	}
	orders := transform.OrderRowsContext(ctx, g, transform.OrderOptions{MaxWork: opts.OrderWork})

	rankStep, crossStep := opts.NodeHeight+opts.RankSep, opts.NodeWidth+opts.NodeSep
	if opts.Direction == LeftRight {
		rankStep, crossStep = opts.NodeWidth+opts.RankSep, opts.NodeHeight+opts.NodeSep
	}

	r.box = graph.Rect{
		Min: graph.Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: graph.Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for row, ids := range orders {
		var real []string
		for _, id := range ids {
			if nd, _ := g.Node(id); !nd.IsVirtual() {
				real = append(real, id)
			}
		}
		offset := float64(len(real)-1) / 2
		for slot, id := range real {
			i, _ := m.Index(id)
			along := float64(row) * rankStep
			across := (float64(slot) - offset) * crossStep
			p := r2.Vec{X: across, Y: along}
			if opts.Direction == LeftRight {
				p = r2.Vec{X: along, Y: across}
			}
			r.pos[i], r.has[i], r.rank[i] = p, true, row

			r.box.Min.X = min(r.box.Min.X, p.X-opts.NodeWidth/2)
			r.box.Min.Y = min(r.box.Min.Y, p.Y-opts.NodeHeight/2)
			r.box.Max.X = max(r.box.Max.X, p.X+opts.NodeWidth/2)
			r.box.Max.Y = max(r.box.Max.Y, p.Y+opts.NodeHeight/2)
		}
	}
	return r
}

// hierarchical computes the full static layout: ranked connected nodes plus
// the orphan grid below them.
func hierarchical(ctx context.Context, m *model.Model, opts *Options) graph.PositionMap {
	r := rankConnected(ctx, m, opts)
	out := make(graph.PositionMap, m.Len())
	for i, ok := range r.has {
		if ok {
			out[m.ID(i)] = graph.Point{X: r.pos[i].X, Y: r.pos[i].Y}
		}
	}

	orphans := m.Orphans()
	anchor := gridAnchor(r.box, len(orphans) < m.Len(), opts)
	for k, p := range orphanGrid(len(orphans), anchor, r.box.Width(), opts) {
		out[m.ID(orphans[k])] = graph.Point{X: p.X, Y: p.Y}
	}
	return out
}
