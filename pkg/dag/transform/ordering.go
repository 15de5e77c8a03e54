package transform

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"github.com/matzehuels/ontoviz/pkg/dag"
)

const (
	// DefaultSweeps is the number of barycentric sweeps [OrderRows] performs
	// when asked for a non-positive count.
	DefaultSweeps = 8

	// DefaultMaxWork bounds the node and edge visits one ordering may spend.
	// It keeps a 20000-node schema with long edges within interactive time.
	DefaultMaxWork = 2_000_000

	// maxTransposePasses caps the adjacent-swap passes after each sweep.
	maxTransposePasses = 4
)

// OrderOptions tunes [OrderRowsContext].
type OrderOptions struct {
	// Sweeps is the number of barycentric sweeps. Default: DefaultSweeps.
	Sweeps int
	// MaxWork bounds the node and edge visits spent on sweeps, transpose
	// passes and crossing counts. A step that would exceed it is skipped and
	// the best ordering found so far is returned. Default: DefaultMaxWork.
	MaxWork int
}

// SetDefaults fills zero values with defaults.
func (o *OrderOptions) SetDefaults() {
	if o.Sweeps <= 0 {
		o.Sweeps = DefaultSweeps
	}
	if o.MaxWork <= 0 {
		o.MaxWork = DefaultMaxWork
	}
}

// OrderRows is [OrderRowsContext] without cancellation and with the default
// work bound.
func OrderRows(g *dag.DAG, sweeps int) map[int][]string {
	return OrderRowsContext(context.Background(), g, OrderOptions{Sweeps: sweeps})
}

// OrderRowsContext computes a left-to-right order for every row of g that
// reduces edge crossings between consecutive rows.
//
// Each row starts sorted by node ID. Even sweeps walk the rows top-down and
// sort every row by the mean position of its parents in the row above; odd
// sweeps walk bottom-up using children. Nodes without neighbours in the
// reference row keep their current position as barycenter; ties are broken
// by ID. After each sweep a transpose pass swaps adjacent nodes while that
// strictly reduces local crossings. The ordering with the fewest total
// crossings is returned, the initial ordering winning ties.
//
// Every step is charged against opts.MaxWork before it runs, so the result
// depends only on g and opts. When ctx is done the best ordering so far is
// returned.
//
// Run [AssignLayers] and [Subdivide] first; edges that skip rows are ignored
// by the crossing count.
func OrderRowsContext(ctx context.Context, g *dag.DAG, opts OrderOptions) map[int][]string {
	opts.SetDefaults()

	rows := g.RowIDs()
	orders := make(map[int][]string, len(rows))
	for _, r := range rows {
		ids := dag.NodeIDs(g.NodesInRow(r))
		slices.Sort(ids)
		orders[r] = ids
	}

	b := budget{left: opts.MaxWork, step: g.NodeCount() + g.EdgeCount()}
	best := orders
	if !b.spend(1) {
		return best
	}
	best = cloneOrders(orders)
	bestCrossings := dag.CountCrossings(g, orders)

	for i := 0; i < opts.Sweeps && bestCrossings > 0; i++ {
		// a sweep and its crossing count
		if ctx.Err() != nil || !b.spend(2) {
			break
		}
		if i%2 == 0 {
			for k := 1; k < len(rows); k++ {
				orders[rows[k]] = byBarycenter(g, orders[rows[k]], dag.PosMap(orders[rows[k-1]]), true)
			}
		} else {
			for k := len(rows) - 2; k >= 0; k-- {
				orders[rows[k]] = byBarycenter(g, orders[rows[k]], dag.PosMap(orders[rows[k+1]]), false)
			}
		}
		transpose(ctx, g, rows, orders, &b)

		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			best = cloneOrders(orders)
			bestCrossings = c
		}
	}
	return best
}

// budget counts whole-graph passes against a visit bound.
type budget struct {
	left int
	step int // visits per pass over all nodes and edges
}

func (b *budget) spend(passes int) bool {
	cost := passes * max(b.step, 1)
	if cost > b.left {
		return false
	}
	b.left -= cost
	return true
}

func byBarycenter(g *dag.DAG, row []string, adjPos map[string]int, useParents bool) []string {
	type entry struct {
		id   string
		bary float64
	}

	entries := make([]entry, len(row))
	for i, id := range row {
		var nbrs []string
		if useParents {
			nbrs = g.Parents(id)
		} else {
			nbrs = g.Children(id)
		}

		sum, n := 0, 0
		for _, nb := range nbrs {
			if p, ok := adjPos[nb]; ok {
				sum += p
				n++
			}
		}
		bary := float64(i)
		if n > 0 {
			bary = float64(sum) / float64(n)
		}
		entries[i] = entry{id, bary}
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(a.bary, b.bary); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}

// transpose swaps adjacent nodes of each row while the swap strictly reduces
// the crossings with both neighbouring rows.
func transpose(ctx context.Context, g *dag.DAG, rows []int, orders map[int][]string, b *budget) {
	for improved, pass := true, 0; improved && pass < maxTransposePasses; pass++ {
		if ctx.Err() != nil || !b.spend(1) {
			return
		}
		improved = false
		for k, r := range rows {
			row := orders[r]
			var above, below map[string]int
			if k > 0 {
				above = dag.PosMap(orders[rows[k-1]])
			}
			if k < len(rows)-1 {
				below = dag.PosMap(orders[rows[k+1]])
			}

			for j := 0; j+1 < len(row); j++ {
				l, rt := row[j], row[j+1]
				before := dag.CountPairCrossingsWithPos(g, l, rt, above, true) +
					dag.CountPairCrossingsWithPos(g, l, rt, below, false)
				after := dag.CountPairCrossingsWithPos(g, rt, l, above, true) +
					dag.CountPairCrossingsWithPos(g, rt, l, below, false)
				if after < before {
					row[j], row[j+1] = rt, l
					improved = true
				}
			}
		}
	}
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range maps.All(orders) {
		out[r] = slices.Clone(ids)
	}
	return out
}
