package dag

import (
	"maps"
	"slices"
)

// CountCrossings sums [CountLayerCrossings] over every pair of consecutive
// rows in orders (row → ids left to right). Missing rows count as empty.
//
//	orders := map[int][]string{
//	    0: {"Thing"},
//	    1: {"Agent", "Place", "Artifact"},
//	}
//	n := dag.CountCrossings(g, orders)
//
// The ordering sweeps keep the candidate with the smallest count.
func CountCrossings(g *DAG, orders map[int][]string) int {
	rows := slices.Sorted(maps.Keys(orders))
	crossings := 0
	for i := 0; i < len(rows)-1; i++ {
		r := rows[i]
		crossings += CountLayerCrossings(g, orders[r], orders[r+1])
	}
	return crossings
}

// CountLayerCrossings counts crossings between the edges joining upper to
// lower. Edges (u1,v1) and (u2,v2) cross when u1 is left of u2 and v1 is
// right of v2, so sorting edges by upper position turns the count into
// inversions of lower positions, tallied with a Fenwick tree in O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, nodeID := range upper {
		for _, child := range g.Children(nodeID) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	tree := make([]int, len(lower)+1)
	crossings := 0
	for seen, e := range edges {
		atOrLeft := 0
		for q := e.lower + 1; q > 0; q -= q & -q {
			atOrLeft += tree[q]
		}
		crossings += seen - atOrLeft
		for q := e.lower + 1; q < len(tree); q += q & -q {
			tree[q]++
		}
	}
	return crossings
}

// CountPairCrossings returns the crossings between the edges of left and
// right, two neighbours in a row, when left stays left of right. Edges go
// to the row above when useParents is set, below otherwise; adjOrder is
// that row left to right. The transpose pass swaps a pair when the swapped
// count is lower.
func CountPairCrossings(g *DAG, left, right string, adjOrder []string, useParents bool) int {
	return CountPairCrossingsWithPos(g, left, right, PosMap(adjOrder), useParents)
}

// CountPairCrossingsWithPos is [CountPairCrossings] with the adjacent row
// given as id → position. Ids missing from adjPos are ignored.
func CountPairCrossingsWithPos(g *DAG, left, right string, adjPos map[string]int, useParents bool) int {
	var lnbr, rnbr []string
	if useParents {
		lnbr = g.Parents(left)
		rnbr = g.Parents(right)
	} else {
		lnbr = g.Children(left)
		rnbr = g.Children(right)
	}

	crossings := 0
	for _, ln := range lnbr {
		lp, ok := adjPos[ln]
		if !ok {
			continue
		}
		for _, rn := range rnbr {
			if rp, ok := adjPos[rn]; ok && lp > rp {
				crossings++
			}
		}
	}
	return crossings
}
