package sim

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

const separationSlack = 1e-6

// Collide keeps body circles apart: after projection every pair satisfies
// distance >= r_i + r_j + Margin. Overlapping pairs are pushed apart along
// their center line, each body moving half the overlap; when one body is
// pinned the other moves the full overlap. Candidate pairs are found with a
// sort-and-sweep along x.
type Collide struct {
	Margin float64

	order []int
}

// Constrain implements [Constraint].
func (c *Collide) Constrain(st *State) {
	c.sweep(st, func(i, j int, d r2.Vec, dist, minDist float64) {
		bi, bj := &st.Bodies[i], &st.Bodies[j]
		if bi.Pinned && bj.Pinned {
			return
		}
		if dist == 0 {
			d = jiggle(i, j)
			dist = r2.Norm(d)
		}
		u := r2.Scale(1/dist, d)
		overlap := minDist - dist + separationSlack
		switch {
		case bi.Pinned:
			bj.Pos = r2.Add(bj.Pos, r2.Scale(overlap, u))
		case bj.Pinned:
			bi.Pos = r2.Sub(bi.Pos, r2.Scale(overlap, u))
		default:
			bi.Pos = r2.Sub(bi.Pos, r2.Scale(overlap/2, u))
			bj.Pos = r2.Add(bj.Pos, r2.Scale(overlap/2, u))
		}
	})
}

// Satisfied implements [Checker]. Pairs of pinned bodies are ignored.
func (c *Collide) Satisfied(st *State) bool {
	ok := true
	c.sweep(st, func(i, j int, _ r2.Vec, _, _ float64) {
		if !st.Bodies[i].Pinned || !st.Bodies[j].Pinned {
			ok = false
		}
	})
	return ok
}

// sweep calls fn for every overlapping pair (i before j in x order), with
// d = pos_j - pos_i.
func (c *Collide) sweep(st *State, fn func(i, j int, d r2.Vec, dist, minDist float64)) {
	n := st.Len()
	if n < 2 {
		return
	}
	c.order = c.order[:0]
	for i := range n {
		c.order = append(c.order, i)
	}
	slices.SortFunc(c.order, func(a, b int) int {
		if v := cmp.Compare(st.Bodies[a].Pos.X, st.Bodies[b].Pos.X); v != 0 {
			return v
		}
		return cmp.Compare(a, b)
	})

	rmax := st.MaxRadius()
	for a, i := range c.order {
		reach := st.Bodies[i].Radius + rmax + c.Margin
		for _, j := range c.order[a+1:] {
			bi, bj := st.Bodies[i], st.Bodies[j]
			if bj.Pos.X-bi.Pos.X > reach {
				break
			}
			minDist := bi.Radius + bj.Radius + c.Margin
			d := r2.Sub(bj.Pos, bi.Pos)
			if l2 := r2.Norm2(d); l2 < minDist*minDist {
				fn(i, j, d, r2.Norm(d), minDist)
			}
		}
	}
}
