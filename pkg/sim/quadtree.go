package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const maxQuadDepth = 32

// quad is a Barnes–Hut cell. Leaves hold body indices; internal cells hold
// up to four children. Every cell caches its body count and center of mass.
type quad struct {
	size     float64
	children [4]*quad
	bodies   []int
	count    int
	com      r2.Vec
}

func buildQuadtree(st *State) *quad {
	idx := make([]int, st.Len())
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, b := range st.Bodies {
		idx[i] = i
		minX, minY = min(minX, b.Pos.X), min(minY, b.Pos.Y)
		maxX, maxY = max(maxX, b.Pos.X), max(maxY, b.Pos.Y)
	}
	size := max(maxX-minX, maxY-minY, 1)
	return buildQuad(st, idx, minX, minY, size, 0)
}

func buildQuad(st *State, idx []int, x0, y0, size float64, depth int) *quad {
	q := &quad{size: size, count: len(idx)}
	for _, i := range idx {
		q.com = r2.Add(q.com, st.Bodies[i].Pos)
	}
	q.com = r2.Scale(1/float64(len(idx)), q.com)

	if len(idx) == 1 || depth >= maxQuadDepth {
		q.bodies = idx
		return q
	}

	half := size / 2
	var parts [4][]int
	for _, i := range idx {
		p := st.Bodies[i].Pos
		k := 0
		if p.X >= x0+half {
			k |= 1
		}
		if p.Y >= y0+half {
			k |= 2
		}
		parts[k] = append(parts[k], i)
	}
	for k, part := range parts {
		if len(part) == 0 {
			continue
		}
		cx, cy := x0, y0
		if k&1 != 0 {
			cx += half
		}
		if k&2 != 0 {
			cy += half
		}
		q.children[k] = buildQuad(st, part, cx, cy, half, depth+1)
	}
	return q
}

// accumulate adds the charge acting on body i to out. k is strength × alpha.
func (q *quad) accumulate(st *State, i int, k, theta2 float64, out *r2.Vec) {
	pi := st.Bodies[i].Pos
	if q.bodies != nil {
		for _, j := range q.bodies {
			if j != i {
				*out = r2.Add(*out, charge(r2.Sub(st.Bodies[j].Pos, pi), i, j, k))
			}
		}
		return
	}

	d := r2.Sub(q.com, pi)
	if l := r2.Norm2(d); q.size*q.size/theta2 < l {
		*out = r2.Add(*out, charge(d, i, -1, k*float64(q.count)))
		return
	}
	for _, c := range q.children {
		if c != nil {
			c.accumulate(st, i, k, theta2, out)
		}
	}
}
