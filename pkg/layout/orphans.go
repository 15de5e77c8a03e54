package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/sim"
)

// gridAnchor returns the center x of the orphan grid and the y of its first
// row: OrphanGap below box, or the origin when nothing is connected.
func gridAnchor(box graph.Rect, connected bool, opts *Options) r2.Vec {
	if !connected {
		return r2.Vec{}
	}
	gap := max(opts.OrphanGap, opts.CollisionMargin)
	return r2.Vec{
		X: box.Center().X,
		Y: box.Max.Y + gap + max(opts.NodeHeight/2, opts.NodeRadius),
	}
}

// orphanGrid lays out n cells in rows centered on anchor.X, starting at
// anchor.Y. It uses ⌈√n⌉ columns, or more when the grid still fits within
// width.
func orphanGrid(n int, anchor r2.Vec, width float64, opts *Options) []r2.Vec {
	if n == 0 {
		return nil
	}
	cellW, cellH := opts.cell()
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if fit := int(math.Floor((width + opts.NodeSep) / cellW)); fit > cols {
		cols = fit
	}
	cols = min(cols, n)

	out := make([]r2.Vec, n)
	left := anchor.X - float64(cols)*cellW/2 + cellW/2
	for k := range out {
		row, col := k/cols, k%cols
		out[k] = r2.Vec{X: left + float64(col)*cellW, Y: anchor.Y + float64(row)*cellH}
	}
	return out
}

// gridConstraint pins orphans on a grid below the current extent of the
// connected bodies. It is recomputed on every step.
type gridConstraint struct {
	orphans   []int
	connected []bool
	opts      *Options
}

func (c *gridConstraint) Constrain(st *sim.State) {
	box, ok := st.Bounds(func(i int) bool { return c.connected[i] })
	cells := orphanGrid(len(c.orphans), gridAnchor(box, ok, c.opts), box.Width(), c.opts)
	for k, i := range c.orphans {
		pin(st, i, cells[k])
	}
}

// ringConstraint pins orphans evenly on a circle around the connected
// bodies. The radius clears the cluster extent by gap, is at least
// minRadius, and leaves room for every orphan circle. The ring is centered on
// the connected centroid unless fixed.
type ringConstraint struct {
	orphans   []int
	connected []bool
	gap       float64
	margin    float64
	minRadius float64
	fixed     bool
	center    r2.Vec
}

func (c *ringConstraint) Constrain(st *sim.State) {
	n := len(c.orphans)
	if n == 0 {
		return
	}

	center := c.center
	if !c.fixed {
		center = centroid(st, c.connected)
	}

	extent := 0.0
	for i, b := range st.Bodies {
		if c.connected[i] {
			extent = max(extent, r2.Norm(r2.Sub(b.Pos, center))+b.Radius)
		}
	}
	r := 0.0
	for _, i := range c.orphans {
		r = max(r, st.Bodies[i].Radius)
	}

	radius := max(extent+c.gap+r, c.minRadius)
	if n >= 2 {
		radius = max(radius, (2*r+c.margin)/(2*math.Sin(math.Pi/float64(n))))
	}

	for k, i := range c.orphans {
		theta := -math.Pi/2 + 2*math.Pi*float64(k)/float64(n)
		pin(st, i, r2.Add(center, r2.Vec{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}))
	}
}

func centroid(st *sim.State, include []bool) r2.Vec {
	var sum r2.Vec
	n := 0
	for i, b := range st.Bodies {
		if include[i] {
			sum = r2.Add(sum, b.Pos)
			n++
		}
	}
	if n == 0 {
		return r2.Vec{}
	}
	return r2.Scale(1/float64(n), sum)
}

func pin(st *sim.State, i int, p r2.Vec) {
	b := &st.Bodies[i]
	b.Pos, b.Vel, b.Pinned = p, r2.Vec{}, true
}
