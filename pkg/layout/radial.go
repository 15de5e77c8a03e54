package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/model"
	"github.com/matzehuels/ontoviz/pkg/sim"
)

// radialTargets assigns every connected node an angle and a ring radius.
// Roots split the full circle in proportion to their subtree leaf counts and
// every child splits its parent's slice the same way, so siblings never
// interleave. A node sits at the center of its slice, on ring depth ×
// RingSpacing, or (depth + 1) × RingSpacing when there are several roots so
// that no two roots share the origin. Rings are widened by [ringRadii].
// Orphans get radius -1.
func radialTargets(m *model.Model, opts *Options) (pos []r2.Vec, radii []float64) {
	n := m.Len()
	pos = make([]r2.Vec, n)
	radii = make([]float64, n)
	for i := range radii {
		radii[i] = -1
	}

	roots := m.Roots()
	ringOffset := 0
	if len(roots) > 1 {
		ringOffset = 1
	}
	rings := ringRadii(m, opts, ringOffset)

	var place func(i int, start, width float64)
	place = func(i int, start, width float64) {
		radius := rings[m.Depth(i)]
		theta := start + width/2
		radii[i] = radius
		pos[i] = r2.Vec{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}

		total := 0
		for _, c := range m.Children(i) {
			total += m.SubtreeSize(c)
		}
		for _, c := range m.Children(i) {
			w := width * float64(m.SubtreeSize(c)) / float64(total)
			place(c, start, w)
			start += w
		}
	}

	total := 0
	for _, r := range roots {
		total += m.SubtreeSize(r)
	}
	start := -math.Pi / 2
	for _, r := range roots {
		w := 2 * math.Pi * float64(m.SubtreeSize(r)) / float64(total)
		place(r, start, w)
		start += w
	}
	return pos, radii
}

// ringRadii returns the radius of every depth ring. A ring sits (depth +
// offset) × RingSpacing from the origin, further out when its circumference
// cannot hold the collision diameters of its nodes, and always at least
// RingSpacing beyond the ring inside it.
func ringRadii(m *model.Model, opts *Options, offset int) []float64 {
	counts := make([]int, m.MaxDepth()+1)
	for _, i := range m.Connected() {
		if d := m.Depth(i); d < len(counts) {
			counts[d]++
		}
	}

	slot := 2*opts.NodeRadius + opts.CollisionMargin
	rings := make([]float64, len(counts))
	for d, n := range counts {
		r := float64(d+offset) * opts.RingSpacing
		if n > 1 {
			r = max(r, float64(n)*slot/(2*math.Pi))
		}
		if d > 0 {
			r = max(r, rings[d-1]+opts.RingSpacing)
		}
		rings[d] = r
	}
	return rings
}

// newRadial builds the Radial simulation: nodes start at their assigned
// ring positions and are relaxed by charge, springs and collision while a
// radial force holds them on their rings. Orphans are pinned on a ring
// beyond the deepest one.
func newRadial(m *model.Model, opts *Options, simOpts []sim.Option) *sim.Simulation {
	pos, radii := radialTargets(m, opts)

	init := make(graph.PositionMap, m.Len())
	deepest := 0.0
	for i, r := range radii {
		if r >= 0 {
			init[m.ID(i)] = graph.Point{X: pos[i].X, Y: pos[i].Y}
			deepest = max(deepest, r)
		}
	}

	s := sim.New(m.IDs(), init, simOpts...)
	s.AddForce(sim.ManyBody{Strength: opts.ChargeStrength})
	s.AddForce(links(m, opts))
	s.AddForce(&sim.Radial{Radii: radii, Strength: opts.RadialStrength})
	s.AddConstraint(&sim.Collide{Margin: opts.CollisionMargin})

	if orphans := m.Orphans(); len(orphans) > 0 {
		minRadius := deepest + opts.RingSpacing
		if len(orphans) == m.Len() {
			minRadius = 0
		}
		ring := &ringConstraint{
			orphans:   orphans,
			connected: connectedMask(m),
			gap:       max(opts.OrphanGap, opts.CollisionMargin),
			margin:    opts.CollisionMargin,
			minRadius: minRadius,
			fixed:     true,
		}
		ring.Constrain(s.State())
		s.AddConstraint(ring)
	}
	return s
}
