package layout

import (
	"context"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/model"
	"github.com/matzehuels/ontoviz/pkg/sim"
)

// seedPositions places every node at a hash-derived point: the angle comes
// from the low 16 bits of Hash32(id) and the radius from the remaining
// entropy, within a disc of radius InitialRadius × √n. Identical ids always
// start at the same point.
func seedPositions(m *model.Model, opts *Options) graph.PositionMap {
	spread := opts.InitialRadius * math.Sqrt(float64(m.Len()))
	out := make(graph.PositionMap, m.Len())
	for i := 0; i < m.Len(); i++ {
		id := m.ID(i)
		h := graph.Hash32(id)
		theta := float64(h&0xffff) / 65536 * 2 * math.Pi
		radius := spread * math.Sqrt(graph.Unit(graph.Mix32(h>>16|h<<16)))
		out[id] = graph.Point{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
	}
	return out
}

// links converts model edges to springs with per-type rest lengths.
// Self-loops are skipped.
func links(m *model.Model, opts *Options) *sim.Links {
	var ls []sim.Link
	for _, e := range m.Edges() {
		s, _ := m.Index(e.Source)
		t, _ := m.Index(e.Target)
		if s == t {
			continue
		}
		ls = append(ls, sim.Link{Source: s, Target: t, Distance: opts.LinkDistance(e.EdgeType)})
	}
	return sim.NewLinks(m.Len(), ls)
}

func connectedMask(m *model.Model) []bool {
	mask := make([]bool, m.Len())
	for i := range mask {
		mask[i] = m.IsConnected(i)
	}
	return mask
}

// newForce builds the ForceDirected simulation: charge, springs, weak
// centering and collision. When at least one node is connected, orphans are
// pinned on a ring around the cluster; otherwise every node floats.
func newForce(m *model.Model, opts *Options, simOpts []sim.Option) *sim.Simulation {
	s := sim.New(m.IDs(), seedPositions(m, opts), simOpts...)
	s.AddForce(sim.ManyBody{Strength: opts.ChargeStrength})
	s.AddForce(links(m, opts))
	s.AddForce(sim.Center{Strength: DefaultCenterStrength})
	s.AddConstraint(&sim.Collide{Margin: opts.CollisionMargin})

	orphans := m.Orphans()
	if len(orphans) > 0 && len(orphans) < m.Len() {
		ring := &ringConstraint{
			orphans:   orphans,
			connected: connectedMask(m),
			gap:       max(opts.OrphanGap, opts.CollisionMargin),
			margin:    opts.CollisionMargin,
		}
		ring.Constrain(s.State())
		s.AddConstraint(ring)
	}
	return s
}

// newHybrid builds the HybridConstrained simulation: the hierarchical ranks
// become targets held by an anisotropic spring (strong along the rank axis,
// weak across it) on top of the ForceDirected forces. Orphans are pinned on
// the grid below the moving cluster.
func newHybrid(m *model.Model, opts *Options, simOpts []sim.Option) *sim.Simulation {
	r := rankConnected(context.Background(), m, opts)

	init := make(graph.PositionMap, m.Len())
	targets := &sim.Target{
		Points:        r.pos,
		Has:           r.has,
		AxisStrength:  opts.AxisStrength,
		CrossStrength: opts.CrossStrength,
	}
	if opts.Direction == LeftRight {
		targets.Axis = sim.AxisX
	}

	var center r2.Vec
	n := 0
	for i, ok := range r.has {
		if ok {
			init[m.ID(i)] = graph.Point{X: r.pos[i].X, Y: r.pos[i].Y}
			center = r2.Add(center, r.pos[i])
			n++
		}
	}
	if n > 0 {
		center = r2.Scale(1/float64(n), center)
	}

	s := sim.New(m.IDs(), init, simOpts...)
	s.AddForce(sim.ManyBody{Strength: opts.ChargeStrength})
	s.AddForce(links(m, opts))
	s.AddForce(sim.Center{Point: center, Strength: DefaultCenterStrength})
	s.AddForce(targets)
	s.AddConstraint(&sim.Collide{Margin: opts.CollisionMargin})

	if orphans := m.Orphans(); len(orphans) > 0 {
		grid := &gridConstraint{orphans: orphans, connected: connectedMask(m), opts: opts}
		grid.Constrain(s.State())
		s.AddConstraint(grid)
	}
	return s
}
