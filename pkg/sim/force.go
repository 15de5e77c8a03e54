package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Force contributes velocity changes. Apply reads body positions from st and
// adds its contribution for body i to dv[i]. It must not modify st.
type Force interface {
	Apply(st *State, alpha float64, dv []r2.Vec)
}

// Constraint projects body positions after integration. Constraints run in
// the order they were added and may move bodies directly.
type Constraint interface {
	Constrain(st *State)
}

// Checker is implemented by constraints that can tell whether the current
// positions already satisfy them. The settle pass stops once every checker
// is satisfied.
type Checker interface {
	Satisfied(st *State) bool
}

// ForceFunc adapts a function to the [Force] interface.
type ForceFunc func(st *State, alpha float64, dv []r2.Vec)

// Apply calls f.
func (f ForceFunc) Apply(st *State, alpha float64, dv []r2.Vec) { f(st, alpha, dv) }

// ConstraintFunc adapts a function to the [Constraint] interface.
type ConstraintFunc func(st *State)

// Constrain calls f.
func (f ConstraintFunc) Constrain(st *State) { f(st) }

// =============================================================================
// Centering
// =============================================================================

// Center pulls every body toward a point with a spring of the given
// strength on each axis independently.
type Center struct {
	Point    r2.Vec
	Strength float64
}

// Apply implements [Force].
func (c Center) Apply(st *State, alpha float64, dv []r2.Vec) {
	k := c.Strength * alpha
	for i, b := range st.Bodies {
		dv[i].X += (c.Point.X - b.Pos.X) * k
		dv[i].Y += (c.Point.Y - b.Pos.Y) * k
	}
}

// =============================================================================
// Targets
// =============================================================================

// Axis selects a coordinate axis.
type Axis int

const (
	AxisY Axis = iota
	AxisX
)

// Target pulls bodies toward per-body target points with anisotropic
// strength: AxisStrength along Axis and CrossStrength along the other axis.
// Bodies whose Has entry is false are not affected.
type Target struct {
	Points        []r2.Vec
	Has           []bool
	Axis          Axis
	AxisStrength  float64
	CrossStrength float64
}

// Apply implements [Force].
func (t *Target) Apply(st *State, alpha float64, dv []r2.Vec) {
	kx, ky := t.CrossStrength*alpha, t.AxisStrength*alpha
	if t.Axis == AxisX {
		kx, ky = ky, kx
	}
	for i, b := range st.Bodies {
		if i >= len(t.Has) || !t.Has[i] {
			continue
		}
		dv[i].X += (t.Points[i].X - b.Pos.X) * kx
		dv[i].Y += (t.Points[i].Y - b.Pos.Y) * ky
	}
}

// =============================================================================
// Radial
// =============================================================================

// Radial pulls every body toward a circle of its own radius around Center.
// A negative radius leaves the body unaffected.
type Radial struct {
	Center   r2.Vec
	Radii    []float64
	Strength float64
}

// Apply implements [Force].
func (r *Radial) Apply(st *State, alpha float64, dv []r2.Vec) {
	for i, b := range st.Bodies {
		if i >= len(r.Radii) || r.Radii[i] < 0 {
			continue
		}
		d := r2.Sub(b.Pos, r.Center)
		dist := r2.Norm(d)
		if dist == 0 {
			d = jiggle(i, -1)
			dist = r2.Norm(d)
		}
		k := (r.Radii[i] - dist) * r.Strength * alpha / dist
		dv[i] = r2.Add(dv[i], r2.Scale(k, d))
	}
}

// =============================================================================
// Links
// =============================================================================

// Link is a spring between two bodies with a rest length.
type Link struct {
	Source   int
	Target   int
	Distance float64
}

// Links applies spring forces along links. Strength defaults to
// 1/min(degree(source), degree(target)) and the correction is split by the
// degree bias, so hubs move less than leaves.
type Links struct {
	links    []Link
	strength []float64
	bias     []float64
}

// NewLinks prepares a link force over n bodies. Links referring to a body
// outside [0, n) or connecting a body to itself are ignored.
func NewLinks(n int, links []Link) *Links {
	count := make([]int, n)
	valid := make([]Link, 0, len(links))
	for _, l := range links {
		if l.Source < 0 || l.Source >= n || l.Target < 0 || l.Target >= n || l.Source == l.Target {
			continue
		}
		valid = append(valid, l)
		count[l.Source]++
		count[l.Target]++
	}

	f := &Links{
		links:    valid,
		strength: make([]float64, len(valid)),
		bias:     make([]float64, len(valid)),
	}
	for k, l := range valid {
		cs, ct := count[l.Source], count[l.Target]
		f.strength[k] = 1 / float64(min(cs, ct))
		f.bias[k] = float64(cs) / float64(cs+ct)
	}
	return f
}

// Len returns the number of active links.
func (f *Links) Len() int { return len(f.links) }

// Apply implements [Force].
func (f *Links) Apply(st *State, alpha float64, dv []r2.Vec) {
	for k, l := range f.links {
		d := r2.Sub(st.Bodies[l.Target].Pos, st.Bodies[l.Source].Pos)
		dist := r2.Norm(d)
		if dist == 0 {
			d = jiggle(l.Source, l.Target)
			dist = r2.Norm(d)
		}
		c := (dist - l.Distance) / dist * alpha * f.strength[k]
		d = r2.Scale(c, d)
		b := f.bias[k]
		dv[l.Target] = r2.Sub(dv[l.Target], r2.Scale(b, d))
		dv[l.Source] = r2.Add(dv[l.Source], r2.Scale(1-b, d))
	}
}

// =============================================================================
// Many-Body
// =============================================================================

const (
	// DefaultTheta is the Barnes–Hut opening criterion.
	DefaultTheta = 0.9
	// DefaultExactBelow is the body count below which forces are summed exactly.
	DefaultExactBelow = 200

	distanceMin2 = 1.0
)

// ManyBody applies a charge between every pair of bodies. A negative
// Strength repels. Below ExactBelow bodies every pair is summed; above it a
// Barnes–Hut quadtree approximates distant clusters.
type ManyBody struct {
	Strength   float64
	Theta      float64
	ExactBelow int
}

// Apply implements [Force].
func (m ManyBody) Apply(st *State, alpha float64, dv []r2.Vec) {
	n := st.Len()
	if n < 2 {
		return
	}
	exact := m.ExactBelow
	if exact <= 0 {
		exact = DefaultExactBelow
	}
	if n < exact {
		m.applyExact(st, alpha, dv)
		return
	}
	theta := m.Theta
	if theta <= 0 {
		theta = DefaultTheta
	}
	tree := buildQuadtree(st)
	for i := range st.Bodies {
		tree.accumulate(st, i, m.Strength*alpha, theta*theta, &dv[i])
	}
}

func (m ManyBody) applyExact(st *State, alpha float64, dv []r2.Vec) {
	k := m.Strength * alpha
	for i := range st.Bodies {
		pi := st.Bodies[i].Pos
		for j := range st.Bodies {
			if i == j {
				continue
			}
			dv[i] = r2.Add(dv[i], charge(r2.Sub(st.Bodies[j].Pos, pi), i, j, k))
		}
	}
}

// charge returns the velocity change for a body offset d from a source of
// weight k (strength × alpha × mass).
func charge(d r2.Vec, i, j int, k float64) r2.Vec {
	l := r2.Norm2(d)
	if l == 0 {
		d = jiggle(i, j)
		l = r2.Norm2(d)
	}
	if l < distanceMin2 {
		l = math.Sqrt(distanceMin2 * l)
	}
	return r2.Scale(k/l, d)
}
