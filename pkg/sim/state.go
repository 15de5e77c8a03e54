package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/ontoviz/pkg/graph"
)

// Body is a simulated point with a collision radius.
type Body struct {
	Pos    r2.Vec
	Vel    r2.Vec
	Radius float64
	Pinned bool
}

// State is the body arena shared by forces and constraints.
type State struct {
	ids    []string
	index  map[string]int
	Bodies []Body
}

func newState(ids []string) *State {
	st := &State{
		ids:    make([]string, len(ids)),
		index:  make(map[string]int, len(ids)),
		Bodies: make([]Body, len(ids)),
	}
	copy(st.ids, ids)
	for i, id := range st.ids {
		st.index[id] = i
	}
	return st
}

// Len returns the number of bodies.
func (st *State) Len() int { return len(st.Bodies) }

// ID returns the id of body i.
func (st *State) ID(i int) string { return st.ids[i] }

// Index returns the index of the body with the given id.
func (st *State) Index(id string) (int, bool) {
	i, ok := st.index[id]
	return i, ok
}

// MaxRadius returns the largest body radius.
func (st *State) MaxRadius() float64 {
	r := 0.0
	for _, b := range st.Bodies {
		r = max(r, b.Radius)
	}
	return r
}

// Bounds returns the bounding box of the selected bodies' circles. The
// second result is false when no body matches.
func (st *State) Bounds(include func(i int) bool) (graph.Rect, bool) {
	rect := graph.Rect{
		Min: graph.Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: graph.Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	found := false
	for i, b := range st.Bodies {
		if include != nil && !include(i) {
			continue
		}
		found = true
		rect.Min.X = min(rect.Min.X, b.Pos.X-b.Radius)
		rect.Min.Y = min(rect.Min.Y, b.Pos.Y-b.Radius)
		rect.Max.X = max(rect.Max.X, b.Pos.X+b.Radius)
		rect.Max.Y = max(rect.Max.Y, b.Pos.Y+b.Radius)
	}
	if !found {
		return graph.Rect{}, false
	}
	return rect, true
}

// Positions copies body positions into a fresh map.
func (st *State) Positions() graph.PositionMap {
	out := make(graph.PositionMap, len(st.Bodies))
	for i, b := range st.Bodies {
		out[st.ids[i]] = graph.Point{X: b.Pos.X, Y: b.Pos.Y}
	}
	return out
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// jiggle returns a tiny deterministic direction for the pair (i, j) so that
// coincident bodies separate. jiggle(j, i) == -jiggle(i, j).
func jiggle(i, j int) r2.Vec {
	a, b, sign := i, j, 1.0
	if a > b {
		a, b, sign = b, a, -1.0
	}
	h := graph.Mix32(uint32(a)*0x9e3779b1 ^ uint32(b))
	theta := graph.Unit(h) * 2 * math.Pi
	return r2.Vec{X: sign * 1e-6 * math.Cos(theta), Y: sign * 1e-6 * math.Sin(theta)}
}
