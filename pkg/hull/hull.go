package hull

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/ontoviz/pkg/graph"
)

// Kind is the geometric form of a hull.
type Kind string

const (
	KindCircle  Kind = "circle"
	KindEllipse Kind = "ellipse"
	KindPath    Kind = "path"
)

// LabelOffset is the distance between a hull's top padding and its label.
const LabelOffset = 8

// ellipseSlack keeps the padded box corners strictly inside the ellipse.
const ellipseSlack = 1e-6

// Size is the width and height of a node box.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// UniformSizes returns the same size for every id.
func UniformSizes(ids []string, w, h float64) map[string]Size {
	out := make(map[string]Size, len(ids))
	for _, id := range ids {
		out[id] = Size{W: w, H: h}
	}
	return out
}

// Shape is the enclosing outline of one group.
type Shape struct {
	GroupID string `json:"group_id"`
	Kind    Kind   `json:"kind"`
	Color   string `json:"color"`
	Fill    string `json:"fill"`

	// Center and Radius describe circles; Center, RX and RY ellipses.
	Center graph.Point `json:"center"`
	Radius float64     `json:"radius,omitempty"`
	RX     float64     `json:"rx,omitempty"`
	RY     float64     `json:"ry,omitempty"`

	// Vertices is the convex hull the spline passes through (paths only).
	Vertices []graph.Point `json:"vertices,omitempty"`
	// Path is SVG path data for the outline, for every kind.
	Path string `json:"path"`

	Bounds      graph.Rect  `json:"bounds"`
	LabelAnchor graph.Point `json:"label_anchor"`
	Members     []string    `json:"members"`

	segs []segment
}

// Compute returns one shape per group that has at least one member in
// positions, sorted by group id. Members missing from sizes are treated as
// zero-sized points; members missing from positions are ignored. Inputs are
// not modified.
func Compute(positions graph.PositionMap, sizes map[string]Size, groups map[string][]string, padding float64) []Shape {
	ids := make([]string, 0, len(groups))
	for g := range groups {
		ids = append(ids, g)
	}
	slices.Sort(ids)

	var out []Shape
	for _, g := range ids {
		var members []string
		for _, id := range groups[g] {
			if p, ok := positions[id]; ok && p.IsFinite() && !slices.Contains(members, id) {
				members = append(members, id)
			}
		}
		if len(members) == 0 {
			continue
		}
		out = append(out, shapeFor(g, members, positions, sizes, padding))
	}
	return out
}

// box is a padded node box given by center and half extents.
type box struct {
	c      r2.Vec
	hw, hh float64
}

func shapeFor(group string, members []string, positions graph.PositionMap, sizes map[string]Size, padding float64) Shape {
	boxes := make([]box, len(members))
	for i, id := range members {
		p, sz := positions[id], sizes[id]
		boxes[i] = box{
			c:  r2.Vec{X: p.X, Y: p.Y},
			hw: sz.W/2 + padding,
			hh: sz.H/2 + padding,
		}
	}

	color := Color(group)
	s := Shape{
		GroupID: group,
		Color:   color,
		Fill:    Fill(color),
		Members: members,
	}

	switch len(boxes) {
	case 1:
		b := boxes[0]
		r := math.Hypot(b.hw, b.hh)
		s.Kind = KindCircle
		s.Center = point(b.c)
		s.Radius = r
		s.Path = circlePath(b.c, r, r)
		s.Bounds = rect(b.c, r, r)
	case 2:
		bb := unionBox(boxes)
		rx := max(bb.hw*math.Sqrt2, ellipseSlack) + ellipseSlack
		ry := max(bb.hh*math.Sqrt2, ellipseSlack) + ellipseSlack
		s.Kind = KindEllipse
		s.Center = point(bb.c)
		s.RX, s.RY = rx, ry
		s.Path = circlePath(bb.c, rx, ry)
		s.Bounds = rect(bb.c, rx, ry)
	default:
		var corners []r2.Vec
		for _, b := range boxes {
			corners = append(corners,
				r2.Vec{X: b.c.X - b.hw, Y: b.c.Y - b.hh},
				r2.Vec{X: b.c.X + b.hw, Y: b.c.Y - b.hh},
				r2.Vec{X: b.c.X + b.hw, Y: b.c.Y + b.hh},
				r2.Vec{X: b.c.X - b.hw, Y: b.c.Y + b.hh},
			)
		}
		hull := convexHull(corners)
		if len(hull) < 3 {
			// Degenerate (zero-area) input: enclose its bounding box.
			bb := unionBox(boxes)
			hw, hh := bb.hw+ellipseSlack, bb.hh+ellipseSlack
			hull = []r2.Vec{
				{X: bb.c.X - hw, Y: bb.c.Y - hh},
				{X: bb.c.X + hw, Y: bb.c.Y - hh},
				{X: bb.c.X + hw, Y: bb.c.Y + hh},
				{X: bb.c.X - hw, Y: bb.c.Y + hh},
			}
		}
		s.segs = catmullRom(hull)
		s.Kind = KindPath
		s.Vertices = make([]graph.Point, len(hull))
		var sum r2.Vec
		for i, v := range hull {
			s.Vertices[i] = point(v)
			sum = r2.Add(sum, v)
		}
		s.Center = point(r2.Scale(1/float64(len(hull)), sum))
		s.Path = pathData(s.segs)
		s.Bounds = segmentBounds(s.segs)
	}

	s.LabelAnchor = graph.Point{
		X: s.Bounds.Center().X,
		Y: s.Bounds.Min.Y - padding - LabelOffset,
	}
	return s
}

func unionBox(boxes []box) box {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, b := range boxes {
		minX, minY = min(minX, b.c.X-b.hw), min(minY, b.c.Y-b.hh)
		maxX, maxY = max(maxX, b.c.X+b.hw), max(maxY, b.c.Y+b.hh)
	}
	return box{
		c:  r2.Vec{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
		hw: (maxX - minX) / 2,
		hh: (maxY - minY) / 2,
	}
}

// segmentBounds bounds the spline by its control polygon, which contains
// every Bézier segment.
func segmentBounds(segs []segment) graph.Rect {
	r := graph.Rect{
		Min: graph.Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: graph.Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, s := range segs {
		for _, v := range []r2.Vec{s.P1, s.C1, s.C2, s.P2} {
			r.Min.X, r.Min.Y = min(r.Min.X, v.X), min(r.Min.Y, v.Y)
			r.Max.X, r.Max.Y = max(r.Max.X, v.X), max(r.Max.Y, v.Y)
		}
	}
	return r
}

func rect(c r2.Vec, hw, hh float64) graph.Rect {
	return graph.Rect{
		Min: graph.Point{X: c.X - hw, Y: c.Y - hh},
		Max: graph.Point{X: c.X + hw, Y: c.Y + hh},
	}
}

func point(v r2.Vec) graph.Point { return graph.Point{X: v.X, Y: v.Y} }

// Contains reports whether p lies inside the shape or within 1e-6 of its
// outline. Paths are tested against a fine flattening of the spline, which
// lies inside the true curve.
func (s Shape) Contains(p graph.Point) bool {
	const eps = 1e-6
	v := r2.Vec{X: p.X, Y: p.Y}
	c := r2.Vec{X: s.Center.X, Y: s.Center.Y}
	switch s.Kind {
	case KindCircle:
		return r2.Norm(r2.Sub(v, c)) <= s.Radius+eps
	case KindEllipse:
		dx, dy := (v.X-c.X)/s.RX, (v.Y-c.Y)/s.RY
		return dx*dx+dy*dy <= 1+eps
	case KindPath:
		segs := s.segs
		if segs == nil {
			hull := make([]r2.Vec, len(s.Vertices))
			for i, q := range s.Vertices {
				hull[i] = r2.Vec{X: q.X, Y: q.Y}
			}
			segs = catmullRom(hull)
		}
		return insidePolygon(sample(segs), v, eps)
	}
	return false
}
