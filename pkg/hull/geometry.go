package hull

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// convexHull returns the convex hull of pts in counter-clockwise order
// (y up) using Andrew's monotone chain. Collinear points are dropped.
func convexHull(pts []r2.Vec) []r2.Vec {
	p := slices.Clone(pts)
	slices.SortFunc(p, func(a, b r2.Vec) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	p = slices.CompactFunc(p, func(a, b r2.Vec) bool { return a == b })
	if len(p) < 3 {
		return p
	}

	hull := make([]r2.Vec, 0, 2*len(p))
	for _, v := range p {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], v) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, v)
	}
	lower := len(hull) + 1
	for i := len(p) - 2; i >= 0; i-- {
		v := p[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], v) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, v)
	}
	return hull[:len(hull)-1]
}

// cross returns the z component of (a→b) × (a→c).
func cross(a, b, c r2.Vec) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// segment is one cubic Bézier piece of a closed spline.
type segment struct {
	P1, C1, C2, P2 r2.Vec
}

// catmullRom converts a closed polygon into cubic Bézier segments of the
// uniform Catmull–Rom spline through its vertices.
func catmullRom(v []r2.Vec) []segment {
	n := len(v)
	segs := make([]segment, n)
	for i := range v {
		p0, p1, p2, p3 := v[(i-1+n)%n], v[i], v[(i+1)%n], v[(i+2)%n]
		segs[i] = segment{
			P1: p1,
			C1: r2.Add(p1, r2.Scale(1.0/6, r2.Sub(p2, p0))),
			C2: r2.Sub(p2, r2.Scale(1.0/6, r2.Sub(p3, p1))),
			P2: p2,
		}
	}
	return segs
}

// at evaluates the segment at t in [0, 1].
func (s segment) at(t float64) r2.Vec {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return r2.Vec{
		X: a*s.P1.X + b*s.C1.X + c*s.C2.X + d*s.P2.X,
		Y: a*s.P1.Y + b*s.C1.Y + c*s.C2.Y + d*s.P2.Y,
	}
}

const samplesPerSegment = 16

// sample flattens the spline into a polygon.
func sample(segs []segment) []r2.Vec {
	out := make([]r2.Vec, 0, len(segs)*samplesPerSegment)
	for _, s := range segs {
		for k := range samplesPerSegment {
			out = append(out, s.at(float64(k)/samplesPerSegment))
		}
	}
	return out
}

// pathData renders Bézier segments as SVG path data.
func pathData(segs []segment) string {
	if len(segs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("M")
	writePoint(&b, segs[0].P1)
	for _, s := range segs {
		b.WriteString(" C")
		writePoint(&b, s.C1)
		b.WriteString(" ")
		writePoint(&b, s.C2)
		b.WriteString(" ")
		writePoint(&b, s.P2)
	}
	b.WriteString(" Z")
	return b.String()
}

// circlePath renders an ellipse (or circle when rx == ry) as two arcs.
func circlePath(c r2.Vec, rx, ry float64) string {
	var b strings.Builder
	b.WriteString("M")
	writePoint(&b, r2.Vec{X: c.X - rx, Y: c.Y})
	for _, dx := range []float64{2 * rx, -2 * rx} {
		b.WriteString(" a")
		b.WriteString(num(rx))
		b.WriteString(",")
		b.WriteString(num(ry))
		b.WriteString(" 0 1,0 ")
		b.WriteString(num(dx))
		b.WriteString(",0")
	}
	b.WriteString(" Z")
	return b.String()
}

func writePoint(b *strings.Builder, p r2.Vec) {
	b.WriteString(num(p.X))
	b.WriteString(",")
	b.WriteString(num(p.Y))
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// insidePolygon reports whether p lies inside poly or within eps of its
// boundary.
func insidePolygon(poly []r2.Vec, p r2.Vec, eps float64) bool {
	n := len(poly)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if distToSegment(p, a, b) <= eps {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

func distToSegment(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	l2 := r2.Norm2(ab)
	if l2 == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := math.Max(0, math.Min(1, r2.Dot(r2.Sub(p, a), ab)/l2))
	return r2.Norm(r2.Sub(p, r2.Add(a, r2.Scale(t, ab))))
}
