package svg

import (
	"bytes"
	"fmt"
	"math"

	svgo "github.com/ajstarks/svgo"

	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/render"
)

const (
	DefaultMargin   = 32.0
	DefaultFontSize = 13

	fontFamily = "system-ui,-apple-system,sans-serif"
	arrowID    = "arrow"
)

// statusFill maps a change status to a node fill color.
var statusFill = map[graph.ChangeStatus]string{
	graph.StatusAdded:     "#d9f2d9",
	graph.StatusModified:  "#fff1c2",
	graph.StatusDeleted:   "#f8d0d0",
	graph.StatusUnchanged: "#ffffff",
}

// entityStroke maps an entity type to a node outline color.
var entityStroke = map[graph.EntityType]string{
	graph.EntityCategory:  "#3b4a5a",
	graph.EntityProperty:  "#2f6f8f",
	graph.EntitySubobject: "#6b4f8f",
	graph.EntityTemplate:  "#8f6b2f",
	graph.EntityModule:    "#2f8f5b",
}

type config struct {
	margin   float64
	fontSize int
	labels   bool
	hulls    bool
	title    string
}

// Option configures rendering.
type Option func(*config)

// WithMargin sets the blank border around the drawing.
func WithMargin(m float64) Option { return func(c *config) { c.margin = m } }

// WithFontSize sets the node label size in pixels.
func WithFontSize(px int) Option { return func(c *config) { c.fontSize = px } }

// WithoutLabels omits node and group labels.
func WithoutLabels() Option { return func(c *config) { c.labels = false } }

// WithoutHulls omits group hulls.
func WithoutHulls() Option { return func(c *config) { c.hulls = false } }

// WithTitle sets the document title.
func WithTitle(t string) Option { return func(c *config) { c.title = t } }

// Render draws p and returns the SVG document.
func Render(p *render.Payload, opts ...Option) []byte {
	cfg := config{margin: DefaultMargin, fontSize: DefaultFontSize, labels: true, hulls: true}
	for _, o := range opts {
		o(&cfg)
	}

	ext, ok := p.Extent()
	if !ok {
		ext = graph.Rect{Max: graph.Point{X: 1, Y: 1}}
	}
	minX := int(math.Floor(ext.Min.X - cfg.margin))
	minY := int(math.Floor(ext.Min.Y - cfg.margin))
	w := int(math.Ceil(ext.Max.X+cfg.margin)) - minX
	h := int(math.Ceil(ext.Max.Y+cfg.margin)) - minY

	var buf bytes.Buffer
	canvas := svgo.New(&buf)
	canvas.Startview(w, h, minX, minY, w, h)
	if cfg.title != "" {
		canvas.Title(cfg.title)
	}

	canvas.Def()
	canvas.Marker(arrowID, 10, 5, 10, 10, `orient="auto"`, `markerUnits="userSpaceOnUse"`)
	canvas.Path("M0,0 L10,5 L0,10 z", "fill:#55606e")
	canvas.MarkerEnd()
	canvas.DefEnd()

	canvas.Rect(minX, minY, w, h, "fill:#fbfbfc")

	if cfg.hulls {
		drawHulls(canvas, p, cfg)
	}
	drawEdges(canvas, p)
	drawNodes(canvas, p, cfg)

	canvas.End()
	return buf.Bytes()
}

func drawHulls(canvas *svgo.SVG, p *render.Payload, cfg config) {
	canvas.Gid("hulls")
	for _, s := range p.Hulls {
		canvas.Path(s.Path,
			fmt.Sprintf(`fill:%s;fill-opacity:0.55;stroke:%s;stroke-width:2`, s.Fill, s.Color),
			fmt.Sprintf(`data-group=%q`, s.GroupID))
		if cfg.labels {
			canvas.Text(round(s.LabelAnchor.X), round(s.LabelAnchor.Y), s.GroupID,
				fmt.Sprintf("fill:%s;font-size:%dpx;font-family:%s;font-weight:600;text-anchor:middle", s.Color, cfg.fontSize, fontFamily))
		}
	}
	canvas.Gend()
}

func drawEdges(canvas *svgo.SVG, p *render.Payload) {
	hw, hh := p.NodeWidth/2, p.NodeHeight/2
	canvas.Gid("edges")
	for _, e := range p.Edges {
		from, ok1 := p.Positions[e.Source]
		to, ok2 := p.Positions[e.Target]
		if !ok1 || !ok2 || e.Source == e.Target {
			continue
		}
		a := clip(to, from, hw, hh)
		b := clip(from, to, hw, hh)
		style := "stroke:#8a94a0;stroke-width:1.2;stroke-dasharray:5,4;fill:none"
		if e.EdgeType.IsHierarchy() {
			style = fmt.Sprintf("stroke:#55606e;stroke-width:1.6;fill:none;marker-end:url(#%s)", arrowID)
		}
		canvas.Line(round(a.X), round(a.Y), round(b.X), round(b.Y), style)
	}
	canvas.Gend()
}

func drawNodes(canvas *svgo.SVG, p *render.Payload, cfg config) {
	w, h := round(p.NodeWidth), round(p.NodeHeight)
	canvas.Gid("nodes")
	for _, n := range p.Nodes {
		pt, ok := p.Positions[n.ID]
		if !ok {
			continue
		}
		fill, ok := statusFill[n.ChangeStatus]
		if !ok {
			fill = statusFill[graph.StatusUnchanged]
		}
		stroke, ok := entityStroke[n.EntityType]
		if !ok {
			stroke = entityStroke[graph.EntityCategory]
		}
		style := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.5", fill, stroke)
		if n.ChangeStatus == graph.StatusDeleted {
			style += ";stroke-dasharray:4,3"
		}
		if p.NodeWidth == p.NodeHeight {
			// Simulation layouts: circles with the label underneath.
			r := p.NodeWidth / 2
			canvas.Circle(round(pt.X), round(pt.Y), round(r), style, fmt.Sprintf(`data-id=%q`, n.ID))
			if cfg.labels {
				canvas.Text(round(pt.X), round(pt.Y+r)+cfg.fontSize+2, truncate(n.DisplayLabel(), 4*r, cfg.fontSize),
					fmt.Sprintf("fill:#1f2933;font-size:%dpx;font-family:%s;text-anchor:middle", cfg.fontSize, fontFamily))
			}
			continue
		}
		x, y := round(pt.X-p.NodeWidth/2), round(pt.Y-p.NodeHeight/2)
		canvas.Roundrect(x, y, w, h, 6, 6, style, fmt.Sprintf(`data-id=%q`, n.ID))
		if cfg.labels {
			canvas.Text(round(pt.X), round(pt.Y)+cfg.fontSize/3, truncate(n.DisplayLabel(), p.NodeWidth, cfg.fontSize),
				fmt.Sprintf("fill:#1f2933;font-size:%dpx;font-family:%s;text-anchor:middle", cfg.fontSize, fontFamily))
		}
	}
	canvas.Gend()
}

// clip returns the point where the segment from center to other leaves the
// box of half extents hw, hh around center.
func clip(center, other graph.Point, hw, hh float64) graph.Point {
	dx, dy := other.X-center.X, other.Y-center.Y
	if dx == 0 && dy == 0 {
		return center
	}
	t := math.Inf(1)
	if dx != 0 {
		t = math.Min(t, hw/math.Abs(dx))
	}
	if dy != 0 {
		t = math.Min(t, hh/math.Abs(dy))
	}
	t = math.Min(t, 1)
	return graph.Point{X: center.X + t*dx, Y: center.Y + t*dy}
}

// truncate shortens s to fit a box of the given width, assuming an average
// glyph width of 0.6 em.
func truncate(s string, width float64, fontSize int) string {
	r := []rune(s)
	limit := int((width - 12) / (0.6 * float64(fontSize)))
	if limit < 2 || len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

func round(v float64) int { return int(math.Round(v)) }
