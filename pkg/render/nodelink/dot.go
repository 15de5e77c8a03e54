package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/render"
)

// pointsPerInch converts layout units (pixels, treated as points) to the
// inches Graphviz expects for pos, width and height.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds entity type and change status to node labels.
	// When false, only the display label is shown.
	Detailed bool

	// Hulls draws each group as a filled ellipse spanning its hull bounds,
	// behind its members.
	Hulls bool
}

// ToDOT converts a payload to Graphviz DOT with every node pinned at its
// computed position. The result renders with the neato engine without any
// further layout (see [RenderSVG]).
//
// Graphviz's y axis points up, so y coordinates are negated.
func ToDOT(p *render.Payload, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  overlap=true;\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, fixedsize=true, width=%s, height=%s];\n",
		inches(p.NodeWidth), inches(p.NodeHeight))
	buf.WriteString("\n")

	if opts.Hulls {
		for _, s := range p.Hulls {
			fmt.Fprintf(&buf, "  %q [shape=ellipse, style=\"filled\", fillcolor=%q, color=%q, label=%q, fixedsize=true, width=%s, height=%s, pos=%q, fontcolor=%q, labelloc=t];\n",
				"hull:"+s.GroupID, s.Fill, s.Color, s.GroupID,
				inches(s.Bounds.Width()), inches(s.Bounds.Height()),
				pos(s.Bounds.Center()), s.Color)
		}
		buf.WriteString("\n")
	}

	for _, n := range p.Nodes {
		pt, ok := p.Positions[n.ID]
		if !ok {
			continue
		}
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		attrs = append(attrs, fmt.Sprintf("pos=%q", pos(pt)))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range p.Edges {
		if _, ok := p.Positions[e.Source]; !ok {
			continue
		}
		if _, ok := p.Positions[e.Target]; !ok {
			continue
		}
		if e.EdgeType.IsHierarchy() {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=none, color=grey50, label=%q, fontsize=9];\n",
				e.Source, e.Target, string(e.EdgeType))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func inches(v float64) string {
	return strconv.FormatFloat(v/pointsPerInch, 'f', 4, 64)
}

func pos(p graph.Point) string {
	y := -p.Y
	if y == 0 {
		y = 0 // avoid "-0.0000"
	}
	return fmt.Sprintf("%s,%s!", inches(p.X), inches(y))
}

func fmtLabel(n graph.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}
	var parts []string
	if n.EntityType != "" {
		parts = append(parts, string(n.EntityType))
	}
	if n.ChangeStatus != "" && n.ChangeStatus != graph.StatusUnchanged {
		parts = append(parts, string(n.ChangeStatus))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, " · ")
}

func fmtAttrs(n graph.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.ChangeStatus {
	case graph.StatusAdded:
		attrs = append(attrs, "fillcolor=\"#d9f2d9\"")
	case graph.StatusModified:
		attrs = append(attrs, "fillcolor=\"#fff1c2\"")
	case graph.StatusDeleted:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=\"#f8d0d0\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph produced by [ToDOT] to SVG using Graphviz's
// neato engine, which honors the pinned positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
