// Package nodelink exports a layout payload as a Graphviz node-link diagram.
//
// # Overview
//
// Unlike a classic Graphviz pipeline, the positions here are not computed by
// Graphviz: [ToDOT] pins every node at the coordinates the layout engine
// produced (pos="x,y!"), and [RenderSVG] runs the neato engine, which keeps
// pinned nodes in place and only routes edges. The DOT output is also useful
// on its own for further processing with external Graphviz tools.
//
// # Usage
//
//	dot := nodelink.ToDOT(payload, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// PDF and PNG are converted from this SVG with [render.ToPDF] and
// [render.ToPNG].
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
