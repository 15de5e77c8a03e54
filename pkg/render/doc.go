// Package render turns a computed layout into artifacts.
//
// # Overview
//
// The layout engine emits geometry only: node centers and group hulls. This
// package and its subpackages are the rendering collaborators that consume
// that geometry:
//
//   - [Payload]: the serializable result of one layout run (positions, hulls,
//     and the nodes and edges they belong to)
//   - [svg]: direct SVG drawing of a payload with ajstarks/svgo
//   - [nodelink]: Graphviz DOT export with pinned positions, rendered by
//     goccy/go-graphviz
//   - [ToPDF] and [ToPNG]: SVG conversion through the external rsvg-convert
//     tool (librsvg)
//
// # Format Conversion
//
//	svgBytes := svg.Render(payload)
//	pdf, err := render.ToPDF(ctx, svgBytes)
//	png, err := render.ToPNG(ctx, svgBytes, 2.0)  // 2x scale
//
// [svg]: github.com/matzehuels/ontoviz/pkg/render/svg
// [nodelink]: github.com/matzehuels/ontoviz/pkg/render/nodelink
package render
