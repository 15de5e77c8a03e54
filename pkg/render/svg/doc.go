// Package svg draws a layout payload as a standalone SVG document.
//
// Hulls are drawn first (filled, translucent, with a group label above each),
// then edges, then node boxes and their labels. Node fill encodes the change
// status of the entity; hierarchy edges are solid with an arrow toward the
// parent, association edges are dashed.
//
//	data := svg.Render(payload, svg.WithMargin(40))
package svg
