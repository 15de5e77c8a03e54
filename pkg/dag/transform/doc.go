// Package transform provides the ranking and ordering steps of the
// hierarchical layout.
//
// # Pipeline
//
// The hierarchical strategy applies the transformations in this order:
//
//	transform.BreakCycles(g)  // reverse nothing, drop back edges
//	transform.AssignLayers(g) // longest-path ranks
//	transform.Subdivide(g)    // virtual nodes for long edges
//	orders := transform.OrderRowsContext(ctx, g, transform.OrderOptions{})
//
// # Cycle Breaking
//
// [BreakCycles] removes DFS back edges. The search starts from source nodes
// in insertion order, so the removed edges are the same on every run.
//
// # Layer Assignment
//
// [AssignLayers] places each node one row below the deepest of its parents
// (Kahn's algorithm).
//
// # Edge Subdivision
//
// [Subdivide] replaces an edge spanning k rows by a chain of k-1 virtual
// nodes so that every edge connects consecutive rows.
//
// # Ordering
//
// [OrderRowsContext] starts from rows sorted by node ID and alternates barycentric
// down and up sweeps followed by an adjacent-swap transpose pass, keeping
// the ordering with the fewest crossings seen. Each step is charged against
// a work bound in node and edge visits, so very wide subdivided graphs stop
// early with the best ordering so far and the result stays deterministic.
package transform
