// Package hull computes smooth enclosing shapes for node groups.
//
// Given node positions (box centers), node box sizes and group membership,
// [Compute] returns one [Shape] per group with at least one positioned
// member:
//
//   - one member: a circle around the padded box
//   - two members: an axis-aligned ellipse around both padded boxes
//   - three or more: the convex hull of all padded box corners, smoothed
//     into a closed Catmull–Rom spline and emitted as cubic Bézier SVG path
//     data
//
// Every shape encloses every padded member box. For the spline this holds
// because, on a counter-clockwise convex hull, each Bézier control point lies
// on the outer side of its chord, so the curve bulges outward and never cuts
// into the hull.
//
// Group colors come from a fixed 12-entry palette indexed by the group id
// hash, so a group keeps its color across runs and processes.
package hull
