// Package layout turns a [model.Model] into 2D node positions.
//
// # Strategies
//
// Four strategies are available, selected by [Options.Algorithm]:
//
//   - [Hierarchical]: closed-form layered drawing. Parents sit on earlier
//     ranks than their children, nodes within a rank are ordered to reduce
//     crossings, and orphans (nodes without edges) fill a grid below.
//   - [ForceDirected]: a force simulation with many-body repulsion, springs
//     whose rest length depends on the edge type, weak centering and
//     collision. Orphans sit on a ring around the cluster.
//   - [HybridConstrained]: the hierarchical ranks act as anisotropic
//     targets inside a force simulation, keeping the layering readable while
//     letting related nodes drift together.
//   - [Radial]: nodes start on concentric rings by tree depth with angular
//     slices proportional to subtree size, then relax under forces that keep
//     them on their rings.
//
// # Usage
//
//	m := model.Build(snapshot.Nodes, snapshot.Edges)
//	res, err := layout.Compute(ctx, m, layout.Options{Algorithm: layout.Radial})
//
// For animation, [NewSimulation] returns the prepared simulation of an
// iterative strategy so callers can consume frames one by one.
//
// # Guarantees
//
// Every strategy returns exactly one finite position per node and is
// deterministic: identical input and options give identical output. An
// empty model yields no positions and a single node sits at the origin.
// After an iterative strategy converges no two collision circles overlap.
//
// [model.Model]: github.com/matzehuels/ontoviz/pkg/model.Model
package layout
