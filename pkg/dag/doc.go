// Package dag provides a directed acyclic graph organized into rows, the
// ranking structure behind the hierarchical layout.
//
// # Overview
//
// A hierarchical drawing assigns each node a rank (row) so that every
// parent sits on an earlier rank than its children, then orders the nodes
// within each rank to reduce edge crossings. This package provides the
// row-indexed graph those steps operate on; the algorithms themselves live
// in the [transform] subpackage.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "Thing"})
//	g.AddNode(dag.Node{ID: "Agent"})
//	g.AddEdge(dag.Edge{From: "Thing", To: "Agent"})
//
// Query the structure with [DAG.Children], [DAG.Parents], [DAG.NodesInRow]
// and related methods. [DAG.Validate] checks that every edge joins
// consecutive rows and that no cycle exists.
//
// # Determinism
//
// Unlike a map-backed graph, every enumeration here (nodes, rows, sources,
// sinks, adjacency) follows insertion order. Layouts built on the DAG are
// therefore reproducible for identical input.
//
// # Node Types
//
//   - [NodeKindRegular]: nodes of the input graph
//   - [NodeKindVirtual]: synthetic nodes that split an edge spanning several
//     rows into single-row hops, so crossing reduction can see the edge
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] count inversions with a Fenwick
// tree in O(E log V). [CountPairCrossings] evaluates a single adjacent swap.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
//
// [transform]: github.com/matzehuels/ontoviz/pkg/dag/transform
package dag
