// Package graph provides the data model and serialization types for ontology
// graph snapshots.
//
// A snapshot is the input of a layout run: an ordered list of entity nodes
// (categories, properties, subobjects, templates, modules) and the typed edges
// between them. The package is the single source of truth for entity, edge
// and change-status constants and for the deterministic string hash used by
// the layout and hull packages.
//
// # Architecture
//
// The package sits at the boundary between the external graph-query layer and
// the layout engine:
//
//   - [Snapshot], [Node], [Edge]: serialization types (this package)
//   - pkg/model.Model: normalized, indexed view used by the engine
//   - [PositionMap]: the output of a layout run
//
// # Snapshot Serialization
//
// Snapshots use a simple node-link format available as JSON, YAML or TOML:
//
//	{
//	  "nodes": [{"id": "Person", "entity_type": "category", "group_ids": ["core"]}],
//	  "edges": [{"source": "Employee", "target": "Person", "edge_type": "parent"}]
//	}
//
// Common operations:
//
//	s, _ := graph.ReadSnapshotFile("ontology.yaml")   // File → Snapshot
//	graph.WriteSnapshot(os.Stdout, s, graph.FormatJSON)
//
// # Hierarchy Edges
//
// Edges of type [EdgeParent] point from child to parent. They drive tree
// construction and ranking; every other edge type is an association.
//
// # Hashing
//
// [Hash32] is FNV-1a (32-bit) followed by the murmur3 fmix32 finalizer. It is
// specified bit-for-bit so that colors and seeded positions are reproducible
// across runs, sessions and independent implementations.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
