package graph

import (
	"math"
	"slices"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// EntityType classifies an ontology entity.
type EntityType string

// Entity types.
const (
	EntityCategory  EntityType = "category"
	EntityProperty  EntityType = "property"
	EntitySubobject EntityType = "subobject"
	EntityTemplate  EntityType = "template"
	EntityModule    EntityType = "module"
)

// EdgeType classifies a relation between two entities.
type EdgeType string

// Edge types. EdgeParent is the hierarchy edge type; all others are associations.
const (
	EdgeParent           EdgeType = "parent"
	EdgeProperty         EdgeType = "property"
	EdgeSubobject        EdgeType = "subobject"
	EdgeTemplate         EdgeType = "template"
	EdgeModuleDependency EdgeType = "module_dependency"
	EdgeMember           EdgeType = "member"
)

// IsHierarchy reports whether edges of this type form the inheritance tree.
func (t EdgeType) IsHierarchy() bool { return t == EdgeParent }

// ChangeStatus marks a node relative to a draft. The engine ignores it; it is
// carried through to renderers.
type ChangeStatus string

// Change statuses.
const (
	StatusAdded     ChangeStatus = "added"
	StatusModified  ChangeStatus = "modified"
	StatusDeleted   ChangeStatus = "deleted"
	StatusUnchanged ChangeStatus = "unchanged"
)

// =============================================================================
// Snapshot - Layout Input
// =============================================================================

// Snapshot is an ordered list of nodes and edges supplied by the graph-query
// layer. Node order matters: it is the stable tie-break used throughout the
// engine.
type Snapshot struct {
	Nodes []Node `json:"nodes" yaml:"nodes" toml:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges" toml:"edges" bson:"edges"`
}

// Node is an ontology entity.
type Node struct {
	ID           string       `json:"id" yaml:"id" toml:"id" bson:"id"`
	Label        string       `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty" bson:"label,omitempty"`
	EntityType   EntityType   `json:"entity_type,omitempty" yaml:"entity_type,omitempty" toml:"entity_type,omitempty" bson:"entity_type,omitempty"`
	GroupIDs     []string     `json:"group_ids,omitempty" yaml:"group_ids,omitempty" toml:"group_ids,omitempty" bson:"group_ids,omitempty"`
	ChangeStatus ChangeStatus `json:"change_status,omitempty" yaml:"change_status,omitempty" toml:"change_status,omitempty" bson:"change_status,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	n.GroupIDs = slices.Clone(n.GroupIDs)
	return n
}

// Edge is a directed, typed relation. For hierarchy edges Source is the child
// and Target the parent.
type Edge struct {
	Source   string   `json:"source" yaml:"source" toml:"source" bson:"source"`
	Target   string   `json:"target" yaml:"target" toml:"target" bson:"target"`
	EdgeType EdgeType `json:"edge_type,omitempty" yaml:"edge_type,omitempty" toml:"edge_type,omitempty" bson:"edge_type,omitempty"`
}

// Groups returns the group memberships of the snapshot: group id → member ids
// in node order. Duplicate memberships of the same node are collapsed.
func (s Snapshot) Groups() map[string][]string {
	groups := make(map[string][]string)
	for _, n := range s.Nodes {
		for _, g := range n.GroupIDs {
			if g == "" || slices.Contains(groups[g], n.ID) {
				continue
			}
			groups[g] = append(groups[g], n.ID)
		}
	}
	return groups
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Nodes: make([]Node, len(s.Nodes)),
		Edges: slices.Clone(s.Edges),
	}
	for i, n := range s.Nodes {
		out.Nodes[i] = n.Clone()
	}
	return out
}

// =============================================================================
// Positions - Layout Output
// =============================================================================

// Point is a 2D coordinate. Node positions are box centers.
type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// PositionMap maps node ids to positions. It is produced fresh by every
// layout run and never aliases engine state.
type PositionMap map[string]Point

// Clone returns a copy of the map.
func (m PositionMap) Clone() PositionMap {
	out := make(PositionMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// IDs returns the node ids in sorted order.
func (m PositionMap) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Bounds returns the bounding box of the positions and false when the map is empty.
func (m PositionMap) Bounds() (Rect, bool) {
	if len(m) == 0 {
		return Rect{}, false
	}
	r := Rect{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, p := range m {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r, true
}
