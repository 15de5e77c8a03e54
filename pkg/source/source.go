// Package source loads ontology snapshots for layout.
//
// A [Loader] returns the nodes and edges selected by a [Query]. Two loaders
// ship with ontoviz: [File], which reads a JSON, YAML or TOML snapshot from
// disk, and the MongoDB loader in the mongo subpackage, which reads the
// collections maintained by the graph-query service.
//
// Both apply the same selection rules: a node is kept when it matches every
// non-empty filter of the query, and an edge is kept when both of its
// endpoints were kept. Node order is preserved, since it is the tie-break the
// layout engine uses.
package source

import (
	"context"
	stderrors "errors"
	"io/fs"
	"slices"

	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/graph"
)

// Query selects part of an ontology. The zero Query selects everything.
type Query struct {
	// GroupIDs keeps nodes that belong to at least one of the groups.
	GroupIDs []string `json:"group_ids,omitempty" toml:"group_ids"`
	// EntityTypes keeps nodes of the listed types.
	EntityTypes []graph.EntityType `json:"entity_types,omitempty" toml:"entity_types"`
	// Limit caps the number of nodes; zero means no limit.
	Limit int `json:"limit,omitempty" toml:"limit"`
}

// Validate rejects negative limits and empty filter values.
func (q Query) Validate() error {
	if q.Limit < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid limit: %d", q.Limit)
	}
	if slices.Contains(q.GroupIDs, "") {
		return errors.New(errors.ErrCodeInvalidInput, "empty group id in query")
	}
	if slices.Contains(q.EntityTypes, "") {
		return errors.New(errors.ErrCodeInvalidInput, "empty entity type in query")
	}
	return nil
}

// Match reports whether n passes the query's node filters.
func (q Query) Match(n graph.Node) bool {
	if len(q.EntityTypes) > 0 && !slices.Contains(q.EntityTypes, n.EntityType) {
		return false
	}
	if len(q.GroupIDs) > 0 && !slices.ContainsFunc(n.GroupIDs, func(g string) bool {
		return slices.Contains(q.GroupIDs, g)
	}) {
		return false
	}
	return true
}

// Apply returns the part of s selected by q. s is not modified.
func (q Query) Apply(s graph.Snapshot) graph.Snapshot {
	var out graph.Snapshot
	kept := make(map[string]bool)
	for _, n := range s.Nodes {
		if q.Limit > 0 && len(out.Nodes) == q.Limit {
			break
		}
		if q.Match(n) {
			out.Nodes = append(out.Nodes, n.Clone())
			kept[n.ID] = true
		}
	}
	for _, e := range s.Edges {
		if kept[e.Source] && kept[e.Target] {
			out.Edges = append(out.Edges, e)
		}
	}
	return out
}

// Loader loads a snapshot.
type Loader interface {
	Load(ctx context.Context, q Query) (graph.Snapshot, error)
}

// File loads snapshots from a file on disk. The format follows the extension.
type File struct {
	Path string
}

// Load reads the file and applies q.
func (f File) Load(ctx context.Context, q Query) (graph.Snapshot, error) {
	if err := q.Validate(); err != nil {
		return graph.Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return graph.Snapshot{}, err
	}
	s, err := graph.ReadSnapshotFile(f.Path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return graph.Snapshot{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot not found: %s", f.Path)
	}
	if err != nil {
		return graph.Snapshot{}, errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "read snapshot %s", f.Path)
	}
	return q.Apply(s), nil
}
