package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ontoviz/pkg/errors"
	"github.com/matzehuels/ontoviz/pkg/graph"
)

func sample() graph.Snapshot {
	return graph.Snapshot{
		Nodes: []graph.Node{
			{ID: "Thing", EntityType: graph.EntityCategory, GroupIDs: []string{"core"}},
			{ID: "Person", EntityType: graph.EntityCategory, GroupIDs: []string{"core", "people"}},
			{ID: "hasName", EntityType: graph.EntityProperty, GroupIDs: []string{"people"}},
			{ID: "Loose", EntityType: graph.EntityCategory},
		},
		Edges: []graph.Edge{
			{Source: "Person", Target: "Thing", EdgeType: graph.EdgeParent},
			{Source: "Person", Target: "hasName", EdgeType: graph.EdgeProperty},
		},
	}
}

func TestQueryApply(t *testing.T) {
	tests := []struct {
		name  string
		q     Query
		nodes []string
		edges int
	}{
		{"everything", Query{}, []string{"Thing", "Person", "hasName", "Loose"}, 2},
		{"group", Query{GroupIDs: []string{"people"}}, []string{"Person", "hasName"}, 1},
		{"type", Query{EntityTypes: []graph.EntityType{graph.EntityCategory}}, []string{"Thing", "Person", "Loose"}, 1},
		{"group and type", Query{GroupIDs: []string{"people"}, EntityTypes: []graph.EntityType{graph.EntityProperty}}, []string{"hasName"}, 0},
		{"limit", Query{Limit: 2}, []string{"Thing", "Person"}, 1},
		{"no match", Query{GroupIDs: []string{"nope"}}, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.q.Apply(sample())
			var ids []string
			for _, n := range got.Nodes {
				ids = append(ids, n.ID)
			}
			assert.Equal(t, tt.nodes, ids)
			assert.Len(t, got.Edges, tt.edges)
		})
	}
}

func TestQueryApplyDoesNotAlias(t *testing.T) {
	in := sample()
	out := Query{}.Apply(in)
	out.Nodes[0].GroupIDs[0] = "changed"
	assert.Equal(t, "core", in.Nodes[0].GroupIDs[0])
}

func TestQueryValidate(t *testing.T) {
	assert.NoError(t, Query{}.Validate())
	assert.True(t, errors.Is(Query{Limit: -1}.Validate(), errors.ErrCodeInvalidInput))
	assert.True(t, errors.Is(Query{GroupIDs: []string{""}}.Validate(), errors.ErrCodeInvalidInput))
	assert.True(t, errors.Is(Query{EntityTypes: []graph.EntityType{""}}.Validate(), errors.ErrCodeInvalidInput))
}

func TestFileLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "onto.json")
	data, err := graph.MarshalSnapshot(sample())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	var l Loader = File{Path: path}
	s, err := l.Load(context.Background(), Query{GroupIDs: []string{"core"}})
	require.NoError(t, err)
	assert.Len(t, s.Nodes, 2)
	assert.Len(t, s.Edges, 1)

	_, err = File{Path: filepath.Join(dir, "missing.json")}.Load(context.Background(), Query{})
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = File{Path: path}.Load(context.Background(), Query{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidSnapshot), "got %v", err)
}
