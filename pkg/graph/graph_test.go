package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		Nodes: []Node{
			{ID: "Person", EntityType: EntityCategory, GroupIDs: []string{"core"}},
			{ID: "Employee", Label: "Employee", EntityType: EntityCategory, GroupIDs: []string{"core", "hr"}},
			{ID: "name", EntityType: EntityProperty, ChangeStatus: StatusAdded},
		},
		Edges: []Edge{
			{Source: "Employee", Target: "Person", EdgeType: EdgeParent},
			{Source: "Person", Target: "name", EdgeType: EdgeProperty},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteSnapshot(&buf, sampleSnapshot(), format))

			got, err := ReadSnapshot(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, sampleSnapshot(), got)
		})
	}
}

func TestReadSnapshot(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		input     string
		wantNodes int
		wantEdges int
		wantErr   bool
	}{
		{
			name:      "JSON",
			format:    FormatJSON,
			input:     `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"source":"a","target":"b","edge_type":"parent"}]}`,
			wantNodes: 2,
			wantEdges: 1,
		},
		{
			name:   "YAML",
			format: FormatYAML,
			input: `
nodes:
  - id: a
    group_ids: [m1]
  - id: b
edges: []
`,
			wantNodes: 2,
		},
		{
			name:   "TOML",
			format: FormatTOML,
			input: `
[[nodes]]
id = "a"

[[edges]]
source = "a"
target = "a"
edge_type = "property"
`,
			wantNodes: 1,
			wantEdges: 1,
		},
		{name: "EmptyYAML", format: FormatYAML, input: ""},
		{name: "BadJSON", format: FormatJSON, input: `{"nodes":`, wantErr: true},
		{name: "UnknownFormat", format: "xml", input: "<x/>", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ReadSnapshot(strings.NewReader(tt.input), tt.format)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, s.Nodes, tt.wantNodes)
			assert.Len(t, s.Edges, tt.wantEdges)
		})
	}
}

func TestReadSnapshotFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "onto.yml")
	require.NoError(t, os.WriteFile(path, []byte("nodes:\n  - id: x\n"), 0o644))

	s, err := ReadSnapshotFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", s.Nodes[0].ID)

	_, err = ReadSnapshotFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.YAML"))
	assert.Equal(t, FormatTOML, FormatFromPath("x.toml"))
	assert.Equal(t, FormatJSON, FormatFromPath("x.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("noext"))
}

func TestSnapshotGroups(t *testing.T) {
	s := sampleSnapshot()
	s.Nodes = append(s.Nodes, Node{ID: "dup", GroupIDs: []string{"hr", "hr", ""}})

	groups := s.Groups()
	assert.Equal(t, []string{"Person", "Employee"}, groups["core"])
	assert.Equal(t, []string{"Employee", "dup"}, groups["hr"])
	assert.NotContains(t, groups, "")
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := sampleSnapshot()
	c := s.Clone()
	c.Nodes[0].GroupIDs[0] = "changed"
	c.Edges[0].Source = "changed"

	assert.Equal(t, "core", s.Nodes[0].GroupIDs[0])
	assert.Equal(t, "Employee", s.Edges[0].Source)
}

func TestHash32(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 0xab3e7c0b},
		{"a", 0x1a80b1b3},
		{"core", 0x9d8408ae},
		{"Person", 0xed18d346},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Hash32(tt.in), "Hash32(%q)", tt.in)
	}
	assert.Equal(t, Hash32("module:core"), Hash32("module:core"))
}

func TestUnit(t *testing.T) {
	assert.Equal(t, 0.0, Unit(0))
	assert.Less(t, Unit(^uint32(0)), 1.0)
}

func TestPositionMapBounds(t *testing.T) {
	_, ok := PositionMap{}.Bounds()
	assert.False(t, ok)

	m := PositionMap{"a": {X: -1, Y: 2}, "b": {X: 3, Y: -4}}
	r, ok := m.Bounds()
	require.True(t, ok)
	assert.Equal(t, Rect{Min: Point{X: -1, Y: -4}, Max: Point{X: 3, Y: 2}}, r)
	assert.Equal(t, 4.0, r.Width())
	assert.Equal(t, 6.0, r.Height())
	assert.Equal(t, Point{X: 1, Y: -1}, r.Center())
	assert.Equal(t, []string{"a", "b"}, m.IDs())
}
