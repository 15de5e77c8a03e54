package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/hull"
)

func TestPayloadRoundTrip(t *testing.T) {
	positions := graph.PositionMap{"a": {X: 1, Y: 2}, "b": {X: 100, Y: 2}}
	p := &Payload{
		Algorithm:  "force",
		Converged:  true,
		Iterations: 300,
		NodeWidth:  140,
		NodeHeight: 40,
		Positions:  positions,
		Hulls:      hull.Compute(positions, nil, map[string][]string{"g": {"a", "b"}}, 8),
		Nodes:      []graph.Node{{ID: "a"}, {ID: "b", Label: "Bee"}},
		Edges:      []graph.Edge{{Source: "a", Target: "b", EdgeType: graph.EdgeParent}},
	}

	data, err := p.Marshal()
	require.NoError(t, err)
	got, err := UnmarshalPayload(data)
	require.NoError(t, err)

	assert.Equal(t, p.Positions, got.Positions)
	assert.Equal(t, p.Nodes, got.Nodes)
	require.Len(t, got.Hulls, 1)
	assert.Equal(t, hull.KindEllipse, got.Hulls[0].Kind)
	assert.Equal(t, p.Hulls[0].Path, got.Hulls[0].Path)
	assert.True(t, got.Converged)

	n, ok := got.Node("b")
	assert.True(t, ok)
	assert.Equal(t, "Bee", n.DisplayLabel())
	_, ok = got.Node("zzz")
	assert.False(t, ok)
}

func TestUnmarshalPayloadEmpty(t *testing.T) {
	p, err := UnmarshalPayload([]byte(`{"algorithm":"radial"}`))
	require.NoError(t, err)
	assert.NotNil(t, p.Positions)

	_, err = UnmarshalPayload([]byte(`{`))
	assert.Error(t, err)
}

func TestPayloadExtent(t *testing.T) {
	_, ok := (&Payload{}).Extent()
	assert.False(t, ok)

	p := &Payload{
		NodeWidth:  100,
		NodeHeight: 20,
		Positions:  graph.PositionMap{"a": {X: 0, Y: 0}, "b": {X: 200, Y: 50}},
	}
	ext, ok := p.Extent()
	require.True(t, ok)
	assert.Equal(t, graph.Point{X: -50, Y: -10}, ext.Min)
	assert.Equal(t, graph.Point{X: 250, Y: 60}, ext.Max)

	p.Hulls = hull.Compute(p.Positions, hull.UniformSizes(p.Positions.IDs(), 100, 20), map[string][]string{"g": {"a"}}, 10)
	withHull, _ := p.Extent()
	assert.Less(t, withHull.Min.Y, ext.Min.Y, "hull label must be inside the extent")
}
