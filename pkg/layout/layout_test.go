package layout

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/ontoviz/pkg/graph"
	"github.com/matzehuels/ontoviz/pkg/model"
)

func node(id string) graph.Node { return graph.Node{ID: id, EntityType: graph.EntityCategory} }

func isA(child, parent string) graph.Edge {
	return graph.Edge{Source: child, Target: parent, EdgeType: graph.EdgeParent}
}

func rel(s, t string, typ graph.EdgeType) graph.Edge {
	return graph.Edge{Source: s, Target: t, EdgeType: typ}
}

// ontology is a small schema: a category tree with a multi-parent node,
// property and subobject links, and two orphans.
func ontology() *model.Model {
	nodes := []graph.Node{
		node("Thing"), node("Agent"), node("Person"), node("Organization"),
		node("Place"), node("City"), node("Employee"),
		{ID: "hasName", EntityType: graph.EntityProperty},
		{ID: "Address", EntityType: graph.EntitySubobject},
		node("Unused"), node("Deprecated"),
	}
	edges := []graph.Edge{
		isA("Agent", "Thing"),
		isA("Person", "Agent"),
		isA("Organization", "Agent"),
		isA("Place", "Thing"),
		isA("City", "Place"),
		isA("Employee", "Person"),
		isA("Employee", "Organization"),
		rel("Person", "hasName", graph.EdgeProperty),
		rel("Organization", "Address", graph.EdgeSubobject),
		rel("City", "Address", graph.EdgeSubobject),
	}
	return model.Build(nodes, edges)
}

func cycle() *model.Model {
	return model.Build(
		[]graph.Node{node("A"), node("B"), node("C"), node("D")},
		[]graph.Edge{isA("A", "B"), isA("B", "C"), isA("C", "A")},
	)
}

func compute(t *testing.T, m *model.Model, opts Options) Result {
	t.Helper()
	res, err := Compute(context.Background(), m, opts)
	require.NoError(t, err)
	return res
}

func assertComplete(t *testing.T, m *model.Model, pos graph.PositionMap) {
	t.Helper()
	require.Len(t, pos, m.Len())
	for _, id := range m.IDs() {
		p, ok := pos[id]
		require.True(t, ok, "missing %s", id)
		assert.True(t, p.IsFinite(), "%s not finite: %v", id, p)
	}
}

func assertNoOverlap(t *testing.T, pos graph.PositionMap, minDist float64) {
	t.Helper()
	ids := pos.IDs()
	for a := range ids {
		for b := a + 1; b < len(ids); b++ {
			p, q := pos[ids[a]], pos[ids[b]]
			d := math.Hypot(p.X-q.X, p.Y-q.Y)
			assert.GreaterOrEqual(t, d, minDist-1e-6, "%s and %s overlap", ids[a], ids[b])
		}
	}
}

func TestComputeAllAlgorithms(t *testing.T) {
	for _, algo := range Algorithms {
		t.Run(string(algo), func(t *testing.T) {
			m := ontology()
			res := compute(t, m, Options{Algorithm: algo})

			assert.Equal(t, algo, res.Algorithm)
			assert.False(t, res.HasCycles)
			assertComplete(t, m, res.Positions)

			again := compute(t, m, Options{Algorithm: algo})
			assert.Equal(t, res.Positions, again.Positions, "layout must be deterministic")

			if algo.IsIterative() {
				assert.True(t, res.Converged)
				assert.Positive(t, res.Iterations)
				assertNoOverlap(t, res.Positions, 2*DefaultNodeRadius+DefaultCollisionMargin)
			}
		})
	}
}

func TestComputeEmptyAndSingle(t *testing.T) {
	for _, algo := range Algorithms {
		t.Run(string(algo), func(t *testing.T) {
			res := compute(t, model.Build(nil, nil), Options{Algorithm: algo})
			assert.Empty(t, res.Positions)

			res = compute(t, model.Build([]graph.Node{node("solo")}, nil), Options{Algorithm: algo})
			assert.Equal(t, graph.PositionMap{"solo": {}}, res.Positions)
		})
	}
}

func TestComputeUnknownAlgorithm(t *testing.T) {
	res := compute(t, ontology(), Options{Algorithm: "spiral"})
	assert.Equal(t, Hierarchical, res.Algorithm)
	assert.Zero(t, res.Iterations)
}

func TestCycleScenario(t *testing.T) {
	for _, algo := range Algorithms {
		t.Run(string(algo), func(t *testing.T) {
			m := cycle()
			res := compute(t, m, Options{Algorithm: algo})
			assert.True(t, res.HasCycles)
			assertComplete(t, m, res.Positions)
		})
	}

	res := compute(t, cycle(), Options{})
	for _, id := range []string{"A", "B", "C"} {
		assert.Greater(t, res.Positions["D"].Y, res.Positions[id].Y, "orphan D must sit below %s", id)
	}
}

func TestHierarchicalParentsEarlier(t *testing.T) {
	for _, dir := range []Direction{TopBottom, LeftRight} {
		t.Run(string(dir), func(t *testing.T) {
			m := ontology()
			pos := compute(t, m, Options{Direction: dir}).Positions
			for i := 0; i < m.Len(); i++ {
				p := m.Parent(i)
				if p < 0 {
					continue
				}
				child, parent := pos[m.ID(i)], pos[m.ID(p)]
				if dir == LeftRight {
					assert.Less(t, parent.X, child.X, "%s → %s", m.ID(p), m.ID(i))
				} else {
					assert.Less(t, parent.Y, child.Y, "%s → %s", m.ID(p), m.ID(i))
				}
			}
		})
	}
}

func TestHierarchicalSecondaryParentsEarlier(t *testing.T) {
	// Employee has two parents; in an acyclic graph both sit above it.
	pos := compute(t, ontology(), Options{}).Positions
	assert.Less(t, pos["Organization"].Y, pos["Employee"].Y)
	assert.Less(t, pos["Person"].Y, pos["Employee"].Y)
}

func TestHierarchicalBoxesDisjoint(t *testing.T) {
	pos := compute(t, ontology(), Options{}).Positions
	ids := pos.IDs()
	for a := range ids {
		for b := a + 1; b < len(ids); b++ {
			p, q := pos[ids[a]], pos[ids[b]]
			overlapX := math.Abs(p.X-q.X) < DefaultNodeWidth
			overlapY := math.Abs(p.Y-q.Y) < DefaultNodeHeight
			assert.False(t, overlapX && overlapY, "%s and %s overlap", ids[a], ids[b])
		}
	}
}

func TestHierarchicalCoordinates(t *testing.T) {
	m := model.Build(
		[]graph.Node{node("root"), node("b"), node("a")},
		[]graph.Edge{isA("a", "root"), isA("b", "root")},
	)
	pos := compute(t, m, Options{}).Positions

	rankStep := DefaultNodeHeight + DefaultRankSep
	crossStep := DefaultNodeWidth + DefaultNodeSep
	assert.Equal(t, graph.Point{X: 0, Y: 0}, pos["root"])
	assert.Equal(t, graph.Point{X: -crossStep / 2, Y: rankStep}, pos["a"])
	assert.Equal(t, graph.Point{X: crossStep / 2, Y: rankStep}, pos["b"])
}

func TestHierarchicalOrphanGrid(t *testing.T) {
	nodes := []graph.Node{node("p"), node("c")}
	for _, id := range []string{"o5", "o1", "o4", "o2", "o3"} {
		nodes = append(nodes, node(id))
	}
	m := model.Build(nodes, []graph.Edge{isA("c", "p")})
	pos := compute(t, m, Options{}).Positions

	connectedBottom := pos["c"].Y + DefaultNodeHeight/2
	for _, id := range []string{"o1", "o2", "o3", "o4", "o5"} {
		assert.GreaterOrEqual(t, pos[id].Y-DefaultNodeHeight/2, connectedBottom+DefaultOrphanGap-1e-9)
	}
	// ⌈√5⌉ = 3 columns, filled in id order.
	assert.Equal(t, pos["o1"].Y, pos["o3"].Y)
	assert.Less(t, pos["o1"].X, pos["o2"].X)
	assert.Less(t, pos["o2"].X, pos["o3"].X)
	assert.Greater(t, pos["o4"].Y, pos["o1"].Y)
	assert.Equal(t, pos["o1"].X, pos["o4"].X)
}

func TestAllOrphans(t *testing.T) {
	m := model.Build([]graph.Node{node("a"), node("b"), node("c"), node("d")}, nil)
	for _, algo := range Algorithms {
		t.Run(string(algo), func(t *testing.T) {
			res := compute(t, m, Options{Algorithm: algo})
			assertComplete(t, m, res.Positions)
			if algo.IsIterative() {
				assertNoOverlap(t, res.Positions, 2*DefaultNodeRadius+DefaultCollisionMargin)
			}
		})
	}
}

func TestForceOrphansOnOuterRing(t *testing.T) {
	m := ontology()
	pos := compute(t, m, Options{Algorithm: ForceDirected}).Positions

	var cx, cy float64
	for _, i := range m.Connected() {
		cx += pos[m.ID(i)].X
		cy += pos[m.ID(i)].Y
	}
	n := float64(len(m.Connected()))
	cx, cy = cx/n, cy/n

	extent := 0.0
	for _, i := range m.Connected() {
		p := pos[m.ID(i)]
		extent = max(extent, math.Hypot(p.X-cx, p.Y-cy))
	}
	for _, i := range m.Orphans() {
		p := pos[m.ID(i)]
		assert.Greater(t, math.Hypot(p.X-cx, p.Y-cy), extent, "orphan %s inside cluster", m.ID(i))
	}
}

func TestHybridOrphansBelow(t *testing.T) {
	m := ontology()
	pos := compute(t, m, Options{Algorithm: HybridConstrained}).Positions

	bottom := math.Inf(-1)
	for _, i := range m.Connected() {
		bottom = max(bottom, pos[m.ID(i)].Y)
	}
	for _, i := range m.Orphans() {
		assert.Greater(t, pos[m.ID(i)].Y, bottom)
	}
}

func TestHybridKeepsRanks(t *testing.T) {
	m := ontology()
	pos := compute(t, m, Options{Algorithm: HybridConstrained}).Positions
	for i := 0; i < m.Len(); i++ {
		if p := m.Parent(i); p >= 0 {
			assert.Less(t, pos[m.ID(p)].Y, pos[m.ID(i)].Y, "%s above %s", m.ID(p), m.ID(i))
		}
	}
}

func TestRadialOrphansBeyondDeepestRing(t *testing.T) {
	m := ontology()
	pos := compute(t, m, Options{Algorithm: Radial}).Positions

	deepest := float64(m.MaxDepth()) * DefaultRingSpacing
	for _, i := range m.Orphans() {
		p := pos[m.ID(i)]
		assert.GreaterOrEqual(t, math.Hypot(p.X, p.Y), deepest+DefaultRingSpacing-1e-6)
	}
}

func TestComputeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := ontology()
	res, err := Compute(ctx, m, Options{Algorithm: ForceDirected})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, res.Positions, m.Len())
}

func TestNewSimulation(t *testing.T) {
	_, err := NewSimulation(ontology(), Options{})
	assert.ErrorIs(t, err, ErrStatic)

	a, err := NewSimulation(ontology(), Options{Algorithm: ForceDirected})
	require.NoError(t, err)
	b, err := NewSimulation(ontology(), Options{Algorithm: ForceDirected})
	require.NoError(t, err)
	assert.NotSame(t, a, b)

	final, err := a.Run(context.Background())
	require.NoError(t, err)
	res := compute(t, ontology(), Options{Algorithm: ForceDirected})
	assert.Equal(t, res.Positions, final)
}

func TestComputeDoesNotMutateOptions(t *testing.T) {
	custom := map[graph.EdgeType]float64{graph.EdgeProperty: 200}
	opts := Options{Algorithm: ForceDirected, LinkDistances: custom}
	compute(t, ontology(), opts)
	assert.Len(t, custom, 1)
	assert.Equal(t, 0.0, opts.NodeRadius)
}

func TestRestartScenario(t *testing.T) {
	m := ontology()
	s, err := NewSimulation(m, Options{Algorithm: ForceDirected})
	require.NoError(t, err)
	before, err := s.Run(context.Background())
	require.NoError(t, err)
	require.True(t, s.Converged())

	s.Restart(0.5)
	after, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
	assert.ElementsMatch(t, before.IDs(), after.IDs())
	assertNoOverlap(t, after, 2*DefaultNodeRadius+DefaultCollisionMargin)
}

// randomSchema builds n categories joined by 2n random is-a and property
// links, with a fixed seed.
func randomSchema(n int) *model.Model {
	rng := rand.New(rand.NewPCG(7, uint64(n)))
	nodes := make([]graph.Node, n)
	for i := range nodes {
		nodes[i] = node(fmt.Sprintf("C%04d", i))
	}
	edges := make([]graph.Edge, 0, 2*n)
	for range 2 * n {
		s, t := nodes[rng.IntN(n)].ID, nodes[rng.IntN(n)].ID
		if rng.IntN(2) == 0 {
			edges = append(edges, isA(s, t))
		} else {
			edges = append(edges, rel(s, t, graph.EdgeProperty))
		}
	}
	return model.Build(nodes, edges)
}

func TestHierarchicalScale(t *testing.T) {
	if testing.Short() {
		t.Skip("scale test")
	}
	for _, algo := range []Algorithm{Hierarchical, HybridConstrained} {
		t.Run(string(algo), func(t *testing.T) {
			m := randomSchema(2000)

			start := time.Now()
			var res Result
			if algo == Hierarchical {
				res = compute(t, m, Options{Algorithm: algo})
			} else {
				s, err := NewSimulation(m, Options{Algorithm: algo})
				require.NoError(t, err)
				res.Positions = s.Positions()
			}
			elapsed := time.Since(start)

			assertComplete(t, m, res.Positions)
			assert.Less(t, elapsed, 2*time.Second, "ranking 2000 nodes took %v", elapsed)
		})
	}
}

func TestHierarchicalDeadline(t *testing.T) {
	m := randomSchema(2000)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	res, err := Compute(ctx, m, Options{})
	if err != nil {
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
	assertComplete(t, m, res.Positions)
}

func TestRadialRingsFitTheirNodes(t *testing.T) {
	// 137 roots crowd the first ring; each has one child on the second.
	const roots = 137
	var nodes []graph.Node
	var edges []graph.Edge
	for i := range roots {
		r, c := fmt.Sprintf("R%03d", i), fmt.Sprintf("C%03d", i)
		nodes = append(nodes, node(r), node(c))
		edges = append(edges, isA(c, r))
	}
	m := model.Build(nodes, edges)
	opts := Options{Algorithm: Radial}
	opts.SetDefaults()

	_, radii := radialTargets(m, &opts)

	slot := 2*opts.NodeRadius + opts.CollisionMargin
	minRing := roots * slot / (2 * math.Pi)
	for i := range m.Len() {
		switch m.Depth(i) {
		case 0:
			assert.GreaterOrEqual(t, radii[i], minRing-1e-9, "%s", m.ID(i))
		case 1:
			assert.GreaterOrEqual(t, radii[i], minRing+opts.RingSpacing-1e-9, "%s", m.ID(i))
		}
	}

	res := compute(t, m, opts)
	assertComplete(t, m, res.Positions)
}

func TestRingRadiiKeepDefaultSpacing(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()
	rings := ringRadii(ontology(), &opts, 1)
	require.Len(t, rings, 4)
	for d, r := range rings {
		assert.InDelta(t, float64(d+1)*opts.RingSpacing, r, 1e-9, "ring %d", d)
	}
}
