package layout

import (
	"math"
	"testing"

	"sitegraph/domain/core/aggregates"
	"sitegraph/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageNode(t *testing.T, id string, x, y float64) aggregates.GraphNode {
	t.Helper()
	nodeID, err := valueobjects.NewNodeIDFromString(id)
	require.NoError(t, err)
	return aggregates.GraphNode{
		ID:       nodeID,
		Kind:     aggregates.NodeKindPage,
		Position: valueobjects.NewPosition(x, y),
		Page:     &aggregates.PagePayload{Slug: id, Title: id},
	}
}

func clusterNode(t *testing.T, keyword string) aggregates.GraphNode {
	t.Helper()
	return aggregates.GraphNode{
		ID:      valueobjects.NewClusterNodeID(keyword),
		Kind:    aggregates.NodeKindCluster,
		Cluster: &aggregates.ClusterPayload{Name: keyword, PrimaryKeyword: keyword},
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{NameHierarchical, NameCircular, NameForceDirected, NameGrid} {
		algo, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, algo.Name())
	}

	_, err := ByName("radial")
	assert.Error(t, err)
}

func TestAlgorithms_PreserveIdentityAndOrder(t *testing.T) {
	nodes := []aggregates.GraphNode{
		pageNode(t, "p1", 10, 10),
		pageNode(t, "p2", 20, 20),
		clusterNode(t, "seo"),
	}
	edges := []aggregates.GraphEdge{
		aggregates.NewEdge(aggregates.EdgeKindParent, nodes[0].ID, nodes[1].ID, ""),
	}

	for _, name := range []string{NameHierarchical, NameCircular, NameForceDirected, NameGrid} {
		algo, err := ByName(name)
		require.NoError(t, err)

		out := algo.Apply(nodes, edges)
		require.Len(t, out, len(nodes), name)
		for i := range nodes {
			assert.True(t, out[i].ID.Equals(nodes[i].ID), name)
			assert.Equal(t, nodes[i].Kind, out[i].Kind, name)
		}

		// Input positions must be untouched.
		assert.Equal(t, 10.0, nodes[0].Position.X, name)
		assert.Equal(t, 20.0, nodes[1].Position.X, name)
	}
}

func TestAlgorithms_EmptyInput(t *testing.T) {
	for _, name := range []string{NameHierarchical, NameCircular, NameForceDirected, NameGrid} {
		algo, err := ByName(name)
		require.NoError(t, err)
		assert.Empty(t, algo.Apply(nil, nil), name)
	}
}

func TestHierarchical_RankAssignment(t *testing.T) {
	root := pageNode(t, "root", 0, 0)
	child := pageNode(t, "child", 0, 0)
	grandchild := pageNode(t, "grandchild", 0, 0)
	loose := pageNode(t, "loose", 0, 0)
	nodes := []aggregates.GraphNode{grandchild, loose, child, root}
	edges := []aggregates.GraphEdge{
		aggregates.NewEdge(aggregates.EdgeKindParent, root.ID, child.ID, ""),
		aggregates.NewEdge(aggregates.EdgeKindParent, child.ID, grandchild.ID, ""),
		// Internal links never influence ranking.
		aggregates.NewEdge(aggregates.EdgeKindInternalLink, grandchild.ID, root.ID, ""),
	}

	out := NewHierarchical().Apply(nodes, edges)

	byID := make(map[string]aggregates.GraphNode)
	for _, n := range out {
		byID[n.ID.String()] = n
	}

	assert.Equal(t, 0.0, byID["root"].Position.Y)
	assert.Equal(t, 0.0, byID["loose"].Position.Y)
	assert.Equal(t, 200.0, byID["child"].Position.Y)
	assert.Equal(t, 400.0, byID["grandchild"].Position.Y)

	// Rank 0 orders by node id: "loose" < "root".
	assert.Equal(t, 0.0, byID["loose"].Position.X)
	assert.Equal(t, 310.0, byID["root"].Position.X)
}

func TestHierarchical_Deterministic(t *testing.T) {
	nodes := []aggregates.GraphNode{
		pageNode(t, "b", 5, 5),
		pageNode(t, "a", 9, 9),
		clusterNode(t, "seo"),
	}
	edges := []aggregates.GraphEdge{
		aggregates.NewEdge(aggregates.EdgeKindClusterMembership, nodes[2].ID, nodes[0].ID, ""),
	}

	h := NewHierarchical()
	first := h.Apply(nodes, edges)
	second := h.Apply(nodes, edges)
	assert.Equal(t, first, second)
}

func TestHierarchical_CycleDoesNotHang(t *testing.T) {
	a := pageNode(t, "a", 0, 0)
	b := pageNode(t, "b", 0, 0)
	nodes := []aggregates.GraphNode{a, b}
	edges := []aggregates.GraphEdge{
		aggregates.NewEdge(aggregates.EdgeKindParent, a.ID, b.ID, ""),
		aggregates.NewEdge(aggregates.EdgeKindParent, b.ID, a.ID, ""),
	}

	out := NewHierarchical().Apply(nodes, edges)
	assert.Len(t, out, 2)
}

func TestCircular_EvenAngles(t *testing.T) {
	nodes := []aggregates.GraphNode{
		pageNode(t, "p0", 0, 0),
		pageNode(t, "p1", 0, 0),
		pageNode(t, "p2", 0, 0),
		pageNode(t, "p3", 0, 0),
	}

	out := NewCircular().Apply(nodes, nil)
	require.Len(t, out, 4)

	// Angles 0, pi/2, pi, 3pi/2 around (400,400) with radius 350.
	assert.InDelta(t, 750.0, out[0].Position.X, 1e-9)
	assert.InDelta(t, 400.0, out[0].Position.Y, 1e-9)
	assert.InDelta(t, 400.0, out[1].Position.X, 1e-9)
	assert.InDelta(t, 750.0, out[1].Position.Y, 1e-9)
	assert.InDelta(t, 50.0, out[2].Position.X, 1e-9)
	assert.InDelta(t, 400.0, out[2].Position.Y, 1e-9)
	assert.InDelta(t, 400.0, out[3].Position.X, 1e-9)
	assert.InDelta(t, 50.0, out[3].Position.Y, 1e-9)

	for _, n := range out {
		dx := n.Position.X - 400
		dy := n.Position.Y - 400
		assert.InDelta(t, 350.0, math.Sqrt(dx*dx+dy*dy), 1e-9)
	}
}

func TestGrid_Placement(t *testing.T) {
	nodes := make([]aggregates.GraphNode, 5)
	for i := range nodes {
		nodes[i] = pageNode(t, string(rune('a'+i)), 999, 999)
	}

	out := NewGrid().Apply(nodes, nil)
	require.Len(t, out, 5)

	// ceil(sqrt(5)) = 3 columns
	assert.Equal(t, 0.0, out[0].Position.X)
	assert.Equal(t, 0.0, out[0].Position.Y)
	assert.Equal(t, 600.0, out[2].Position.X)
	assert.Equal(t, 0.0, out[2].Position.Y)
	assert.Equal(t, 0.0, out[3].Position.X)
	assert.Equal(t, 200.0, out[3].Position.Y)
}

func TestForceDirected_ConvergesToRestLength(t *testing.T) {
	a := pageNode(t, "a", 0, 0)
	b := pageNode(t, "b", 300, 0)
	nodes := []aggregates.GraphNode{a, b}
	edges := []aggregates.GraphEdge{
		aggregates.NewEdge(aggregates.EdgeKindInternalLink, a.ID, b.ID, ""),
	}

	opts := DefaultForceOptions()
	f := NewForceDirected(opts)
	out := f.Apply(nodes, edges)

	dist := nodeDistance(out[0], out[1])
	// Equilibrium sits slightly past the rest length where repulsion balances
	// the spring.
	assert.InDelta(t, opts.RestLength, dist, 5.0)

	// Running further iterations from the settled state barely moves it.
	more := NewForceDirected(ForceOptions{
		Iterations:        20,
		RepulsionStrength: opts.RepulsionStrength,
		SpringStiffness:   opts.SpringStiffness,
		RestLength:        opts.RestLength,
		Damping:           opts.Damping,
	}).Apply(out, edges)
	assert.InDelta(t, dist, nodeDistance(more[0], more[1]), 0.5)
}

func TestForceDirected_SeparatesCoincidentNodes(t *testing.T) {
	nodes := []aggregates.GraphNode{
		pageNode(t, "a", 100, 100),
		pageNode(t, "b", 100, 100),
	}

	out := NewForceDirected(DefaultForceOptions()).Apply(nodes, nil)
	assert.Greater(t, nodeDistance(out[0], out[1]), 1.0)
}

func TestForceDirected_SkipsEdgesWithUnknownEndpoints(t *testing.T) {
	a := pageNode(t, "a", 0, 0)
	b := pageNode(t, "b", 300, 0)
	ghost, err := valueobjects.NewNodeIDFromString("ghost")
	require.NoError(t, err)
	edges := []aggregates.GraphEdge{
		aggregates.NewEdge(aggregates.EdgeKindInternalLink, a.ID, ghost, ""),
	}

	out := NewForceDirected(DefaultForceOptions()).Apply([]aggregates.GraphNode{a, b}, edges)
	assert.Len(t, out, 2)
}

func TestNewForceDirected_SanitizesOptions(t *testing.T) {
	f := NewForceDirected(ForceOptions{Iterations: -1, Damping: 2})
	assert.Equal(t, DefaultForceOptions().Iterations, f.opts.Iterations)
	assert.Equal(t, DefaultForceOptions().Damping, f.opts.Damping)
}

func nodeDistance(a, b aggregates.GraphNode) float64 {
	dx := a.Position.X - b.Position.X
	dy := a.Position.Y - b.Position.Y
	return math.Sqrt(dx*dx + dy*dy)
}
