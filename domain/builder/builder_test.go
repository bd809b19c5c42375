package builder

import (
	"testing"

	"sitegraph/domain/core/aggregates"
	"sitegraph/domain/core/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func findNode(snap aggregates.GraphSnapshot, id string) (aggregates.GraphNode, bool) {
	for _, n := range snap.Nodes {
		if n.ID.String() == id {
			return n, true
		}
	}
	return aggregates.GraphNode{}, false
}

func edgesOfKind(snap aggregates.GraphSnapshot, kind aggregates.EdgeKind) []aggregates.GraphEdge {
	var out []aggregates.GraphEdge
	for _, e := range snap.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestBuilder_GridFallbackForUnsavedPositions(t *testing.T) {
	b := NewBuilder()
	pages := []entities.Page{
		{ID: "p0", WebsiteID: "w1", Slug: "a"},
		{ID: "p1", WebsiteID: "w1", Slug: "b"},
		{ID: "p2", WebsiteID: "w1", Slug: "c"},
		{ID: "p3", WebsiteID: "w1", Slug: "d"},
		{ID: "p4", WebsiteID: "w1", Slug: "e"},
	}

	snap := b.Build(pages, nil)
	require.Len(t, snap.Nodes, 5)

	// ceil(sqrt(5)) = 3 columns, cells 300x200
	n3, ok := findNode(snap, "p3")
	require.True(t, ok)
	assert.Equal(t, 0.0, n3.Position.X)
	assert.Equal(t, 200.0, n3.Position.Y)

	n2, ok := findNode(snap, "p2")
	require.True(t, ok)
	assert.Equal(t, 600.0, n2.Position.X)
	assert.Equal(t, 0.0, n2.Position.Y)
}

func TestBuilder_SavedPositionWins(t *testing.T) {
	b := NewBuilder()
	pages := []entities.Page{
		{ID: "p0", WebsiteID: "w1", Slug: "a"},
		{ID: "p1", WebsiteID: "w1", Slug: "b"},
	}
	positions := []entities.SavedPosition{
		{NodeID: "p1", NodeType: entities.NodeTypePage, X: 123, Y: 456},
		// Cluster positions never apply to page nodes even on id collision.
		{NodeID: "p0", NodeType: entities.NodeTypeCluster, X: -1, Y: -1},
	}

	snap := b.Build(pages, positions)

	n1, ok := findNode(snap, "p1")
	require.True(t, ok)
	assert.Equal(t, 123.0, n1.Position.X)
	assert.Equal(t, 456.0, n1.Position.Y)

	n0, ok := findNode(snap, "p0")
	require.True(t, ok)
	assert.Equal(t, 0.0, n0.Position.X)
	assert.Equal(t, 0.0, n0.Position.Y)
}

func TestBuilder_OrphanedParentDropped(t *testing.T) {
	b := NewBuilder()
	pages := []entities.Page{
		{ID: "p0", WebsiteID: "w1", Slug: "root"},
		{ID: "p1", WebsiteID: "w1", Slug: "child", ParentID: strPtr("p0")},
		{ID: "p2", WebsiteID: "w1", Slug: "orphan", ParentID: strPtr("missing")},
		{ID: "p3", WebsiteID: "w1", Slug: "selfish", ParentID: strPtr("p3")},
	}

	snap := b.Build(pages, nil)

	parents := edgesOfKind(snap, aggregates.EdgeKindParent)
	require.Len(t, parents, 1)
	assert.Equal(t, "p0", parents[0].Source.String())
	assert.Equal(t, "p1", parents[0].Target.String())
}

func TestBuilder_InternalLinkResolution(t *testing.T) {
	b := NewBuilder()
	pages := []entities.Page{
		{ID: "p0", WebsiteID: "w1", Slug: "home", OutgoingLinks: []entities.InternalLink{
			{TargetSlug: "about", AnchorText: "about us"},
			{TargetSlug: "nowhere"},
			{TargetSlug: "home"}, // self link
			{TargetSlug: "about"}, // duplicate collapses onto one edge id
		}},
		{ID: "p1", WebsiteID: "w1", Slug: "about"},
	}

	snap := b.Build(pages, nil)

	links := edgesOfKind(snap, aggregates.EdgeKindInternalLink)
	require.Len(t, links, 1)
	assert.Equal(t, "p0", links[0].Source.String())
	assert.Equal(t, "p1", links[0].Target.String())
	assert.Equal(t, "about us", links[0].Label)
}

func TestBuilder_BuildIsIdempotent(t *testing.T) {
	b := NewBuilder()
	pages := []entities.Page{
		{ID: "p0", WebsiteID: "w1", Slug: "home", OutgoingLinks: []entities.InternalLink{{TargetSlug: "about"}}},
		{ID: "p1", WebsiteID: "w1", Slug: "about", ParentID: strPtr("p0")},
	}

	first := b.Build(pages, nil)
	second := b.Build(pages, nil)

	assert.Equal(t, first, second)
}

func TestBuilder_EndToEnd(t *testing.T) {
	b := NewBuilder()
	pages := []entities.Page{
		{ID: "p0", WebsiteID: "w1", Slug: "home", PrimaryKeyword: "coffee"},
		{ID: "p1", WebsiteID: "w1", Slug: "brew-guides", ParentID: strPtr("p0"), PrimaryKeyword: "coffee"},
		{ID: "p2", WebsiteID: "w1", Slug: "espresso", PrimaryKeyword: "coffee"},
		{ID: "p3", WebsiteID: "w1", Slug: "contact"},
		{ID: "p4", WebsiteID: "w1", Slug: "privacy"},
		{ID: "p5", WebsiteID: "w1", Slug: "blog", ParentID: strPtr("missing")},
	}

	snap := b.Build(pages, nil)

	assert.Len(t, snap.Nodes, 6)
	assert.Len(t, edgesOfKind(snap, aggregates.EdgeKindParent), 1)
	assert.Empty(t, edgesOfKind(snap, aggregates.EdgeKindInternalLink))
}

func TestBuilder_DuplicatePageIDFirstWins(t *testing.T) {
	b := NewBuilder()
	pages := []entities.Page{
		{ID: "p0", WebsiteID: "w1", Slug: "first", Title: "First"},
		{ID: "p0", WebsiteID: "w1", Slug: "second", Title: "Second"},
	}

	snap := b.Build(pages, nil)

	require.Len(t, snap.Nodes, 1)
	assert.Equal(t, "first", snap.Nodes[0].Page.Slug)
}
