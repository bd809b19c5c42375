package services

import (
	"context"
	"sync"
	"testing"

	"sitegraph/domain/core/aggregates"
	"sitegraph/domain/core/entities"
	"sitegraph/domain/events"
	"sitegraph/infrastructure/persistence/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.GetEventType()
	}
	return types
}

func strPtr(s string) *string {
	return &s
}

func seededRepo(t *testing.T) *memory.SitemapRepository {
	t.Helper()
	repo := memory.NewSitemapRepository()
	repo.SeedPages("w1", []entities.Page{
		{ID: "p0", WebsiteID: "w1", Slug: "home", Title: "Home", PrimaryKeyword: "coffee"},
		{ID: "p1", WebsiteID: "w1", Slug: "guides", Title: "Guides", ParentID: strPtr("p0"), PrimaryKeyword: "coffee"},
		{ID: "p2", WebsiteID: "w1", Slug: "about", Title: "About"},
	})
	return repo
}

func newTestEngine(t *testing.T) (*SitemapEngine, *memory.SitemapRepository, *recordingPublisher) {
	t.Helper()
	repo := seededRepo(t)
	publisher := &recordingPublisher{}
	engine := NewSitemapEngine("w1", repo, publisher, 50, zap.NewNop())
	require.NoError(t, engine.LoadWebsite(context.Background()))
	return engine, repo, publisher
}

func TestEngine_LoadWebsiteBuildsGraphWithClusters(t *testing.T) {
	engine, _, publisher := newTestEngine(t)

	snap := engine.Snapshot()
	stats := snap.Stats()

	// Three pages plus one "coffee" cluster.
	assert.Equal(t, 4, stats.NodeCount)
	assert.Equal(t, 1, stats.ClusterCount)
	// One parent edge, two membership edges.
	assert.Equal(t, 3, stats.EdgeCount)

	assert.False(t, engine.CanUndo())
	assert.False(t, engine.CanRedo())
	assert.Contains(t, publisher.eventTypes(), "graph.rebuilt")
}

func TestEngine_ApplyLayoutRecordsHistoryAndPersists(t *testing.T) {
	engine, repo, publisher := newTestEngine(t)

	snap, err := engine.ApplyLayout(context.Background(), "circular")
	require.NoError(t, err)
	assert.True(t, engine.CanUndo())
	assert.Contains(t, publisher.eventTypes(), "graph.layout_applied")

	engine.Flush()
	positions, err := repo.ListPositions(context.Background(), "w1")
	require.NoError(t, err)
	assert.Len(t, positions, len(snap.Nodes))
}

func TestEngine_ApplyLayoutUnknownAlgorithm(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.ApplyLayout(context.Background(), "radial")
	assert.Error(t, err)
	assert.False(t, engine.CanUndo())
}

func TestEngine_MoveNodeAndUndoRedo(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	before := engine.Snapshot()
	var original aggregates.GraphNode
	for _, n := range before.Nodes {
		if n.ID.String() == "p0" {
			original = n
		}
	}

	require.NoError(t, engine.MoveNode(context.Background(), "p0", 777, 888))

	snap, ok := engine.Undo(context.Background())
	require.True(t, ok)
	for _, n := range snap.Nodes {
		if n.ID.String() == "p0" {
			assert.Equal(t, original.Position, n.Position)
		}
	}
	assert.True(t, engine.CanRedo())

	snap, ok = engine.Redo(context.Background())
	require.True(t, ok)
	for _, n := range snap.Nodes {
		if n.ID.String() == "p0" {
			assert.Equal(t, 777.0, n.Position.X)
			assert.Equal(t, 888.0, n.Position.Y)
		}
	}
}

func TestEngine_UndoAtSeedIsNoOp(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	before := engine.Snapshot()
	snap, ok := engine.Undo(context.Background())
	assert.False(t, ok)
	assert.Equal(t, len(before.Nodes), len(snap.Nodes))
}

func TestEngine_MoveNodeUnknownID(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	err := engine.MoveNode(context.Background(), "missing", 0, 0)
	assert.Error(t, err)
	assert.False(t, engine.CanUndo())
}

func TestEngine_CreateLink(t *testing.T) {
	engine, repo, publisher := newTestEngine(t)

	edge, err := engine.CreateLink(context.Background(), "p0", "p2")
	require.NoError(t, err)
	assert.Equal(t, aggregates.EdgeKindInternalLink, edge.Kind)
	assert.True(t, engine.CanUndo())
	assert.Contains(t, publisher.eventTypes(), "graph.link_created")

	// Duplicate link collapses onto the same edge id and is rejected.
	_, err = engine.CreateLink(context.Background(), "p0", "p2")
	assert.Error(t, err)

	// Self link rejected.
	_, err = engine.CreateLink(context.Background(), "p0", "p0")
	assert.Error(t, err)

	engine.Flush()
	pages, err := repo.ListPages(context.Background(), "w1")
	require.NoError(t, err)
	for _, page := range pages {
		if page.ID == "p0" {
			require.Len(t, page.OutgoingLinks, 1)
			assert.Equal(t, "about", page.OutgoingLinks[0].TargetSlug)
		}
	}
}

func TestEngine_HistoryAppliedEventAndGuard(t *testing.T) {
	engine, _, publisher := newTestEngine(t)

	require.NoError(t, engine.MoveNode(context.Background(), "p0", 100, 100))
	require.NoError(t, engine.MoveNode(context.Background(), "p0", 200, 200))

	_, ok := engine.Undo(context.Background())
	require.True(t, ok)
	assert.Contains(t, publisher.eventTypes(), "graph.history_applied")

	// After the apply cycle the guard is down again: new edits record.
	require.NoError(t, engine.MoveNode(context.Background(), "p0", 300, 300))
	assert.False(t, engine.CanRedo())
}

func TestSessionManager_ReusesEnginePerWebsite(t *testing.T) {
	repo := seededRepo(t)
	manager := NewSessionManager(repo, &recordingPublisher{}, 50, zap.NewNop())

	first, err := manager.Engine(context.Background(), "w1")
	require.NoError(t, err)
	second, err := manager.Engine(context.Background(), "w1")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestSessionManager_ReloadDiscardsHistory(t *testing.T) {
	repo := seededRepo(t)
	manager := NewSessionManager(repo, &recordingPublisher{}, 50, zap.NewNop())

	engine, err := manager.Engine(context.Background(), "w1")
	require.NoError(t, err)
	require.NoError(t, engine.MoveNode(context.Background(), "p0", 50, 50))
	require.True(t, engine.CanUndo())

	reloaded, err := manager.Reload(context.Background(), "w1")
	require.NoError(t, err)
	assert.NotSame(t, engine, reloaded)
	assert.False(t, reloaded.CanUndo())
}
