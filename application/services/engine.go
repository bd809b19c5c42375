package services

import (
	"context"
	"sync"
	"time"

	"sitegraph/application/ports"
	"sitegraph/domain/builder"
	"sitegraph/domain/clustering"
	"sitegraph/domain/core/aggregates"
	"sitegraph/domain/core/entities"
	"sitegraph/domain/core/valueobjects"
	"sitegraph/domain/events"
	"sitegraph/domain/history"
	"sitegraph/domain/layout"
	"sitegraph/pkg/errors"

	"go.uber.org/zap"
)

// persistTimeout bounds the background position/link writes
const persistTimeout = 10 * time.Second

// SitemapEngine owns one website's editing session: the live graph, its
// undo/redo history and the fire-and-forget persistence of position deltas.
// Entry points are serialized by a mutex; the engine is the Go rendering of
// a single-threaded editor loop, so layout, undo and redo each run to
// completion before the next action is processed.
type SitemapEngine struct {
	websiteID string
	repo      ports.SitemapRepository
	publisher ports.EventPublisher
	builder   *builder.Builder
	extractor *clustering.Extractor
	history   *history.History
	graph     *aggregates.Graph
	logger    *zap.Logger

	mu sync.Mutex
	// wg tracks in-flight background persistence, for clean shutdown and tests
	wg sync.WaitGroup
}

// NewSitemapEngine creates an engine for one website session
func NewSitemapEngine(
	websiteID string,
	repo ports.SitemapRepository,
	publisher ports.EventPublisher,
	historyCapacity int,
	logger *zap.Logger,
) *SitemapEngine {
	return &SitemapEngine{
		websiteID: websiteID,
		repo:      repo,
		publisher: publisher,
		builder:   builder.NewBuilder(),
		extractor: clustering.NewExtractor(),
		history:   history.New(historyCapacity),
		graph:     aggregates.NewGraph(),
		logger:    logger,
	}
}

// LoadWebsite rebuilds the graph from scratch out of the backing page and
// position records, augments it with topical clusters and seeds the history
// with the single initial snapshot so the first undo is a no-op.
func (e *SitemapEngine) LoadWebsite(ctx context.Context) error {
	pages, err := e.repo.ListPages(ctx, e.websiteID)
	if err != nil {
		return errors.Wrap(err, "failed to list pages")
	}
	positions, err := e.repo.ListPositions(ctx, e.websiteID)
	if err != nil {
		return errors.Wrap(err, "failed to list positions")
	}

	snapshot := e.builder.Build(pages, positions)
	graph, err := aggregates.NewGraphFromSnapshot(snapshot)
	if err != nil {
		return errors.Wrap(err, "failed to reconstruct graph")
	}

	saved := make(map[entities.PositionKey]entities.SavedPosition, len(positions))
	for _, pos := range positions {
		saved[pos.Key()] = pos
	}

	clusters := e.extractor.Extract(pages)
	for _, cluster := range clusters {
		node := cluster.Node
		if pos, ok := saved[entities.PositionKey{NodeType: entities.NodeTypeCluster, NodeID: node.ID.String()}]; ok {
			node.Position = valueobjects.NewPosition(pos.X, pos.Y)
		}
		if err := graph.AddNode(node); err != nil {
			continue
		}
		for _, edge := range cluster.Edges {
			// Members missing from this batch are dropped silently.
			_ = graph.AddEdge(edge)
		}
	}

	e.mu.Lock()
	e.graph = graph
	e.history.Seed(graph.Snapshot())
	stats := graph.Snapshot().Stats()
	e.mu.Unlock()

	e.publish(ctx, events.NewGraphRebuilt(e.websiteID, stats.NodeCount, stats.EdgeCount, stats.ClusterCount, time.Now()))

	e.logger.Info("Sitemap graph rebuilt",
		zap.String("websiteID", e.websiteID),
		zap.Int("nodeCount", stats.NodeCount),
		zap.Int("edgeCount", stats.EdgeCount),
		zap.Int("clusterCount", stats.ClusterCount),
	)
	return nil
}

// Snapshot returns a deep copy of the current graph
func (e *SitemapEngine) Snapshot() aggregates.GraphSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph.Snapshot()
}

// CanUndo reports whether an undo step is available
func (e *SitemapEngine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo reports whether a redo step is available
func (e *SitemapEngine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// ApplyLayout runs the named layout algorithm over the current graph,
// applies the resulting positions, records a history entry and persists the
// position deltas out of band.
func (e *SitemapEngine) ApplyLayout(ctx context.Context, name string) (aggregates.GraphSnapshot, error) {
	algorithm, err := layout.ByName(name)
	if err != nil {
		return aggregates.GraphSnapshot{}, errors.NewValidationError(err.Error())
	}

	e.mu.Lock()
	current := e.graph.Snapshot()
	laidOut := algorithm.Apply(current.Nodes, current.Edges)
	e.graph.ApplyPositions(laidOut)
	snapshot := e.graph.Snapshot()
	e.history.Record(snapshot)
	e.mu.Unlock()

	e.publish(ctx, events.NewLayoutApplied(e.websiteID, algorithm.Name(), len(snapshot.Nodes), time.Now()))
	e.persistPositions(snapshot)
	return snapshot, nil
}

// ApplyHierarchical runs the hierarchical rank-based layout
func (e *SitemapEngine) ApplyHierarchical(ctx context.Context) (aggregates.GraphSnapshot, error) {
	return e.ApplyLayout(ctx, layout.NameHierarchical)
}

// ApplyCircular runs the circular layout
func (e *SitemapEngine) ApplyCircular(ctx context.Context) (aggregates.GraphSnapshot, error) {
	return e.ApplyLayout(ctx, layout.NameCircular)
}

// ApplyForceDirected runs the spring simulation layout
func (e *SitemapEngine) ApplyForceDirected(ctx context.Context) (aggregates.GraphSnapshot, error) {
	return e.ApplyLayout(ctx, layout.NameForceDirected)
}

// MoveNode repositions a single node (drag release), records history and
// persists the new position fire-and-forget.
func (e *SitemapEngine) MoveNode(ctx context.Context, nodeID string, x, y float64) error {
	id, err := valueobjects.NewNodeIDFromString(nodeID)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}

	e.mu.Lock()
	node, exists := e.graph.Node(id)
	if !exists {
		e.mu.Unlock()
		return errors.NewNotFoundError("node")
	}
	oldPos := node.Position
	newPos := valueobjects.NewPosition(x, y)
	if err := e.graph.MoveNode(id, newPos); err != nil {
		e.mu.Unlock()
		return errors.NewNotFoundError("node")
	}
	snapshot := e.graph.Snapshot()
	e.history.Record(snapshot)
	e.mu.Unlock()

	e.publish(ctx, events.NewNodeMoved(e.websiteID, id, oldPos, newPos, time.Now()))
	e.persistPositions(snapshot)
	return nil
}

// CreateLink adds a user-drawn internal-link edge between two page nodes.
// The local graph is updated and recorded first; the collaborator write is
// fire-and-forget and never rolls the local edit back.
func (e *SitemapEngine) CreateLink(ctx context.Context, sourceID, targetID string) (aggregates.GraphEdge, error) {
	source, err := valueobjects.NewNodeIDFromString(sourceID)
	if err != nil {
		return aggregates.GraphEdge{}, errors.NewValidationError("source node id is required")
	}
	target, err := valueobjects.NewNodeIDFromString(targetID)
	if err != nil {
		return aggregates.GraphEdge{}, errors.NewValidationError("target node id is required")
	}

	edge := aggregates.NewEdge(aggregates.EdgeKindInternalLink, source, target, "")

	e.mu.Lock()
	if err := e.graph.AddEdge(edge); err != nil {
		e.mu.Unlock()
		return aggregates.GraphEdge{}, errors.NewValidationError(err.Error())
	}
	e.history.Record(e.graph.Snapshot())
	e.mu.Unlock()

	e.publish(ctx, events.NewLinkCreated(e.websiteID, edge.ID, source, target, time.Now()))

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		persistCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := e.repo.CreateInternalLink(persistCtx, e.websiteID, sourceID, targetID); err != nil {
			e.logger.Warn("Failed to persist internal link",
				zap.String("websiteID", e.websiteID),
				zap.String("sourceID", sourceID),
				zap.String("targetID", targetID),
				zap.Error(err),
			)
		}
	}()

	return edge, nil
}

// Undo steps the history cursor back and applies the snapshot to the live
// graph. Past the first entry it is a no-op. The history's applying guard
// stays raised until after the change notification has gone out, so the
// applied snapshot is never re-recorded as a new edit.
func (e *SitemapEngine) Undo(ctx context.Context) (aggregates.GraphSnapshot, bool) {
	return e.applyHistory(ctx, "undo")
}

// Redo steps the history cursor forward and applies the snapshot.
// At the newest entry it is a no-op.
func (e *SitemapEngine) Redo(ctx context.Context) (aggregates.GraphSnapshot, bool) {
	return e.applyHistory(ctx, "redo")
}

func (e *SitemapEngine) applyHistory(ctx context.Context, direction string) (aggregates.GraphSnapshot, bool) {
	e.mu.Lock()

	var snapshot aggregates.GraphSnapshot
	var ok bool
	if direction == "undo" {
		snapshot, ok = e.history.Undo()
	} else {
		snapshot, ok = e.history.Redo()
	}
	if !ok {
		current := e.graph.Snapshot()
		e.mu.Unlock()
		return current, false
	}

	e.history.BeginApply()
	if err := e.graph.Restore(snapshot); err != nil {
		// Snapshots come from our own Record calls; a restore failure means
		// corrupted history, so keep the live graph and drop the guard.
		e.history.EndApply()
		e.mu.Unlock()
		e.logger.Error("Failed to restore history snapshot",
			zap.String("websiteID", e.websiteID),
			zap.String("direction", direction),
			zap.Error(err),
		)
		return e.Snapshot(), false
	}
	applied := e.graph.Snapshot()
	e.mu.Unlock()

	// The guard is lowered only after the notification that observers react
	// to; a reactive Record during this window is silently ignored.
	e.publish(ctx, events.NewHistoryApplied(e.websiteID, direction, time.Now()))
	e.mu.Lock()
	e.history.EndApply()
	e.mu.Unlock()

	e.persistPositions(applied)
	return applied, true
}

// persistPositions flushes the snapshot's positions to the collaborator in
// the background. Failures are logged and never block or roll back local
// editing; the next successful bulk save reconciles.
func (e *SitemapEngine) persistPositions(snapshot aggregates.GraphSnapshot) {
	positions := make([]entities.SavedPosition, 0, len(snapshot.Nodes))
	for _, node := range snapshot.Nodes {
		nodeType := entities.NodeTypePage
		if node.Kind == aggregates.NodeKindCluster {
			nodeType = entities.NodeTypeCluster
		}
		positions = append(positions, entities.SavedPosition{
			NodeID:   node.ID.String(),
			NodeType: nodeType,
			X:        node.Position.X,
			Y:        node.Position.Y,
		})
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := e.repo.BulkUpdatePositions(ctx, e.websiteID, positions); err != nil {
			e.logger.Warn("Failed to persist node positions",
				zap.String("websiteID", e.websiteID),
				zap.Int("positionCount", len(positions)),
				zap.Error(err),
			)
		}
	}()
}

func (e *SitemapEngine) publish(ctx context.Context, event events.DomainEvent) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn("Failed to publish domain event",
			zap.String("eventType", event.GetEventType()),
			zap.Error(err),
		)
	}
}

// Flush waits for in-flight background persistence to finish
func (e *SitemapEngine) Flush() {
	e.wg.Wait()
}
