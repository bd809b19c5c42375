package builder

import (
	"math"

	"sitegraph/domain/core/aggregates"
	"sitegraph/domain/core/entities"
	"sitegraph/domain/core/valueobjects"
)

// Fallback grid cell dimensions for pages without a saved position
const (
	defaultCellWidth  = 300.0
	defaultCellHeight = 200.0
)

// Builder converts page and saved-position records into a node/edge graph.
// Construction is tolerant: orphaned parent references and
// unresolvable link targets are dropped silently, never surfaced as errors,
// because the source system cannot guarantee referential integrity across
// pagination and filtering.
type Builder struct {
	cellWidth  float64
	cellHeight float64
}

// NewBuilder creates a builder with the default grid cell dimensions
func NewBuilder() *Builder {
	return &Builder{cellWidth: defaultCellWidth, cellHeight: defaultCellHeight}
}

// Build constructs a graph snapshot from the supplied batch of pages and
// saved positions. Building twice from identical input yields identical
// node and edge id sets.
func (b *Builder) Build(pages []entities.Page, positions []entities.SavedPosition) aggregates.GraphSnapshot {
	graph := aggregates.NewGraph()

	saved := make(map[entities.PositionKey]entities.SavedPosition, len(positions))
	for _, pos := range positions {
		saved[pos.Key()] = pos
	}

	// Columns of the fallback grid; stable for a given batch size so node
	// placement is deterministic in input order.
	columns := int(math.Ceil(math.Sqrt(float64(len(pages)))))

	slugToID := make(map[string]valueobjects.NodeID, len(pages))
	for i, page := range pages {
		nodeID, err := valueobjects.NewNodeIDFromString(page.ID)
		if err != nil {
			continue
		}
		node := aggregates.GraphNode{
			ID:       nodeID,
			Kind:     aggregates.NodeKindPage,
			Position: b.resolvePosition(saved, page.ID, i, columns),
			Page: &aggregates.PagePayload{
				Slug:           page.Slug,
				Title:          page.Title,
				PageType:       page.PageType,
				Status:         page.Status,
				Priority:       page.Priority,
				FreshnessScore: page.FreshnessScore,
				AlertCount:     page.AlertCount,
				TaskCount:      page.TaskCount,
			},
		}
		if err := graph.AddNode(node); err != nil {
			// Duplicate page id in the batch; first occurrence wins.
			continue
		}
		slugToID[page.Slug] = nodeID
	}

	for _, page := range pages {
		childID, err := valueobjects.NewNodeIDFromString(page.ID)
		if err != nil || !graph.HasNode(childID) {
			continue
		}

		if page.HasParent() {
			parentID, err := valueobjects.NewNodeIDFromString(*page.ParentID)
			if err == nil && graph.HasNode(parentID) {
				edge := aggregates.NewEdge(aggregates.EdgeKindParent, parentID, childID, "")
				_ = graph.AddEdge(edge)
			}
		}

		for _, link := range page.OutgoingLinks {
			targetID, resolved := slugToID[link.TargetSlug]
			if !resolved || targetID.Equals(childID) {
				continue
			}
			edge := aggregates.NewEdge(aggregates.EdgeKindInternalLink, childID, targetID, link.AnchorText)
			// Duplicate links to the same target collapse onto one edge id.
			_ = graph.AddEdge(edge)
		}
	}

	return graph.Snapshot()
}

func (b *Builder) resolvePosition(saved map[entities.PositionKey]entities.SavedPosition, pageID string, index, columns int) valueobjects.Position {
	if pos, ok := saved[entities.PositionKey{NodeType: entities.NodeTypePage, NodeID: pageID}]; ok {
		return valueobjects.NewPosition(pos.X, pos.Y)
	}
	if columns < 1 {
		columns = 1
	}
	col := index % columns
	row := index / columns
	return valueobjects.NewPosition(float64(col)*b.cellWidth, float64(row)*b.cellHeight)
}
