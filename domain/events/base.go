package events

import (
	"time"

	"sitegraph/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// GraphRebuilt is raised when a website's sitemap graph is rebuilt from scratch
type GraphRebuilt struct {
	BaseEvent
	WebsiteID    string `json:"website_id"`
	NodeCount    int    `json:"node_count"`
	EdgeCount    int    `json:"edge_count"`
	ClusterCount int    `json:"cluster_count"`
}

// NewGraphRebuilt creates a GraphRebuilt event
func NewGraphRebuilt(websiteID string, nodeCount, edgeCount, clusterCount int, timestamp time.Time) GraphRebuilt {
	return GraphRebuilt{
		BaseEvent: BaseEvent{
			AggregateID: websiteID,
			EventType:   "graph.rebuilt",
			Timestamp:   timestamp,
		},
		WebsiteID:    websiteID,
		NodeCount:    nodeCount,
		EdgeCount:    edgeCount,
		ClusterCount: clusterCount,
	}
}

// LayoutApplied is raised when a layout algorithm repositions the graph
type LayoutApplied struct {
	BaseEvent
	WebsiteID string `json:"website_id"`
	Algorithm string `json:"algorithm"`
	NodeCount int    `json:"node_count"`
}

// NewLayoutApplied creates a LayoutApplied event
func NewLayoutApplied(websiteID, algorithm string, nodeCount int, timestamp time.Time) LayoutApplied {
	return LayoutApplied{
		BaseEvent: BaseEvent{
			AggregateID: websiteID,
			EventType:   "graph.layout_applied",
			Timestamp:   timestamp,
		},
		WebsiteID: websiteID,
		Algorithm: algorithm,
		NodeCount: nodeCount,
	}
}

// NodeMoved is raised when a node is manually repositioned
type NodeMoved struct {
	BaseEvent
	WebsiteID   string                `json:"website_id"`
	NodeID      valueobjects.NodeID   `json:"node_id"`
	OldPosition valueobjects.Position `json:"old_position"`
	NewPosition valueobjects.Position `json:"new_position"`
}

// NewNodeMoved creates a NodeMoved event
func NewNodeMoved(websiteID string, nodeID valueobjects.NodeID, oldPos, newPos valueobjects.Position, timestamp time.Time) NodeMoved {
	return NodeMoved{
		BaseEvent: BaseEvent{
			AggregateID: websiteID,
			EventType:   "graph.node_moved",
			Timestamp:   timestamp,
		},
		WebsiteID:   websiteID,
		NodeID:      nodeID,
		OldPosition: oldPos,
		NewPosition: newPos,
	}
}

// LinkCreated is raised when the user draws a new internal link edge
type LinkCreated struct {
	BaseEvent
	WebsiteID string              `json:"website_id"`
	EdgeID    string              `json:"edge_id"`
	SourceID  valueobjects.NodeID `json:"source_id"`
	TargetID  valueobjects.NodeID `json:"target_id"`
}

// NewLinkCreated creates a LinkCreated event
func NewLinkCreated(websiteID, edgeID string, sourceID, targetID valueobjects.NodeID, timestamp time.Time) LinkCreated {
	return LinkCreated{
		BaseEvent: BaseEvent{
			AggregateID: websiteID,
			EventType:   "graph.link_created",
			Timestamp:   timestamp,
		},
		WebsiteID: websiteID,
		EdgeID:    edgeID,
		SourceID:  sourceID,
		TargetID:  targetID,
	}
}

// HistoryApplied is raised when an undo or redo snapshot is applied
type HistoryApplied struct {
	BaseEvent
	WebsiteID string `json:"website_id"`
	Direction string `json:"direction"` // "undo" | "redo"
}

// NewHistoryApplied creates a HistoryApplied event
func NewHistoryApplied(websiteID, direction string, timestamp time.Time) HistoryApplied {
	return HistoryApplied{
		BaseEvent: BaseEvent{
			AggregateID: websiteID,
			EventType:   "graph.history_applied",
			Timestamp:   timestamp,
		},
		WebsiteID: websiteID,
		Direction: direction,
	}
}
