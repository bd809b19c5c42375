package entities

// NodeType discriminates persisted positions between page and cluster nodes
type NodeType string

const (
	NodeTypePage    NodeType = "page"
	NodeTypeCluster NodeType = "cluster"
)

// SavedPosition is a persisted canvas position keyed by (node_type, node_id).
// Positions are written back fire-and-forget on drag release and layout
// application; the in-memory graph remains authoritative for the session.
type SavedPosition struct {
	NodeID   string   `json:"node_id"`
	NodeType NodeType `json:"node_type"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
}

// PositionKey is the lookup key for a saved position
type PositionKey struct {
	NodeType NodeType
	NodeID   string
}

// Key returns the lookup key for this position
func (s SavedPosition) Key() PositionKey {
	return PositionKey{NodeType: s.NodeType, NodeID: s.NodeID}
}
