package valueobjects

import (
	"errors"

	"github.com/google/uuid"
)

// graphNamespace is the fixed UUIDv5 namespace for deterministic identifiers.
// Deriving ids inside this namespace guarantees that rebuilding a graph from
// identical input yields byte-identical id sets.
var graphNamespace = uuid.MustParse("8c2f1a4e-6b7d-4f21-9d35-1f0a9c4e7b2d")

// NodeID is a value object identifying a node in the sitemap graph.
// For page nodes it equals the backing page's id; for cluster nodes it is
// derived deterministically from the cluster keyword.
type NodeID struct {
	value string
}

// NewNodeIDFromString creates a NodeID from an existing identifier
func NewNodeIDFromString(id string) (NodeID, error) {
	if id == "" {
		return NodeID{}, errors.New("node ID cannot be empty")
	}
	return NodeID{value: id}, nil
}

// NewClusterNodeID derives the stable node id for a topical cluster.
// The same keyword always produces the same id across rebuilds.
func NewClusterNodeID(keyword string) NodeID {
	return NodeID{value: "cluster-" + uuid.NewSHA1(graphNamespace, []byte("cluster:"+keyword)).String()}
}

// NewEdgeID derives the stable edge id for a (kind, source, target) triple.
// Edge ids are a pure function of their endpoints so re-derivation is
// idempotent and external overlays can reference edges across rebuilds.
func NewEdgeID(kind string, source, target NodeID) string {
	return uuid.NewSHA1(graphNamespace, []byte(kind+":"+source.String()+":"+target.String())).String()
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// MarshalJSON implements json.Marshaler
func (id NodeID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("NodeID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}
