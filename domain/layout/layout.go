package layout

import (
	"fmt"

	"sitegraph/domain/core/aggregates"
)

// Algorithm computes new node positions for a node/edge graph.
// Implementations are pure: they never mutate their input and return nodes
// with updated positions in the same identity and order. This matters
// because the history manager snapshots the graph before and after a layout
// is applied. Empty input yields an empty result; edges referencing unknown
// node ids are skipped rather than failing.
type Algorithm interface {
	Name() string
	Apply(nodes []aggregates.GraphNode, edges []aggregates.GraphEdge) []aggregates.GraphNode
}

// Algorithm names accepted by the layout selection API
const (
	NameHierarchical  = "hierarchical"
	NameCircular      = "circular"
	NameForceDirected = "force_directed"
	NameGrid          = "grid"
)

// ByName returns the layout algorithm registered under the given name
func ByName(name string) (Algorithm, error) {
	switch name {
	case NameHierarchical:
		return NewHierarchical(), nil
	case NameCircular:
		return NewCircular(), nil
	case NameForceDirected:
		return NewForceDirected(DefaultForceOptions()), nil
	case NameGrid:
		return NewGrid(), nil
	default:
		return nil, fmt.Errorf("unknown layout algorithm %q", name)
	}
}

// cloneNodes copies the input so algorithms can fill in positions without
// mutating the caller's slice
func cloneNodes(nodes []aggregates.GraphNode) []aggregates.GraphNode {
	out := make([]aggregates.GraphNode, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}
