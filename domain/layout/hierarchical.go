package layout

import (
	"sort"

	"sitegraph/domain/core/aggregates"
	"sitegraph/domain/core/valueobjects"
)

// Fixed hierarchical spacing. Cluster nodes reserve a larger bounding box
// than page nodes so dense page rows never collide with cluster labels.
const (
	pageFootprintWidth     = 250.0
	pageFootprintHeight    = 120.0
	clusterFootprintWidth  = 300.0
	clusterFootprintHeight = 150.0
	horizontalSeparation   = 60.0
	rankSeparation         = 200.0
)

// Hierarchical assigns each node to a rank by longest path from the roots
// along structural edges (parent and cluster membership), then lays ranks
// out top-to-bottom with nodes left-to-right inside each rank. Given the
// same node/edge set it always produces the same ranks and the same
// within-rank ordering: ties break on a stable sort by node id.
type Hierarchical struct{}

// NewHierarchical creates a hierarchical layout
func NewHierarchical() *Hierarchical {
	return &Hierarchical{}
}

// Name returns the registered algorithm name
func (h *Hierarchical) Name() string {
	return NameHierarchical
}

// Apply computes ranked positions for the supplied graph
func (h *Hierarchical) Apply(nodes []aggregates.GraphNode, edges []aggregates.GraphEdge) []aggregates.GraphNode {
	out := cloneNodes(nodes)
	if len(out) == 0 {
		return out
	}

	index := make(map[valueobjects.NodeID]int, len(out))
	for i, n := range out {
		index[n.ID] = i
	}

	// Structural predecessor lists; non-structural (internal-link) edges do
	// not influence ranking. Edges with unknown endpoints are skipped.
	preds := make(map[valueobjects.NodeID][]valueobjects.NodeID)
	for _, e := range edges {
		if e.Kind != aggregates.EdgeKindParent && e.Kind != aggregates.EdgeKindClusterMembership {
			continue
		}
		if _, ok := index[e.Source]; !ok {
			continue
		}
		if _, ok := index[e.Target]; !ok {
			continue
		}
		preds[e.Target] = append(preds[e.Target], e.Source)
	}

	ranks := make(map[valueobjects.NodeID]int, len(out))
	visiting := make(map[valueobjects.NodeID]bool)
	var rankOf func(id valueobjects.NodeID) int
	rankOf = func(id valueobjects.NodeID) int {
		if r, done := ranks[id]; done {
			return r
		}
		if visiting[id] {
			// Cycle in malformed input; cut it rather than recurse forever.
			return 0
		}
		visiting[id] = true
		r := 0
		for _, p := range preds[id] {
			if pr := rankOf(p) + 1; pr > r {
				r = pr
			}
		}
		visiting[id] = false
		ranks[id] = r
		return r
	}
	for _, n := range out {
		rankOf(n.ID)
	}

	// Group into ranks with a stable id ordering inside each.
	byRank := make(map[int][]int)
	maxRank := 0
	for i, n := range out {
		r := ranks[n.ID]
		byRank[r] = append(byRank[r], i)
		if r > maxRank {
			maxRank = r
		}
	}

	for r := 0; r <= maxRank; r++ {
		row := byRank[r]
		sort.Slice(row, func(a, b int) bool {
			return out[row[a]].ID.String() < out[row[b]].ID.String()
		})
		x := 0.0
		for _, i := range row {
			w, _ := footprint(out[i].Kind)
			out[i].Position = valueobjects.NewPosition(x, float64(r)*rankSeparation)
			x += w + horizontalSeparation
		}
	}

	return out
}

func footprint(kind aggregates.NodeKind) (width, height float64) {
	if kind == aggregates.NodeKindCluster {
		return clusterFootprintWidth, clusterFootprintHeight
	}
	return pageFootprintWidth, pageFootprintHeight
}
