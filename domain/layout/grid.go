package layout

import (
	"math"

	"sitegraph/domain/core/aggregates"
	"sitegraph/domain/core/valueobjects"
)

// Grid cell dimensions
const (
	gridCellWidth  = 300.0
	gridCellHeight = 200.0
)

// Grid places nodes on a square grid in the order supplied. It doubles as
// the deterministic fallback placement used before any real layout runs.
type Grid struct{}

// NewGrid creates a grid layout
func NewGrid() *Grid {
	return &Grid{}
}

// Name returns the registered algorithm name
func (g *Grid) Name() string {
	return NameGrid
}

// Apply assigns node i to column i mod ceil(sqrt(n)) and the corresponding row
func (g *Grid) Apply(nodes []aggregates.GraphNode, edges []aggregates.GraphEdge) []aggregates.GraphNode {
	out := cloneNodes(nodes)
	if len(out) == 0 {
		return out
	}
	columns := int(math.Ceil(math.Sqrt(float64(len(out)))))
	if columns < 1 {
		columns = 1
	}
	for i := range out {
		col := i % columns
		row := i / columns
		out[i].Position = valueobjects.NewPosition(float64(col)*gridCellWidth, float64(row)*gridCellHeight)
	}
	return out
}
