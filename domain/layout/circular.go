package layout

import (
	"math"

	"sitegraph/domain/core/aggregates"
	"sitegraph/domain/core/valueobjects"
)

// Circle geometry constants
const (
	circleCenterX = 400.0
	circleCenterY = 400.0
	circleRadius  = 350.0
)

// Circular places all supplied nodes evenly around a circle of fixed radius
// and center, in the order supplied. The order dependence is intentional:
// callers wanting a specific visual grouping pre-sort the nodes.
type Circular struct {
	centerX float64
	centerY float64
	radius  float64
}

// NewCircular creates a circular layout with the default geometry
func NewCircular() *Circular {
	return &Circular{centerX: circleCenterX, centerY: circleCenterY, radius: circleRadius}
}

// Name returns the registered algorithm name
func (c *Circular) Name() string {
	return NameCircular
}

// Apply places each node at angle 2π·i/N on the circle
func (c *Circular) Apply(nodes []aggregates.GraphNode, edges []aggregates.GraphEdge) []aggregates.GraphNode {
	out := cloneNodes(nodes)
	if len(out) == 0 {
		return out
	}
	step := 2 * math.Pi / float64(len(out))
	for i := range out {
		angle := step * float64(i)
		out[i].Position = valueobjects.NewPosition(
			c.centerX+c.radius*math.Cos(angle),
			c.centerY+c.radius*math.Sin(angle),
		)
	}
	return out
}
