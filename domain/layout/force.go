package layout

import (
	"math"

	"sitegraph/domain/core/aggregates"
	"sitegraph/domain/core/valueobjects"
)

// ForceOptions tunes the spring simulation
type ForceOptions struct {
	Iterations        int     // discrete time steps to run
	RepulsionStrength float64 // inverse-square pairwise repulsion constant
	SpringStiffness   float64 // linear attraction per unit of stretch
	RestLength        float64 // target edge length
	Damping           float64 // velocity decay per step, must be < 1
}

// DefaultForceOptions returns the standard simulation parameters
func DefaultForceOptions() ForceOptions {
	return ForceOptions{
		Iterations:        100,
		RepulsionStrength: 10000,
		SpringStiffness:   0.1,
		RestLength:        200,
		Damping:           0.85,
	}
}

// ForceDirected runs a fixed-iteration spring simulation: every node pair
// repels with inverse-square strength, every edge attracts its endpoints
// toward the rest length, and velocities decay exponentially so the system
// settles instead of oscillating. The pairwise pass is O(N²) per iteration
// on purpose: sitemap graphs stay in the low hundreds of nodes, and a
// spatial-partition approximation would change convergence behavior.
type ForceDirected struct {
	opts ForceOptions
}

// NewForceDirected creates a force-directed layout with the given options
func NewForceDirected(opts ForceOptions) *ForceDirected {
	if opts.Iterations <= 0 {
		opts.Iterations = DefaultForceOptions().Iterations
	}
	if opts.Damping <= 0 || opts.Damping >= 1 {
		opts.Damping = DefaultForceOptions().Damping
	}
	return &ForceDirected{opts: opts}
}

// Name returns the registered algorithm name
func (f *ForceDirected) Name() string {
	return NameForceDirected
}

type vector struct {
	x, y float64
}

// Apply runs the simulation seeded from the nodes' current positions.
// The iteration loop is synchronous and runs to completion; there is no
// mid-simulation cancellation.
func (f *ForceDirected) Apply(nodes []aggregates.GraphNode, edges []aggregates.GraphEdge) []aggregates.GraphNode {
	out := cloneNodes(nodes)
	if len(out) == 0 {
		return out
	}

	index := make(map[valueobjects.NodeID]int, len(out))
	positions := make([]vector, len(out))
	velocities := make([]vector, len(out))
	for i, n := range out {
		index[n.ID] = i
		positions[i] = vector{x: n.Position.X, y: n.Position.Y}
	}

	// Resolve edges once; endpoints missing from the node set contribute
	// no spring force.
	type spring struct{ a, b int }
	springs := make([]spring, 0, len(edges))
	for _, e := range edges {
		a, okA := index[e.Source]
		b, okB := index[e.Target]
		if !okA || !okB || a == b {
			continue
		}
		springs = append(springs, spring{a: a, b: b})
	}

	forces := make([]vector, len(out))
	for iter := 0; iter < f.opts.Iterations; iter++ {
		for i := range forces {
			forces[i] = vector{}
		}

		// Pairwise repulsion, inverse-square in distance.
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				dx := positions[i].x - positions[j].x
				dy := positions[i].y - positions[j].y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 1 {
					// Coincident nodes: floor the distance and push along x
					// so they separate instead of dividing by zero.
					dist = 1
					if dx == 0 && dy == 0 {
						dx = 1
					}
				}
				magnitude := f.opts.RepulsionStrength / (dist * dist)
				ux := dx / dist
				uy := dy / dist
				forces[i].x += ux * magnitude
				forces[i].y += uy * magnitude
				forces[j].x -= ux * magnitude
				forces[j].y -= uy * magnitude
			}
		}

		// Spring attraction toward the rest length, linear in stretch.
		for _, s := range springs {
			dx := positions[s.b].x - positions[s.a].x
			dy := positions[s.b].y - positions[s.a].y
			dist := math.Sqrt(dx*dx + dy*dy)
			if dist < 1 {
				dist = 1
			}
			stretch := dist - f.opts.RestLength
			magnitude := f.opts.SpringStiffness * stretch
			ux := dx / dist
			uy := dy / dist
			forces[s.a].x += ux * magnitude
			forces[s.a].y += uy * magnitude
			forces[s.b].x -= ux * magnitude
			forces[s.b].y -= uy * magnitude
		}

		// Damped velocity integration: v = (v + f) * damping, p += v.
		for i := range out {
			velocities[i].x = (velocities[i].x + forces[i].x) * f.opts.Damping
			velocities[i].y = (velocities[i].y + forces[i].y) * f.opts.Damping
			positions[i].x += velocities[i].x
			positions[i].y += velocities[i].y
		}
	}

	for i := range out {
		out[i].Position = valueobjects.NewPosition(positions[i].x, positions[i].y)
	}
	return out
}
