package aggregates

import (
	"errors"
	"fmt"

	"sitegraph/domain/core/entities"
	"sitegraph/domain/core/valueobjects"
)

// NodeKind discriminates the node payload variant
type NodeKind string

const (
	NodeKindPage    NodeKind = "page"
	NodeKindCluster NodeKind = "cluster"
)

// EdgeKind classifies the relationship an edge represents
type EdgeKind string

const (
	EdgeKindParent            EdgeKind = "parent"
	EdgeKindInternalLink      EdgeKind = "internal-link"
	EdgeKindClusterMembership EdgeKind = "cluster-membership"
)

// PagePayload carries the page-specific fields rendered on a page node
type PagePayload struct {
	Slug           string              `json:"slug"`
	Title          string              `json:"title"`
	PageType       string              `json:"page_type"`
	Status         entities.PageStatus `json:"status"`
	Priority       int                 `json:"priority"`
	FreshnessScore float64             `json:"freshness_score"`
	AlertCount     int                 `json:"alert_count"`
	TaskCount      int                 `json:"task_count"`
}

// ClusterPayload carries the fields rendered on a synthetic cluster node
type ClusterPayload struct {
	Name           string   `json:"name"`
	Topics         []string `json:"topics,omitempty"`
	PageCount      int      `json:"page_count"`
	PrimaryKeyword string   `json:"primary_keyword"`
}

// GraphNode is a positioned vertex in the sitemap graph. The payload is a
// tagged union discriminated by Kind: exactly one of Page or Cluster is set.
type GraphNode struct {
	ID       valueobjects.NodeID   `json:"id"`
	Kind     NodeKind              `json:"kind"`
	Position valueobjects.Position `json:"position"`
	Page     *PagePayload          `json:"page,omitempty"`
	Cluster  *ClusterPayload       `json:"cluster,omitempty"`
}

// Validate checks the kind/payload pairing
func (n GraphNode) Validate() error {
	switch n.Kind {
	case NodeKindPage:
		if n.Page == nil || n.Cluster != nil {
			return fmt.Errorf("page node %s must carry exactly a page payload", n.ID)
		}
	case NodeKindCluster:
		if n.Cluster == nil || n.Page != nil {
			return fmt.Errorf("cluster node %s must carry exactly a cluster payload", n.ID)
		}
	default:
		return fmt.Errorf("unknown node kind %q", n.Kind)
	}
	return nil
}

// Clone returns a structurally independent copy of the node
func (n GraphNode) Clone() GraphNode {
	c := n
	if n.Page != nil {
		page := *n.Page
		c.Page = &page
	}
	if n.Cluster != nil {
		cluster := *n.Cluster
		cluster.Topics = append([]string(nil), n.Cluster.Topics...)
		c.Cluster = &cluster
	}
	return c
}

// GraphEdge is a directed relationship between two nodes. Its id is a pure
// function of (kind, source, target), so rebuilding from identical input
// yields identical edge id sets.
type GraphEdge struct {
	ID     string              `json:"id"`
	Source valueobjects.NodeID `json:"source"`
	Target valueobjects.NodeID `json:"target"`
	Kind   EdgeKind            `json:"kind"`
	Label  string              `json:"label,omitempty"`
}

// NewEdge derives an edge with its deterministic identifier
func NewEdge(kind EdgeKind, source, target valueobjects.NodeID, label string) GraphEdge {
	return GraphEdge{
		ID:     valueobjects.NewEdgeID(string(kind), source, target),
		Source: source,
		Target: target,
		Kind:   kind,
		Label:  label,
	}
}

// GraphSnapshot is an immutable (nodes, edges) pair captured for history.
// Snapshots are deep copies: later mutation of the live graph never aliases
// a snapshot's slices or payloads.
type GraphSnapshot struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Clone returns a structurally independent copy of the snapshot
func (s GraphSnapshot) Clone() GraphSnapshot {
	nodes := make([]GraphNode, len(s.Nodes))
	for i, n := range s.Nodes {
		nodes[i] = n.Clone()
	}
	edges := make([]GraphEdge, len(s.Edges))
	copy(edges, s.Edges)
	return GraphSnapshot{Nodes: nodes, Edges: edges}
}

// Stats summarizes a snapshot for the visualization layer
type Stats struct {
	NodeCount    int     `json:"node_count"`
	EdgeCount    int     `json:"edge_count"`
	ClusterCount int     `json:"cluster_count"`
	Density      float64 `json:"density"`
}

// Stats computes node, edge and cluster counts plus edge density
func (s GraphSnapshot) Stats() Stats {
	stats := Stats{NodeCount: len(s.Nodes), EdgeCount: len(s.Edges)}
	for _, n := range s.Nodes {
		if n.Kind == NodeKindCluster {
			stats.ClusterCount++
		}
	}
	if stats.NodeCount > 1 {
		possible := float64(stats.NodeCount) * float64(stats.NodeCount-1)
		stats.Density = float64(stats.EdgeCount) / possible
	}
	return stats
}

// Graph is the aggregate root for one website's sitemap graph.
// It owns the live node/edge state for the editing session and enforces
// the construction invariants; history snapshots are taken through it.
type Graph struct {
	nodes   []GraphNode
	index   map[valueobjects.NodeID]int
	edges   []GraphEdge
	edgeIDs map[string]struct{}
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		index:   make(map[valueobjects.NodeID]int),
		edgeIDs: make(map[string]struct{}),
	}
}

// NewGraphFromSnapshot reconstructs a graph from a snapshot.
// The snapshot is deep-copied; the caller's copy stays independent.
func NewGraphFromSnapshot(snapshot GraphSnapshot) (*Graph, error) {
	g := NewGraph()
	clone := snapshot.Clone()
	for _, node := range clone.Nodes {
		if err := g.AddNode(node); err != nil {
			return nil, err
		}
	}
	for _, edge := range clone.Edges {
		if err := g.AddEdge(edge); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddNode adds a node to the graph
func (g *Graph) AddNode(node GraphNode) error {
	if err := node.Validate(); err != nil {
		return err
	}
	if _, exists := g.index[node.ID]; exists {
		return fmt.Errorf("node %s already exists in graph", node.ID)
	}
	g.index[node.ID] = len(g.nodes)
	g.nodes = append(g.nodes, node)
	return nil
}

// AddEdge adds an edge to the graph. Both endpoints must already exist;
// cluster-membership edges must point from a cluster node to a page node.
func (g *Graph) AddEdge(edge GraphEdge) error {
	srcIdx, srcExists := g.index[edge.Source]
	tgtIdx, tgtExists := g.index[edge.Target]
	if !srcExists || !tgtExists {
		return errors.New("both edge endpoints must exist in graph")
	}
	if edge.Source.Equals(edge.Target) {
		return errors.New("cannot connect node to itself")
	}
	if edge.Kind == EdgeKindClusterMembership {
		if g.nodes[srcIdx].Kind != NodeKindCluster || g.nodes[tgtIdx].Kind != NodeKindPage {
			return errors.New("cluster membership edges must point from a cluster to a page")
		}
	}
	if _, exists := g.edgeIDs[edge.ID]; exists {
		return fmt.Errorf("edge %s already exists in graph", edge.ID)
	}
	g.edgeIDs[edge.ID] = struct{}{}
	g.edges = append(g.edges, edge)
	return nil
}

// HasNode checks if a node exists in the graph
func (g *Graph) HasNode(id valueobjects.NodeID) bool {
	_, exists := g.index[id]
	return exists
}

// HasEdge checks if an edge with the given id exists
func (g *Graph) HasEdge(id string) bool {
	_, exists := g.edgeIDs[id]
	return exists
}

// Node retrieves a node by id
func (g *Graph) Node(id valueobjects.NodeID) (GraphNode, bool) {
	idx, exists := g.index[id]
	if !exists {
		return GraphNode{}, false
	}
	return g.nodes[idx], true
}

// MoveNode updates a node's position in place
func (g *Graph) MoveNode(id valueobjects.NodeID, position valueobjects.Position) error {
	idx, exists := g.index[id]
	if !exists {
		return fmt.Errorf("node %s not found", id)
	}
	g.nodes[idx].Position = position
	return nil
}

// ApplyPositions copies positions from laid-out nodes back into the graph
// by id. Unknown ids are ignored so stale layout output cannot corrupt the
// live graph.
func (g *Graph) ApplyPositions(nodes []GraphNode) {
	for _, node := range nodes {
		if idx, exists := g.index[node.ID]; exists {
			g.nodes[idx].Position = node.Position
		}
	}
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Snapshot captures a deep, alias-free copy of the current graph state
func (g *Graph) Snapshot() GraphSnapshot {
	return GraphSnapshot{Nodes: g.nodes, Edges: g.edges}.Clone()
}

// Restore replaces the graph's contents with a deep copy of the snapshot
func (g *Graph) Restore(snapshot GraphSnapshot) error {
	restored, err := NewGraphFromSnapshot(snapshot)
	if err != nil {
		return err
	}
	*g = *restored
	return nil
}

// Validate ensures graph invariants: unique node ids, no dangling edges,
// correctly paired payloads and membership edge direction
func (g *Graph) Validate() error {
	seen := make(map[valueobjects.NodeID]struct{}, len(g.nodes))
	for _, node := range g.nodes {
		if err := node.Validate(); err != nil {
			return err
		}
		if _, dup := seen[node.ID]; dup {
			return fmt.Errorf("duplicate node id %s", node.ID)
		}
		seen[node.ID] = struct{}{}
	}
	for _, edge := range g.edges {
		srcIdx, srcExists := g.index[edge.Source]
		tgtIdx, tgtExists := g.index[edge.Target]
		if !srcExists {
			return fmt.Errorf("edge %s references non-existent source node %s", edge.ID, edge.Source)
		}
		if !tgtExists {
			return fmt.Errorf("edge %s references non-existent target node %s", edge.ID, edge.Target)
		}
		if edge.Kind == EdgeKindClusterMembership {
			if g.nodes[srcIdx].Kind != NodeKindCluster || g.nodes[tgtIdx].Kind != NodeKindPage {
				return fmt.Errorf("membership edge %s must point cluster->page", edge.ID)
			}
		}
	}
	return nil
}
