package clustering

import (
	"sort"
	"strings"
	"unicode"

	"sitegraph/domain/core/aggregates"
	"sitegraph/domain/core/entities"
	"sitegraph/domain/core/valueobjects"
)

// Cluster placement constants. Clusters are parked in a column off to the
// left of the page canvas, stacked by cluster index; layout algorithms do
// not treat them specially beyond their larger footprint.
const (
	clusterColumnX  = -400.0
	clusterSpacingY = 200.0
)

// Cluster is a synthetic topical grouping node plus its membership edges
type Cluster struct {
	Node  aggregates.GraphNode
	Edges []aggregates.GraphEdge
}

// Extractor groups pages sharing a primary keyword into topical clusters
type Extractor struct{}

// NewExtractor creates a cluster extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract groups the supplied pages by primary keyword and returns one
// cluster per keyword with more than one member. Pages without a primary
// keyword are excluded; singleton groups convey no structure and are
// discarded. Output order is sorted by keyword so cluster placement is
// stable across rebuilds.
func (e *Extractor) Extract(pages []entities.Page) []Cluster {
	groups := make(map[string][]entities.Page)
	for _, page := range pages {
		keyword := strings.TrimSpace(strings.ToLower(page.PrimaryKeyword))
		if keyword == "" {
			continue
		}
		groups[keyword] = append(groups[keyword], page)
	}

	keywords := make([]string, 0, len(groups))
	for keyword, members := range groups {
		if len(members) > 1 {
			keywords = append(keywords, keyword)
		}
	}
	sort.Strings(keywords)

	clusters := make([]Cluster, 0, len(keywords))
	for i, keyword := range keywords {
		members := groups[keyword]
		clusterID := valueobjects.NewClusterNodeID(keyword)

		node := aggregates.GraphNode{
			ID:       clusterID,
			Kind:     aggregates.NodeKindCluster,
			Position: valueobjects.NewPosition(clusterColumnX, float64(i)*clusterSpacingY),
			Cluster: &aggregates.ClusterPayload{
				Name:           capitalize(keyword),
				Topics:         collectTopics(members),
				PageCount:      len(members),
				PrimaryKeyword: keyword,
			},
		}

		edges := make([]aggregates.GraphEdge, 0, len(members))
		for _, member := range members {
			memberID, err := valueobjects.NewNodeIDFromString(member.ID)
			if err != nil {
				continue
			}
			edges = append(edges, aggregates.NewEdge(aggregates.EdgeKindClusterMembership, clusterID, memberID, ""))
		}

		clusters = append(clusters, Cluster{Node: node, Edges: edges})
	}

	return clusters
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func collectTopics(pages []entities.Page) []string {
	seen := make(map[string]struct{})
	var topics []string
	for _, page := range pages {
		for _, topic := range page.Topics {
			if _, dup := seen[topic]; dup {
				continue
			}
			seen[topic] = struct{}{}
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	return topics
}
