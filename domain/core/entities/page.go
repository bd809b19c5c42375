package entities

// PageStatus represents the editorial state of a page
type PageStatus string

const (
	PageStatusDraft     PageStatus = "draft"
	PageStatusReview    PageStatus = "review"
	PageStatusPublished PageStatus = "published"
	PageStatusArchived  PageStatus = "archived"
)

// InternalLink is a hyperlink between two pages of the same website,
// addressed by target slug. Slug resolution happens at graph build time
// against whatever page batch is loaded; unresolved targets are dropped.
type InternalLink struct {
	TargetSlug string `json:"target_slug"`
	AnchorText string `json:"anchor_text,omitempty"`
}

// Page is the read-only page record consumed from the persistence
// collaborator. The engine never mutates pages; it only projects them
// into graph nodes.
type Page struct {
	ID                string         `json:"id"`
	WebsiteID         string         `json:"website_id"`
	Slug              string         `json:"slug"`
	Title             string         `json:"title"`
	PageType          string         `json:"page_type"`
	Status            PageStatus     `json:"status"`
	Priority          int            `json:"priority"`
	ParentID          *string        `json:"parent_id,omitempty"`
	Topics            []string       `json:"topics,omitempty"`
	PrimaryKeyword    string         `json:"primary_keyword,omitempty"`
	SecondaryKeywords []string       `json:"secondary_keywords,omitempty"`
	FreshnessScore    float64        `json:"freshness_score"`
	OutgoingLinks     []InternalLink `json:"outgoing_links,omitempty"`
	IncomingLinks     []InternalLink `json:"incoming_links,omitempty"`
	TaskCount         int            `json:"task_count"`
	AlertCount        int            `json:"alert_count"`
}

// HasParent reports whether the page declares a parent reference.
// The reference may still be unresolvable within a given batch.
func (p Page) HasParent() bool {
	return p.ParentID != nil && *p.ParentID != "" && *p.ParentID != p.ID
}
