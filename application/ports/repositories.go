package ports

import (
	"context"

	"sitegraph/domain/core/entities"
	"sitegraph/domain/events"
)

// SitemapRepository is the persistence collaborator for the sitemap engine.
// This is a port in hexagonal architecture - the domain doesn't know about
// the implementation. The engine treats it as the system of record for page
// and position data between sessions; within a session the in-memory graph
// is authoritative.
type SitemapRepository interface {
	// ListPages retrieves the page batch for a website
	ListPages(ctx context.Context, websiteID string) ([]entities.Page, error)

	// ListPositions retrieves the saved canvas positions for a website
	ListPositions(ctx context.Context, websiteID string) ([]entities.SavedPosition, error)

	// BulkUpdatePositions persists canvas positions. Called fire-and-forget
	// on drag release and layout application.
	BulkUpdatePositions(ctx context.Context, websiteID string, positions []entities.SavedPosition) error

	// CreateInternalLink records a user-drawn internal link between two pages
	CreateInternalLink(ctx context.Context, websiteID, sourcePageID, targetPageID string) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error
}
