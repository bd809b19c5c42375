package memory

import (
	"context"
	"fmt"
	"sync"

	"sitegraph/application/ports"
	"sitegraph/domain/core/entities"
)

// SitemapRepository is an in-memory ports.SitemapRepository used for
// development and tests. Safe for concurrent use.
type SitemapRepository struct {
	mu        sync.RWMutex
	pages     map[string][]entities.Page                              // websiteID -> pages
	positions map[string]map[entities.PositionKey]entities.SavedPosition // websiteID -> positions
}

// NewSitemapRepository creates an empty in-memory repository
func NewSitemapRepository() *SitemapRepository {
	return &SitemapRepository{
		pages:     make(map[string][]entities.Page),
		positions: make(map[string]map[entities.PositionKey]entities.SavedPosition),
	}
}

// SeedPages replaces the page batch for a website
func (r *SitemapRepository) SeedPages(websiteID string, pages []entities.Page) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[websiteID] = append([]entities.Page(nil), pages...)
}

// SeedPositions replaces the saved positions for a website
func (r *SitemapRepository) SeedPositions(websiteID string, positions []entities.SavedPosition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byKey := make(map[entities.PositionKey]entities.SavedPosition, len(positions))
	for _, pos := range positions {
		byKey[pos.Key()] = pos
	}
	r.positions[websiteID] = byKey
}

// ListPages retrieves the page batch for a website
func (r *SitemapRepository) ListPages(ctx context.Context, websiteID string) ([]entities.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entities.Page(nil), r.pages[websiteID]...), nil
}

// ListPositions retrieves the saved positions for a website
func (r *SitemapRepository) ListPositions(ctx context.Context, websiteID string) ([]entities.SavedPosition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	positions := make([]entities.SavedPosition, 0, len(r.positions[websiteID]))
	for _, pos := range r.positions[websiteID] {
		positions = append(positions, pos)
	}
	return positions, nil
}

// BulkUpdatePositions stores the supplied positions
func (r *SitemapRepository) BulkUpdatePositions(ctx context.Context, websiteID string, positions []entities.SavedPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	byKey, exists := r.positions[websiteID]
	if !exists {
		byKey = make(map[entities.PositionKey]entities.SavedPosition)
		r.positions[websiteID] = byKey
	}
	for _, pos := range positions {
		byKey[pos.Key()] = pos
	}
	return nil
}

// CreateInternalLink appends an outgoing link to the source page
func (r *SitemapRepository) CreateInternalLink(ctx context.Context, websiteID, sourcePageID, targetPageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	pages := r.pages[websiteID]
	targetSlug := ""
	for _, page := range pages {
		if page.ID == targetPageID {
			targetSlug = page.Slug
			break
		}
	}
	if targetSlug == "" {
		return fmt.Errorf("target page %s not found", targetPageID)
	}

	for i := range pages {
		if pages[i].ID == sourcePageID {
			pages[i].OutgoingLinks = append(pages[i].OutgoingLinks, entities.InternalLink{TargetSlug: targetSlug})
			return nil
		}
	}
	return fmt.Errorf("source page %s not found", sourcePageID)
}

var _ ports.SitemapRepository = (*SitemapRepository)(nil)
