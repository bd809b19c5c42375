package services

import (
	"context"
	"sync"

	"sitegraph/application/ports"

	"go.uber.org/zap"
)

// SessionManager hands out one SitemapEngine per website. Selecting a
// website that has no session yet triggers a full graph rebuild; history is
// session-scoped and never survives a rebuild.
type SessionManager struct {
	repo            ports.SitemapRepository
	publisher       ports.EventPublisher
	historyCapacity int
	logger          *zap.Logger

	mu      sync.Mutex
	engines map[string]*SitemapEngine
}

// NewSessionManager creates a session manager
func NewSessionManager(
	repo ports.SitemapRepository,
	publisher ports.EventPublisher,
	historyCapacity int,
	logger *zap.Logger,
) *SessionManager {
	return &SessionManager{
		repo:            repo,
		publisher:       publisher,
		historyCapacity: historyCapacity,
		logger:          logger,
		engines:         make(map[string]*SitemapEngine),
	}
}

// Engine returns the engine for a website, loading the graph on first use
func (m *SessionManager) Engine(ctx context.Context, websiteID string) (*SitemapEngine, error) {
	m.mu.Lock()
	engine, exists := m.engines[websiteID]
	m.mu.Unlock()
	if exists {
		return engine, nil
	}

	engine = NewSitemapEngine(websiteID, m.repo, m.publisher, m.historyCapacity, m.logger)
	if err := engine.LoadWebsite(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	// Another request may have loaded the same website concurrently; keep
	// the first one so session history stays consistent.
	if existing, raced := m.engines[websiteID]; raced {
		m.mu.Unlock()
		return existing, nil
	}
	m.engines[websiteID] = engine
	m.mu.Unlock()
	return engine, nil
}

// Reload drops any existing session and rebuilds the website's graph from
// scratch, discarding its history.
func (m *SessionManager) Reload(ctx context.Context, websiteID string) (*SitemapEngine, error) {
	m.mu.Lock()
	delete(m.engines, websiteID)
	m.mu.Unlock()
	return m.Engine(ctx, websiteID)
}

// Close waits for all engines' background persistence to drain
func (m *SessionManager) Close() {
	m.mu.Lock()
	engines := make([]*SitemapEngine, 0, len(m.engines))
	for _, engine := range m.engines {
		engines = append(engines, engine)
	}
	m.mu.Unlock()
	for _, engine := range engines {
		engine.Flush()
	}
}
