package di

import (
	"sitegraph/application/ports"
	"sitegraph/application/services"
	"sitegraph/infrastructure/config"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Repo      ports.SitemapRepository
	Publisher ports.EventPublisher
	Sessions  *services.SessionManager
}
