package rest

import (
	"time"

	"sitegraph/application/services"
	"sitegraph/infrastructure/config"
	"sitegraph/interfaces/http/rest/handlers"
	custommiddleware "sitegraph/interfaces/http/rest/middleware"
	"sitegraph/pkg/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// NewRouter builds the HTTP routing tree
func NewRouter(cfg *config.Config, sessions *services.SessionManager, logger *zap.Logger) (chi.Router, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	healthHandler := handlers.NewHealthHandler(Version)
	graphHandler := handlers.NewGraphHandler(sessions, logger)

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	var validator *auth.JWTValidator
	if cfg.JWTSecret != "" {
		var err error
		validator, err = auth.NewJWTValidator(auth.JWTConfig{
			SecretKey: cfg.JWTSecret,
			Issuer:    cfg.JWTIssuer,
		})
		if err != nil {
			return nil, err
		}
	}

	r.Route("/api/v1", func(r chi.Router) {
		if validator != nil {
			r.Use(custommiddleware.Authenticate(validator))
		}

		r.Route("/websites/{websiteID}/graph", func(r chi.Router) {
			r.Get("/", graphHandler.GetGraph)
			r.Post("/reload", graphHandler.ReloadGraph)
			r.Post("/layout", graphHandler.ApplyLayout)
			r.Post("/undo", graphHandler.Undo)
			r.Post("/redo", graphHandler.Redo)
			r.Put("/positions", graphHandler.MoveNode)
			r.Post("/links", graphHandler.CreateLink)
		})
	})

	return r, nil
}
