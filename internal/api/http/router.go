package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/shestoi/rivalsyndicate/internal/api/http/middleware"
	platformhealth "github.com/shestoi/rivalsyndicate/platform/health/http"
	platformobservability "github.com/shestoi/rivalsyndicate/platform/observability"
)

// RouterConfig - внешние обработчики и настройки роутера
type RouterConfig struct {
	ServiceName string
	CORSOrigins []string
	// Interactions - webhook Discord; проверяет подпись сам, без сессии
	Interactions http.Handler
	// Metrics - обработчик /metrics (promhttp)
	Metrics http.Handler
	// HealthChecks - проверки зависимостей для /health
	HealthChecks map[string]platformhealth.Check
}

// NewRouter создаёт HTTP роутер API
// Роуты под /api повторяют публичный контракт фронтенда; роли проверяет service слой
func NewRouter(handler *Handler, auth middleware.Authenticator, cfg RouterConfig, logger *zap.Logger) chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.Recoverer)
	if logger != nil {
		router.Use(platformobservability.HTTPMiddleware(cfg.ServiceName, logger))
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         int((10 * time.Minute).Seconds()),
	}))

	router.Route("/api", func(r chi.Router) {
		r.Get("/", handler.Banner)

		r.Get("/services", handler.ListServices)
		r.Get("/characters", handler.ListCharacters)
		r.Get("/characters/{class}", handler.ListCharactersByClass)
		r.Get("/stats", handler.GetStats)
		r.Get("/vouches", handler.ListVouches)
		r.Get("/rates", handler.GetRates)

		r.Get("/auth/discord/login", handler.DiscordLogin)
		r.Get("/auth/discord/callback", handler.DiscordCallback)

		if cfg.Interactions != nil {
			r.Method(http.MethodPost, "/discord/interactions", cfg.Interactions)
		}

		// Всё остальное требует Authorization: Bearer (middleware отвечает 401)
		r.Group(func(r chi.Router) {
			r.Use(middleware.WithSession(auth, logger))

			r.Get("/auth/me", handler.Me)
			r.Post("/auth/logout", handler.Logout)

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", handler.CreateOrder)
				r.Get("/", handler.ListMyOrders)
				r.Get("/{id}", handler.GetOrder)
				r.Patch("/{id}", handler.UpdateOrder)
			})

			r.Get("/admin/orders", handler.ListAllOrders)
			r.Get("/admin/boosters", handler.ListBoosters)

			r.Get("/users", handler.ListUsers)
			r.Patch("/users/{id}/role", handler.UpdateUserRole)

			r.Post("/tickets/{channel_id}/close", handler.CloseTicket)
			r.Post("/discord/commands/register", handler.RegisterCommands)
		})
	})

	router.Get("/health", platformhealth.Handler(cfg.HealthChecks))
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics)
	}

	return router
}
