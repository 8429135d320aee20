package service

import (
	"item_vault/internal/app"
	"item_vault/internal/pkg/auth"
	"item_vault/internal/pkg/logger"
	"item_vault/internal/pkg/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service encapsulates the HTTP server configuration, including the application's business logic,
// HTTP handlers, the server's run address, and a logger for event and error logging.
type Service struct {
	handlers   *handlers
	app        *app.App
	runAddress string
	log        *logger.Logger
}

// NewService creates and initializes a new Service instance.
// It sets up the handlers using the provided application and logger,
// and configures the server's run address.
func NewService(app *app.App, runAddress string, l *logger.Logger) *Service {
	handlers := newHandlers(app, l)
	return &Service{handlers: handlers, app: app, runAddress: runAddress, log: l}
}

// NewRouter sets up and returns a new chi.Router instance with the necessary middleware and routes.
// It applies logging and metrics middleware globally, and JWT authentication middleware for
// protected routes. Capability checks beyond authentication are performed by the operations
// themselves against the caller's principal.
func (service *Service) NewRouter() chi.Router {
	router := chi.NewRouter()
	router.Use(service.log.WithLogging())
	router.Use(metrics.Middleware)

	router.Handle("/metrics", promhttp.Handler())
	router.Post("/api/auth/login", service.handlers.loginHandler)
	router.Post("/api/auth/register", service.handlers.registerHandler)

	router.Route("/", func(r chi.Router) {
		r.Use(auth.CheckJWTMiddleware())
		r.Get("/api/users", service.handlers.listUsersHandler)
		r.Get("/api/users/me", service.handlers.currentUserHandler)
		r.Get("/api/items", service.handlers.listItemsHandler)
		r.Post("/api/items", service.handlers.createItemHandler)
		r.Get("/api/items/{id}", service.handlers.getItemHandler)
		r.Put("/api/items/{id}", service.handlers.updateItemHandler)
		r.Delete("/api/items/{id}", service.handlers.deleteItemHandler)
		r.Get("/api/inventory", service.handlers.inventoryHandler)
		r.Post("/api/inventory", service.handlers.grantItemHandler)
		r.Get("/api/transfers", service.handlers.listTransfersHandler)
		r.Post("/api/transfers", service.handlers.transferHandler)
		r.Get("/api/statistics", service.handlers.statisticsHandler)
	})
	return router
}
