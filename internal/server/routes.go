package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mediamod/internal/handlers"
	"mediamod/internal/middleware"
	"mediamod/internal/moderation"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(svc *moderation.Service) {
	authMiddleware := middleware.NewAuthMiddleware(s.Cfg)
	moderationHandler := handlers.NewModerationHandler(svc)

	s.App.Get("/healthz", handlers.Healthz)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.App.Group("/api", authMiddleware.RequireToken)

	api.Post("/items", moderationHandler.Submit)
	api.Get("/items", moderationHandler.List)
	api.Get("/items/counts", moderationHandler.Counts)
	api.Get("/items/:id", moderationHandler.Get)

	api.Post("/items/:id/approve", moderationHandler.Approve)
	api.Post("/items/:id/reject", moderationHandler.Reject)
	api.Post("/items/:id/undo", moderationHandler.Undo)
	api.Post("/items/:id/classify", moderationHandler.Classify)
}
