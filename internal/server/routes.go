package server

import (
	"github.com/Yash-97136/Pulse/internal/db"
	"github.com/Yash-97136/Pulse/internal/handlers/api"
	"github.com/Yash-97136/Pulse/internal/notify"
	"github.com/Yash-97136/Pulse/internal/store"
	"github.com/Yash-97136/Pulse/internal/trends"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(redis *store.Redis, database *db.DB, reader *trends.Reader, feed *notify.Subscriber) {
	trendsHandler := api.NewTrendsHandler(reader, s.Cfg.TopN)
	anomaliesHandler := api.NewAnomaliesHandler(database, feed)
	healthHandler := api.NewHealthHandler(redis, database)

	s.App.Get("/healthz", healthHandler.Check)

	group := s.App.Group("/api")
	group.Get("/trends", trendsHandler.List)
	group.Get("/trends/:keyword", trendsHandler.Get)
	group.Get("/anomalies", anomaliesHandler.List)
	group.Get("/anomalies/stream", anomaliesHandler.Stream)
}
