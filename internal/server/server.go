package server

import (
	"context"
	"net/http"

	"albion-tracker/internal/config"
	"albion-tracker/internal/domain"
	"albion-tracker/internal/metrics"
	"albion-tracker/internal/middleware"
	"albion-tracker/internal/notify"
	"albion-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type AttendanceAPI interface {
	Calculate(ctx context.Context, req service.AttendanceRequest) (*service.AttendanceResponse, error)
	ScheduleRefresh(req service.AttendanceRequest, resp *service.AttendanceResponse) bool
	History(ctx context.Context, guildName string, minGP int) ([]domain.GuildStatistics, error)
	Ping(ctx context.Context) error
}

type Server struct {
	attendance AttendanceAPI
	registry   *notify.Registry
	metrics    *metrics.Metrics
	cfg        *config.Config
	logger     zerolog.Logger
}

func New(attendance *service.AttendanceService, registry *notify.Registry, m *metrics.Metrics, cfg *config.Config, logger zerolog.Logger) *Server {
	return newServer(attendance, registry, m, cfg, logger)
}

func newServer(attendance AttendanceAPI, registry *notify.Registry, m *metrics.Metrics, cfg *config.Config, logger zerolog.Logger) *Server {
	return &Server{
		attendance: attendance,
		registry:   registry,
		metrics:    m,
		cfg:        cfg,
		logger:     logger,
	}
}

// Routes builds the HTTP surface.
func (s *Server) Routes() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	r := chi.NewRouter()
	r.Use(c.Handler)
	r.Use(middleware.RequestID(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/attendance", s.handleAttendance)
		r.Get("/attendance/stream", s.handleStream)
		r.Get("/guilds/{name}/statistics", s.handleHistory)
	})
	return r
}
