package api

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sandevgo/briefbot/internal/config"
	"github.com/sandevgo/briefbot/internal/plan"
	"github.com/sandevgo/briefbot/internal/service/chat"
	"github.com/sandevgo/briefbot/internal/service/planner"
	"github.com/sandevgo/briefbot/internal/telemetry"
	"github.com/sandevgo/briefbot/pkg/log"
)

// Planner produces complete campaign briefs. It is total: fallback content
// is reported through the result, never through an error.
type Planner interface {
	Generate(ctx context.Context, req plan.Request) planner.Result
}

// Converser runs one conversational turn.
type Converser interface {
	Converse(ctx context.Context, req chat.Request) (string, error)
}

// Server is the dashboard-facing HTTP transport.
type Server struct {
	cfg    *config.HTTPConfig
	server *http.Server
}

func NewServer(
	ctx context.Context,
	cfg *config.HTTPConfig,
	planner Planner,
	converser Converser,
	metrics *telemetry.Metrics,
) *Server {
	h := &handlers{planner: planner, converser: converser}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(accessLog(metrics))
	r.Use(middleware.Recoverer)

	r.Post("/generate-artifact", h.generateArtifact)
	r.Post("/converse", h.converse)
	r.Get("/healthz", h.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return &Server{
		cfg: cfg,
		server: &http.Server{
			Addr:    cfg.Addr,
			Handler: r,
			// Handlers inherit the process context so log.FromCtx works.
			BaseContext: func(net.Listener) context.Context { return ctx },
		},
	}
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.Addr).Msg("starting http server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	// The process context is already done by the time services stop; give
	// in-flight requests their own drain deadline.
	drainCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	return s.server.Shutdown(drainCtx)
}
