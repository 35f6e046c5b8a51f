// Package server exposes painting sessions over HTTP.
//
//	GET    /api/palette                   colors, eraser and stencils
//	POST   /api/sessions                  start a session
//	DELETE /api/sessions/{id}             end it
//	GET    /api/sessions/{id}/ws          input events in, cues and outcomes out
//	GET    /api/sessions/{id}/canvas.png  current surface
//	GET    /api/sessions/{id}/export      latest saved drawing, as a download
//
// Every other path is answered by the offline worker, cache first.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/colorsplash/pkg/offline"
	"github.com/matzehuels/colorsplash/pkg/session"
	"github.com/matzehuels/colorsplash/pkg/studio"
)

// Config configures a Server. Worker and Store are required.
type Config struct {
	Worker *offline.Worker
	Store  session.Store
	// Studio is the template for new sessions. Its Stencils source defaults
	// to the worker.
	Studio studio.Options
	Logger *log.Logger
}

// Server routes API and asset requests.
type Server struct {
	ctx      context.Context
	worker   *offline.Worker
	store    session.Store
	studio   studio.Options
	logger   *log.Logger
	upgrader websocket.Upgrader
	router   chi.Router
}

// New creates a server. Sessions it starts live until ctx is done or they
// are deleted or reaped.
func New(ctx context.Context, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Studio.Stencils == nil {
		cfg.Studio.Stencils = WorkerSource{Worker: cfg.Worker}
	}
	if cfg.Studio.Logger == nil {
		cfg.Studio.Logger = cfg.Logger
	}
	s := &Server{
		ctx:    ctx,
		worker: cfg.Worker,
		store:  cfg.Store,
		studio: cfg.Studio,
		logger: cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api", func(r chi.Router) {
		r.Get("/palette", s.handlePalette)
		r.Post("/sessions", s.handleCreate)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDelete)
			r.Get("/ws", s.handleSocket)
			r.Get("/canvas.png", s.handleCanvas)
			r.Get("/export", s.handleExport)
		})
	})
	r.Handle("/*", s.worker)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
