package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/jotunheim-mc/website/internal/config"
	"github.com/jotunheim-mc/website/internal/contact"
	"github.com/jotunheim-mc/website/internal/lifecycle"
	"github.com/jotunheim-mc/website/internal/live"
	"github.com/jotunheim-mc/website/internal/logging"
	"github.com/jotunheim-mc/website/internal/metrics"
	"github.com/jotunheim-mc/website/internal/pages"
)

// Deps holds the collaborators of the server. Audit, Metrics and Clock may
// be nil.
type Deps struct {
	Config    *config.Config
	Renderer  *pages.Renderer
	Deliverer contact.Deliverer
	Audit     contact.AuditLogger
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
	Clock     lifecycle.Clock
}

// Server serves the website.
type Server struct {
	cfg        *config.Config
	deps       Deps
	live       *live.Handler
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all routes registered.
func New(deps Deps) *Server {
	s := &Server{
		cfg:  deps.Config,
		deps: deps,
		live: live.NewHandler(live.Deps{
			Config:    deps.Config,
			Renderer:  deps.Renderer,
			Deliverer: deps.Deliverer,
			Audit:     deps.Audit,
			Metrics:   deps.Metrics,
			Logger:    deps.Logger,
			Clock:     deps.Clock,
		}),
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(s.deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins(s.cfg),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Live sessions are long-lived and stay outside the request timeout.
	r.Get("/live", s.live.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		for _, v := range pages.All() {
			r.Get(v.Path, s.handleView(v))
		}
		r.Post("/kontakt", s.handleContactSubmit)
		r.Post("/nyhetsbrev", s.handleNewsletter)

		r.Get("/sitemap.xml", s.handleSitemap)
		r.Get("/robots.txt", s.handleRobots)
		r.Handle("/static/*", http.StripPrefix("/static/", s.staticHandler()))

		if s.cfg.Metrics.Enabled && s.deps.Metrics != nil {
			r.Handle(s.cfg.Metrics.Path, s.deps.Metrics.Handler())
		}
	})

	r.NotFound(s.handleNotFound)

	return r
}

// corsOrigins allows the site's own origin plus the configured extras.
func corsOrigins(cfg *config.Config) []string {
	var origins []string
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Host != "" {
		origins = append(origins, u.Scheme+"://"+u.Host)
	}
	for _, o := range cfg.CORS.AllowedOrigins {
		origins = append(origins, strings.TrimSuffix(o, "/"))
	}
	return origins
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Route is one registered method and pattern.
type Route struct {
	Method  string
	Pattern string
}

// Routes lists every registered route in registration order.
func (s *Server) Routes() ([]Route, error) {
	var routes []Route
	err := chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, Route{Method: method, Pattern: route})
		return nil
	})
	return routes, err
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.deps.Logger.Info().Str("addr", s.cfg.Listen).Str("base_url", s.cfg.BaseURL).Msg("jotunheim website listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown ends live sessions and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.live.CloseAll()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
