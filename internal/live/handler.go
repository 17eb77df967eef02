// Package live runs the per-page live sessions. A page opens a websocket to
// /live when it loads. The session mounts the page's widgets on a lifecycle
// scope, applies the visitor's gestures to them and pushes state changes
// back. Closing the socket unmounts the page: its timers stop and results
// of work still in flight are dropped.
package live

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jotunheim-mc/website/internal/config"
	"github.com/jotunheim-mc/website/internal/contact"
	"github.com/jotunheim-mc/website/internal/lifecycle"
	"github.com/jotunheim-mc/website/internal/metrics"
	"github.com/jotunheim-mc/website/internal/pages"
	"github.com/jotunheim-mc/website/internal/theme"
)

// Deps are the collaborators of a Handler. Audit, Metrics, Clock and Intn
// may be nil.
type Deps struct {
	Config    *config.Config
	Renderer  *pages.Renderer
	Deliverer contact.Deliverer
	Audit     contact.AuditLogger
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
	Clock     lifecycle.Clock
	Intn      func(int) int
}

// Handler upgrades /live requests and runs one session per connection.
type Handler struct {
	deps     Deps
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// NewHandler returns a Handler. Cross-origin sockets are accepted only from
// the configured base URL and CORS origins.
func NewHandler(deps Deps) *Handler {
	h := &Handler{deps: deps, sessions: make(map[*session]struct{})}
	allowed := allowedOrigins(deps.Config)
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false
			}
			if strings.EqualFold(u.Host, r.Host) {
				return true
			}
			return allowed[strings.ToLower(origin)]
		},
	}
	return h
}

func allowedOrigins(cfg *config.Config) map[string]bool {
	m := make(map[string]bool)
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Host != "" {
		m[strings.ToLower(u.Scheme+"://"+u.Host)] = true
	}
	for _, o := range cfg.CORS.AllowedOrigins {
		m[strings.ToLower(strings.TrimSuffix(o, "/"))] = true
	}
	return m
}

// ServeHTTP handles GET /live?view=<name>. The optional theme and meny
// parameters carry the state the page was rendered with.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := pages.ByName(q.Get("view"))
	if err != nil {
		http.Error(w, "unknown view", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.deps.Logger.Warn().Err(err).Msg("live: websocket upgrade")
		return
	}

	mode, ok := theme.ParseMode(q.Get("theme"))
	if !ok {
		mode = theme.Default
	}
	s := newSession(r.Context(), conn, view, h.deps, mode, q.Get("meny") == "open")
	h.track(s)
	defer h.untrack(s)

	s.run()
}

func (h *Handler) track(s *session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
	h.deps.Metrics.SessionOpened()
}

func (h *Handler) untrack(s *session) {
	h.mu.Lock()
	delete(h.sessions, s)
	h.mu.Unlock()
	h.deps.Metrics.SessionClosed()
}

// Active returns the number of open sessions.
func (h *Handler) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// CloseAll ends every open session. http.Server.Shutdown does not track
// hijacked connections, so the server calls this on shutdown.
func (h *Handler) CloseAll() {
	h.mu.Lock()
	open := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		open = append(open, s)
	}
	h.mu.Unlock()

	for _, s := range open {
		s.close()
	}
}
