package live

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jotunheim-mc/website/internal/audit"
	"github.com/jotunheim-mc/website/internal/contact"
	"github.com/jotunheim-mc/website/internal/lifecycle"
	"github.com/jotunheim-mc/website/internal/metrics"
	"github.com/jotunheim-mc/website/internal/nav"
	"github.com/jotunheim-mc/website/internal/pages"
	"github.com/jotunheim-mc/website/internal/theme"
	"github.com/jotunheim-mc/website/internal/widget"
)

const (
	sendBuffer     = 32
	writeWait      = 10 * time.Second
	maxMessageSize = 64 << 10
)

type session struct {
	id     string
	view   pages.View
	conn   *websocket.Conn
	deps   Deps
	logger zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	scope  *lifecycle.Scope
	send   chan any
	wg     sync.WaitGroup

	theme      *theme.Provider
	menu       nav.Menu
	modal      *widget.Modal
	modalHTML  template.HTML
	modalMu    sync.Mutex
	modalShown bool
	counter    *widget.PlayerCounter
	copyBtn    *widget.CopyButton
	newsletter *widget.Newsletter
	contact    *contact.Controller
}

func newSession(parent context.Context, conn *websocket.Conn, view pages.View, deps Deps, mode theme.Mode, menuOpen bool) *session {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.New().String()
	s := &session{
		id:     id,
		view:   view,
		conn:   conn,
		deps:   deps,
		logger: deps.Logger.With().Str("session_id", id).Str("view", view.Name).Logger(),
		ctx:    ctx,
		cancel: cancel,
		scope:  lifecycle.NewScope(deps.Clock),
		send:   make(chan any, sendBuffer),
		theme:  theme.NewProvider(mode),
	}
	if menuOpen {
		s.menu.Toggle()
	}
	return s
}

// close ends the session from outside the read loop.
func (s *session) close() {
	s.cancel()
	s.conn.Close()
}

// run mounts the view, serves the connection and unmounts when it closes.
func (s *session) run() {
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop()
	}()

	s.mount()
	s.logger.Debug().Msg("live session opened")

	s.readLoop()

	s.cancel()
	s.scope.Close()
	s.wg.Wait()
	<-writerDone
	s.conn.Close()
	s.logger.Debug().Msg("live session closed")
}

func (s *session) mount() {
	cfg := s.deps.Config
	w := s.view.Widgets

	s.theme.OnChange(func(m theme.Mode) {
		s.enqueue(ThemeMessage{Type: "theme", Mode: m, CSS: theme.PaletteFor(m).CSS()})
	})

	if w.Modal {
		if s.deps.Renderer != nil {
			html, err := s.deps.Renderer.Fragment("modal", s.deps.Renderer.NewData(s.view, s.view.Path, nil))
			if err != nil {
				s.logger.Error().Err(err).Msg("rendering modal")
			} else {
				s.modalHTML = html
			}
		}
		s.modal = widget.NewModal(cfg.Timers.ModalDelay, cfg.Modal.DismissThreshold, s.onModal)
		s.modal.Mount(s.scope)
	}
	if w.Counter {
		s.counter = widget.NewPlayerCounter(cfg.Timers.PlayerInterval, s.deps.Intn, func(n int) {
			s.enqueue(PlayersMessage{Type: "players", Count: n})
		})
		s.counter.Mount(s.scope)
	}
	if w.Copy {
		s.copyBtn = widget.NewCopyButton(cfg.ServerAddress, cfg.Timers.CopyRevert, func(label string) {
			s.enqueue(CopyMessage{Type: "copy", Label: label})
		})
		s.copyBtn.Mount(s.scope)
	}
	if w.Newsletter {
		s.newsletter = widget.NewNewsletter(s.logger, s.deps.Audit, s.deps.Metrics, audit.SourceLive)
	}
	if w.Contact {
		s.contact = contact.NewController(s.deps.Deliverer, contact.Options{
			Audit:   s.deps.Audit,
			Metrics: s.deps.Metrics,
			Logger:  s.logger,
			Source:  audit.SourceLive,
			OnChange: func(st contact.State) {
				s.enqueue(ContactMessage{Type: "contact", State: st})
			},
		})
	}

	s.enqueue(s.hello())
}

func (s *session) hello() HelloMessage {
	msg := HelloMessage{
		Type:      "hello",
		SessionID: s.id,
		View:      s.view.Name,
		Theme:     s.theme.Mode(),
		CSS:       s.theme.Palette().CSS(),
		MenuOpen:  s.menu.Open(),
	}
	if s.counter != nil {
		n := s.counter.Value()
		msg.Players = &n
	}
	if s.copyBtn != nil {
		msg.Copy = &CopyState{Text: s.copyBtn.Text(), Label: s.copyBtn.Label()}
	}
	return msg
}

func (s *session) onModal(st widget.ModalState) {
	msg := ModalMessage{Type: "modal", Visible: st.Visible, Offset: st.Offset}
	s.modalMu.Lock()
	if st.Visible && !s.modalShown {
		s.modalShown = true
		msg.HTML = s.modalHTML
	}
	s.modalMu.Unlock()
	s.enqueue(msg)
}

// enqueue hands msg to the writer. Messages produced after the session
// ended are dropped.
func (s *session) enqueue(msg any) {
	if s.ctx.Err() != nil {
		return
	}
	select {
	case s.send <- msg:
	case <-s.ctx.Done():
	}
}

func (s *session) writeLoop() {
	for {
		select {
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Debug().Err(err).Msg("live: websocket write")
				s.cancel()
				s.conn.Close()
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *session) readLoop() {
	s.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug().Err(err).Msg("live: websocket read")
			}
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			s.sendError("invalid message format")
			continue
		}
		s.dispatch(req)
	}
}

func (s *session) dispatch(req Request) {
	switch req.Type {
	case MsgThemeToggle:
		if !s.view.Widgets.ThemeToggle {
			s.sendError("theme toggle not available on this view")
			return
		}
		s.theme.Toggle()

	case MsgMenuToggle:
		s.enqueue(MenuMessage{Type: "menu", Open: s.menu.Toggle()})

	case MsgMenuSelect:
		href := s.menu.Select(req.Href)
		s.enqueue(MenuMessage{Type: "menu", Open: false})
		if _, found := pages.Resolve(href); !found {
			s.sendError("unknown page")
			return
		}
		s.enqueue(NavigateMessage{Type: "navigate", Href: href})

	case MsgModalClose:
		if s.modal == nil {
			s.sendError("no modal on this view")
			return
		}
		s.modal.Close()

	case MsgDragStart:
		if s.modal != nil {
			s.modal.DragStart(req.X)
		}

	case MsgDragMove:
		if s.modal == nil {
			return
		}
		if st := s.modal.State(); st.Visible {
			s.enqueue(ModalMessage{Type: "modal", Visible: true, Offset: s.modal.DragMove(req.X)})
		}

	case MsgDragEnd:
		if s.modal != nil {
			s.modal.DragEnd()
		}

	case MsgCopied:
		if s.copyBtn == nil {
			s.sendError("no copy button on this view")
			return
		}
		s.copyBtn.Copied()

	case MsgNewsletter:
		if s.newsletter == nil {
			s.sendError("no newsletter on this view")
			return
		}
		if err := s.newsletter.Subscribe(s.ctx, req.Email); err != nil {
			s.enqueue(NewsletterMessage{Type: "newsletter", OK: false, Message: widget.NewsletterInvalid})
			return
		}
		s.enqueue(NewsletterMessage{Type: "newsletter", OK: true, Message: widget.NewsletterThanks})

	case MsgContactSubmit:
		if s.contact == nil {
			s.sendError("no contact form on this view")
			return
		}
		s.submitContact(contact.Form{Name: req.Name, Email: req.Email, Subject: req.Subject, Message: req.Message})

	default:
		s.sendError("unknown message type: " + req.Type)
	}
}

// submitContact validates in the read loop and delivers in the background,
// so a second submit while one is in flight is refused by the controller.
func (s *session) submitContact(f contact.Form) {
	if fe := f.Validate(); fe != nil {
		s.deps.Metrics.ContactSubmission(metrics.ResultInvalid)
		st := s.contact.State()
		st.Fields = f
		s.enqueue(ContactMessage{Type: "contact", State: st, FieldErrors: fe})
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, err := s.contact.Submit(s.ctx, f)
		if errors.Is(err, contact.ErrSubmitting) {
			s.sendError("contact form is already submitting")
		}
	}()
}

func (s *session) sendError(msg string) {
	s.enqueue(ErrorMessage{Type: "error", Message: msg})
}
