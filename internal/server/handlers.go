package server

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jotunheim-mc/website/internal/audit"
	"github.com/jotunheim-mc/website/internal/contact"
	"github.com/jotunheim-mc/website/internal/metrics"
	"github.com/jotunheim-mc/website/internal/pages"
	"github.com/jotunheim-mc/website/internal/widget"
)

// maxFormBytes bounds POSTed form bodies.
const maxFormBytes = 64 << 10

func (s *Server) handleView(v pages.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := s.deps.Renderer.NewData(v, v.Path, r.URL.Query())
		s.deps.Metrics.PageView(v.Name)
		s.renderPage(w, r, d, http.StatusOK)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	d := s.deps.Renderer.NewData(pages.NotFound, r.URL.Path, r.URL.Query())
	s.deps.Metrics.PageView(pages.NotFound.Name)
	s.renderPage(w, r, d, http.StatusNotFound)
}

// handleContactSubmit is the no-script path of the contact form.
func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	view, _ := pages.Resolve("/kontakt")
	d := s.deps.Renderer.NewData(view, view.Path, r.URL.Query())

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form, fieldErrs := contact.ParseForm(r.PostForm)
	if fieldErrs != nil {
		s.deps.Metrics.ContactSubmission(metrics.ResultInvalid)
		d.Contact.Fields = form
		d.FieldErrors = fieldErrs
		s.renderPage(w, r, d, http.StatusUnprocessableEntity)
		return
	}

	ctrl := contact.NewController(s.deps.Deliverer, contact.Options{
		Audit:   s.deps.Audit,
		Metrics: s.deps.Metrics,
		Logger:  requestLogger(r, s.deps.Logger),
		Source:  audit.SourceForm,
	})
	st, err := ctrl.Submit(r.Context(), form)
	d.Contact = st

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
		if errors.Is(err, contact.ErrDeliveryNotConfigured) {
			status = http.StatusServiceUnavailable
		}
	}
	s.renderPage(w, r, d, status)
}

// handleNewsletter is the no-script path of the newsletter signup.
func (s *Server) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	view, _ := pages.Resolve("/")
	d := s.deps.Renderer.NewData(view, view.Path, r.URL.Query())

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := r.PostForm.Get("email")
	n := widget.NewNewsletter(requestLogger(r, s.deps.Logger), s.deps.Audit, s.deps.Metrics, audit.SourceForm)
	if err := n.Subscribe(r.Context(), email); err != nil {
		d.Newsletter = pages.NewsletterNotice{Message: widget.NewsletterInvalid, Email: email}
		s.renderPage(w, r, d, http.StatusUnprocessableEntity)
		return
	}
	d.Newsletter = pages.NewsletterNotice{OK: true, Message: widget.NewsletterThanks}
	s.renderPage(w, r, d, http.StatusOK)
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	data, err := pages.Sitemap(s.cfg.BaseURL)
	if err != nil {
		l := requestLogger(r, s.deps.Logger)
		l.Error().Err(err).Msg("render sitemap")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(pages.Robots(s.cfg.BaseURL))
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, d pages.Data, status int) {
	var buf bytes.Buffer
	if err := s.deps.Renderer.Render(&buf, d); err != nil {
		l := requestLogger(r, s.deps.Logger)
		l.Error().Err(err).Str("view", d.View.Name).Msg("render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// requestLogger returns the logger the request middleware attached, or
// fallback when there is none.
func requestLogger(r *http.Request, fallback zerolog.Logger) zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l != nil && l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return fallback
}
