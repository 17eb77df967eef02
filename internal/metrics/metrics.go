// Package metrics holds the site's Prometheus registry and collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Contact submission results.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultInvalid = "invalid"
)

// Metrics is a registry plus the site's own collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	pageViews    *prometheus.CounterVec
	contacts     *prometheus.CounterVec
	newsletter   prometheus.Counter
	liveSessions prometheus.Gauge
}

// New creates a registry with the Go and process collectors and the site
// collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		pageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jotunheim_page_views_total",
			Help: "Rendered page views by view name.",
		}, []string{"view"}),
		contacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jotunheim_contact_submissions_total",
			Help: "Contact form submissions by result.",
		}, []string{"result"}),
		newsletter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "jotunheim_newsletter_intents_total",
			Help: "Newsletter signups received.",
		}),
		liveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "jotunheim_live_sessions",
			Help: "Open live page sessions.",
		}),
	}
	registry.MustRegister(m.pageViews, m.contacts, m.newsletter, m.liveSessions)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) PageView(view string) {
	if m == nil {
		return
	}
	m.pageViews.WithLabelValues(view).Inc()
}

func (m *Metrics) ContactSubmission(result string) {
	if m == nil {
		return
	}
	m.contacts.WithLabelValues(result).Inc()
}

func (m *Metrics) NewsletterIntent() {
	if m == nil {
		return
	}
	m.newsletter.Inc()
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.liveSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.liveSessions.Dec()
}
