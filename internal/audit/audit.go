// Package audit records contact deliveries and newsletter intents in SQLite.
// Message bodies are never stored.
package audit

import "time"

// Action describes what happened.
type Action string

const (
	ActionContactDelivered Action = "contact_delivered"
	ActionContactFailed    Action = "contact_failed"
	ActionNewsletterIntent Action = "newsletter_intent"
)

// Source identifies the surface an action came through.
type Source string

const (
	SourceForm Source = "form"
	SourceLive Source = "live"
)

// Entry is a single audit trail record.
type Entry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	Source    Source    `json:"source"`
	SubjectID string    `json:"subject_id,omitempty"`
	Status    int       `json:"status,omitempty"`
	Summary   string    `json:"summary"`
	Detail    string    `json:"detail,omitempty"`
}
