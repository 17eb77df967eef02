// Package contact implements the contact form: validation, the webhook
// payload, delivery and the submit controller that tracks form status.
package contact

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jotunheim-mc/website/internal/audit"
	"github.com/jotunheim-mc/website/internal/metrics"
)

// Status is the submit status of a form.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// User-facing status messages.
const (
	SuccessMessage = "Melding sendt! Vi vil kontakte deg snart."
	ErrorMessage   = "Det oppstod en feil. Vennligst prøv igjen senere."
)

var (
	// ErrSubmitting is returned when a submit is already in flight.
	ErrSubmitting = errors.New("contact form is already submitting")
	// ErrInvalidForm wraps FieldErrors when Submit is handed an invalid form.
	ErrInvalidForm = errors.New("contact form is invalid")
)

// State is what a view needs to render the form.
type State struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Fields  Form   `json:"fields"`
}

// AuditLogger records delivery attempts.
type AuditLogger interface {
	Log(ctx context.Context, e audit.Entry) error
}

// Options are the optional collaborators of a Controller.
type Options struct {
	Audit    AuditLogger
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
	Source   audit.Source
	OnChange func(State)
}

// Controller owns the status of one contact form. At most one submit is in
// flight at a time.
type Controller struct {
	deliverer Deliverer
	opts      Options

	mu         sync.Mutex
	submitting bool
	state      State
}

// NewController returns an idle controller delivering through d.
func NewController(d Deliverer, opts Options) *Controller {
	if opts.Source == "" {
		opts.Source = audit.SourceForm
	}
	return &Controller{
		deliverer: d,
		opts:      opts,
		state:     State{Status: StatusIdle},
	}
}

// State returns the current form state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit validates f and delivers it once. On success the fields are
// cleared; on failure they are kept so the visitor can retry. The returned
// error is ErrSubmitting, a wrapped ErrInvalidForm, or the delivery error.
func (c *Controller) Submit(ctx context.Context, f Form) (State, error) {
	c.mu.Lock()
	if c.submitting {
		st := c.state
		c.mu.Unlock()
		return st, ErrSubmitting
	}
	if fe := f.Validate(); fe != nil {
		st := c.state
		c.mu.Unlock()
		c.opts.Metrics.ContactSubmission(metrics.ResultInvalid)
		return st, fmt.Errorf("%w: %w", ErrInvalidForm, fe)
	}
	c.submitting = true
	c.state = State{Status: StatusSubmitting, Fields: f}
	submitting := c.state
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	c.notify(submitting)

	// Delivery outlives the visitor: leaving the page abandons the result,
	// not the request. The client timeout still bounds it.
	id := uuid.New().String()
	status, err := c.deliverer.Deliver(context.WithoutCancel(ctx), BuildPayload(f))

	var final State
	if err == nil {
		final = State{Status: StatusSuccess, Message: SuccessMessage}
	} else {
		final = State{Status: StatusError, Message: ErrorMessage, Fields: f}
	}

	c.mu.Lock()
	c.state = final
	c.mu.Unlock()

	c.record(ctx, id, status, err)
	c.notify(final)
	return final, err
}

func (c *Controller) record(ctx context.Context, id string, status int, err error) {
	entry := audit.Entry{
		Source:    c.opts.Source,
		SubjectID: id,
		Status:    status,
	}
	if err == nil {
		entry.Action = audit.ActionContactDelivered
		entry.Summary = "contact form delivered"
		c.opts.Metrics.ContactSubmission(metrics.ResultSuccess)
		c.opts.Logger.Info().Str("submission_id", id).Int("status", status).Msg("contact form delivered")
	} else {
		entry.Action = audit.ActionContactFailed
		entry.Summary = "contact form delivery failed"
		entry.Detail = err.Error()
		c.opts.Metrics.ContactSubmission(metrics.ResultError)
		c.opts.Logger.Warn().Err(err).Str("submission_id", id).Int("status", status).Msg("contact form delivery failed")
	}

	if c.opts.Audit == nil {
		return
	}
	// The visitor may have gone away; the record is still wanted.
	if auditErr := c.opts.Audit.Log(context.WithoutCancel(ctx), entry); auditErr != nil {
		c.opts.Logger.Error().Err(auditErr).Str("submission_id", id).Msg("writing audit entry")
	}
}

func (c *Controller) notify(st State) {
	if c.opts.OnChange != nil {
		c.opts.OnChange(st)
	}
}
