package widget

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jotunheim-mc/website/internal/audit"
	"github.com/jotunheim-mc/website/internal/contact"
	"github.com/jotunheim-mc/website/internal/metrics"
)

// ErrInvalidEmail is returned by Subscribe for a malformed address.
var ErrInvalidEmail = errors.New("invalid email address")

// Newsletter messages shown under the signup form.
const (
	NewsletterThanks  = "Takk for at du abonnerer!"
	NewsletterInvalid = "Ugyldig e-postadresse"
)

// Newsletter records signup intents. No mailing list is contacted.
type Newsletter struct {
	logger  zerolog.Logger
	audit   contact.AuditLogger
	metrics *metrics.Metrics
	source  audit.Source
}

// NewNewsletter returns a signup handler. auditLog and m may be nil.
func NewNewsletter(logger zerolog.Logger, auditLog contact.AuditLogger, m *metrics.Metrics, source audit.Source) *Newsletter {
	return &Newsletter{logger: logger, audit: auditLog, metrics: m, source: source}
}

// Subscribe validates email and logs the intent.
func (n *Newsletter) Subscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !contact.ValidEmail(email) {
		return ErrInvalidEmail
	}

	n.logger.Info().Str("email_domain", domainOf(email)).Msg("newsletter signup")
	n.metrics.NewsletterIntent()

	if n.audit == nil {
		return nil
	}
	err := n.audit.Log(ctx, audit.Entry{
		Action:  audit.ActionNewsletterIntent,
		Source:  n.source,
		Summary: "newsletter signup",
		Detail:  email,
	})
	if err != nil {
		n.logger.Error().Err(err).Msg("writing audit entry")
	}
	return nil
}

func domainOf(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return email[i+1:]
	}
	return ""
}
