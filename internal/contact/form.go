package contact

import (
	"net/mail"
	"net/url"
	"sort"
	"strings"
)

// Form holds the four contact form fields.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid contact form: " + strings.Join(parts, ", ")
}

// ParseForm reads the form fields from posted values and validates them.
// Values are kept as submitted.
func ParseForm(v url.Values) (Form, FieldErrors) {
	f := Form{
		Name:    v.Get("name"),
		Email:   v.Get("email"),
		Subject: v.Get("subject"),
		Message: v.Get("message"),
	}
	return f, f.Validate()
}

// Validate returns nil when every field is filled in and the email address
// is well formed.
func (f Form) Validate() FieldErrors {
	errs := FieldErrors{}
	if blank(f.Name) {
		errs["name"] = "Navn er påkrevd"
	}
	switch {
	case blank(f.Email):
		errs["email"] = "E-post er påkrevd"
	case !ValidEmail(f.Email):
		errs["email"] = "Ugyldig e-postadresse"
	}
	if blank(f.Subject) {
		errs["subject"] = "Emne er påkrevd"
	}
	if blank(f.Message) {
		errs["message"] = "Melding er påkrevd"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidEmail reports whether s is a bare address such as ola@jotunmc.no.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Name == "" && addr.Address == s
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
