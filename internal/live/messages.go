package live

import (
	"html/template"

	"github.com/jotunheim-mc/website/internal/contact"
	"github.com/jotunheim-mc/website/internal/theme"
)

// Inbound message types, sent by the page script.
const (
	MsgThemeToggle   = "theme_toggle"
	MsgMenuToggle    = "menu_toggle"
	MsgMenuSelect    = "menu_select"
	MsgModalClose    = "modal_close"
	MsgDragStart     = "drag_start"
	MsgDragMove      = "drag_move"
	MsgDragEnd       = "drag_end"
	MsgCopied        = "copied"
	MsgNewsletter    = "newsletter"
	MsgContactSubmit = "contact_submit"
)

// Request is a message from the page. Only the fields of its type are set.
type Request struct {
	Type    string `json:"type"`
	Href    string `json:"href,omitempty"`
	X       int    `json:"x,omitempty"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message,omitempty"`
}

// HelloMessage is sent once the view's widgets are mounted. It carries the
// initial state of every widget on the view; absent widgets are omitted.
type HelloMessage struct {
	Type      string       `json:"type"`
	SessionID string       `json:"session_id"`
	View      string       `json:"view"`
	Theme     theme.Mode   `json:"theme"`
	CSS       template.CSS `json:"css"`
	MenuOpen  bool         `json:"menu_open"`
	Players   *int         `json:"players,omitempty"`
	Copy      *CopyState   `json:"copy,omitempty"`
}

// CopyState is the copy button as the page shows it.
type CopyState struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

type ThemeMessage struct {
	Type string       `json:"type"`
	Mode theme.Mode   `json:"mode"`
	CSS  template.CSS `json:"css"`
}

type MenuMessage struct {
	Type string `json:"type"`
	Open bool   `json:"open"`
}

type NavigateMessage struct {
	Type string `json:"type"`
	Href string `json:"href"`
}

// ModalMessage carries the modal state. HTML is set when the modal first
// becomes visible.
type ModalMessage struct {
	Type    string        `json:"type"`
	Visible bool          `json:"visible"`
	Offset  int           `json:"offset"`
	HTML    template.HTML `json:"html,omitempty"`
}

type PlayersMessage struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type CopyMessage struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

type NewsletterMessage struct {
	Type    string `json:"type"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ContactMessage carries the form state. FieldErrors is set when a submit
// was rejected before delivery.
type ContactMessage struct {
	Type string `json:"type"`
	contact.State
	FieldErrors contact.FieldErrors `json:"field_errors,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
