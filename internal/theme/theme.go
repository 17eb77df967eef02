// Package theme holds the site's light and dark palettes and the per-page
// provider that tracks which one is selected.
package theme

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// Mode is the selected palette.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Default is the mode every page starts in.
const Default = Dark

// ParseMode returns the mode named by s, or false if s is not a mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// Toggle returns the opposite mode.
func (m Mode) Toggle() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// Token is one named colour of a palette.
type Token struct {
	Name  string
	Value string
}

// Palette is the fixed set of colour tokens used to style every view.
type Palette struct {
	Body       string
	Text       string
	Primary    string
	Secondary  string
	Background string
	Card       string
	Accent     string
	Header     string
}

var (
	lightPalette = Palette{
		Body:       "#f0f4f8",
		Text:       "#2d3748",
		Primary:    "#3b82f6",
		Secondary:  "#10b981",
		Background: "#ffffff",
		Card:       "#ffffff",
		Accent:     "#f59e0b",
		Header:     "#e2e8f0",
	}
	darkPalette = Palette{
		Body:       "#1a202c",
		Text:       "#e2e8f0",
		Primary:    "#4299e1",
		Secondary:  "#38b2ac",
		Background: "#1e293b",
		Card:       "#2d3748",
		Accent:     "#fbbf24",
		Header:     "#202c3c",
	}
)

// PaletteFor returns the palette of the given mode. Unknown modes get the
// default palette.
func PaletteFor(m Mode) Palette {
	if m == Light {
		return lightPalette
	}
	return darkPalette
}

// Tokens returns the palette's tokens in a fixed order.
func (p Palette) Tokens() []Token {
	return []Token{
		{"body", p.Body},
		{"text", p.Text},
		{"primary", p.Primary},
		{"secondary", p.Secondary},
		{"background", p.Background},
		{"card", p.Card},
		{"accent", p.Accent},
		{"header", p.Header},
	}
}

// CSS renders the palette as CSS custom properties, e.g. "--body:#1a202c;".
func (p Palette) CSS() template.CSS {
	var b strings.Builder
	for _, t := range p.Tokens() {
		fmt.Fprintf(&b, "--%s:%s;", t.Name, t.Value)
	}
	return template.CSS(b.String())
}

// Provider tracks the selected mode of one mounted page and notifies
// subscribers when it changes. The zero value is not usable; call NewProvider.
type Provider struct {
	mu        sync.Mutex
	mode      Mode
	listeners []func(Mode)
}

// NewProvider returns a provider starting in the given mode. An invalid mode
// starts in Default.
func NewProvider(initial Mode) *Provider {
	if _, ok := ParseMode(string(initial)); !ok {
		initial = Default
	}
	return &Provider{mode: initial}
}

// Mode returns the current selection.
func (p *Provider) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Palette returns the palette of the current selection.
func (p *Provider) Palette() Palette {
	return PaletteFor(p.Mode())
}

// OnChange registers fn to be called after every toggle.
func (p *Provider) OnChange(fn func(Mode)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

// Toggle flips the selection and notifies subscribers. It returns the new mode.
func (p *Provider) Toggle() Mode {
	p.mu.Lock()
	p.mode = p.mode.Toggle()
	mode := p.mode
	listeners := append([]func(Mode){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(mode)
	}
	return mode
}
