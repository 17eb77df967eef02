// Package nav defines the header and footer navigation and the mobile menu
// state owned by the header.
package nav

import (
	"strings"
	"sync"
)

// Link is one navigation entry.
type Link struct {
	Label    string
	Href     string
	External bool
}

// HeaderLinks returns the header navigation in display order. The Discord
// invite is appended last as an external link.
func HeaderLinks(discordInvite string) []Link {
	links := []Link{
		{Label: "Hjem", Href: "/"},
		{Label: "Om oss", Href: "/om-oss"},
		{Label: "Regler", Href: "/regler"},
		{Label: "Stab", Href: "/stab"},
		{Label: "Kontakt", Href: "/kontakt"},
	}
	if discordInvite != "" {
		links = append(links, Link{Label: "Discord", Href: discordInvite, External: true})
	}
	return links
}

// FooterLinks returns the footer navigation in display order.
func FooterLinks() []Link {
	return []Link{
		{Label: "Kontakt", Href: "/kontakt"},
		{Label: "Serverkart", Href: "/serverkart"},
		{Label: "Vårt team", Href: "/stab"},
		{Label: "Vår historie", Href: "/om-oss"},
	}
}

// IsActive reports whether link points at the current path.
func (l Link) IsActive(current string) bool {
	if l.External {
		return false
	}
	return strings.TrimSuffix(l.Href, "/") == strings.TrimSuffix(current, "/")
}

// Menu is the collapsible mobile navigation state. It starts closed.
type Menu struct {
	mu   sync.Mutex
	open bool
}

// Open reports whether the menu is expanded.
func (m *Menu) Open() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Toggle flips the menu and returns the new state.
func (m *Menu) Toggle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = !m.open
	return m.open
}

// Select closes the menu and returns href, so the next view starts with a
// closed menu.
func (m *Menu) Select(href string) string {
	m.mu.Lock()
	m.open = false
	m.mu.Unlock()
	return href
}
