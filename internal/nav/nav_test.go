package nav

import "testing"

func TestHeaderLinks(t *testing.T) {
	links := HeaderLinks("https://discord.gg/example")
	want := []string{"/", "/om-oss", "/regler", "/stab", "/kontakt", "https://discord.gg/example"}
	if len(links) != len(want) {
		t.Fatalf("expected %d links, got %d", len(want), len(links))
	}
	for i, l := range links {
		if l.Href != want[i] {
			t.Errorf("links[%d].Href = %q, want %q", i, l.Href, want[i])
		}
	}
	if !links[len(links)-1].External {
		t.Error("discord link should be external")
	}
}

func TestHeaderLinksWithoutInvite(t *testing.T) {
	if got := len(HeaderLinks("")); got != 5 {
		t.Errorf("expected 5 links without invite, got %d", got)
	}
}

func TestMenuToggleAndSelect(t *testing.T) {
	var m Menu
	if m.Open() {
		t.Fatal("menu should start closed")
	}
	if !m.Toggle() {
		t.Fatal("toggle should open the menu")
	}
	if got := m.Select("/regler"); got != "/regler" {
		t.Errorf("Select returned %q", got)
	}
	if m.Open() {
		t.Error("menu should be closed after selecting a link")
	}

	// Selecting from a closed menu keeps it closed.
	m.Select("/")
	if m.Open() {
		t.Error("menu should stay closed")
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		link    Link
		current string
		want    bool
	}{
		{Link{Href: "/regler"}, "/regler", true},
		{Link{Href: "/regler"}, "/regler/", true},
		{Link{Href: "/"}, "/", true},
		{Link{Href: "/"}, "/stab", false},
		{Link{Href: "https://discord.gg/x", External: true}, "https://discord.gg/x", false},
	}
	for _, tt := range tests {
		if got := tt.link.IsActive(tt.current); got != tt.want {
			t.Errorf("%q.IsActive(%q) = %v, want %v", tt.link.Href, tt.current, got, tt.want)
		}
	}
}
