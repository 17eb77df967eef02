// Package pages holds the view table of the site, the not-found policy and
// the server-side rendering of every view.
package pages

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownView is returned by ByName for a name not in the view table.
var ErrUnknownView = errors.New("unknown view")

// Widgets lists the interactive pieces a view mounts.
type Widgets struct {
	ThemeToggle bool
	Modal       bool
	Counter     bool
	Copy        bool
	Newsletter  bool
	Contact     bool
}

// Live reports whether the view needs a live session at all.
func (w Widgets) Live() bool {
	return w.ThemeToggle || w.Modal || w.Counter || w.Copy || w.Newsletter || w.Contact
}

// View is one routable page.
type View struct {
	Name     string
	Path     string
	Title    string
	Template string
	Widgets  Widgets
}

var views = []View{
	{
		Name: "home", Path: "/", Title: "Hjem", Template: "home",
		Widgets: Widgets{ThemeToggle: true, Modal: true, Counter: true, Copy: true, Newsletter: true},
	},
	{Name: "rules", Path: "/regler", Title: "Regler", Template: "rules", Widgets: Widgets{ThemeToggle: true}},
	{Name: "about", Path: "/om-oss", Title: "Om oss", Template: "about", Widgets: Widgets{ThemeToggle: true}},
	{Name: "contact", Path: "/kontakt", Title: "Kontakt", Template: "contact", Widgets: Widgets{ThemeToggle: true, Contact: true}},
	{Name: "staff", Path: "/stab", Title: "Stab", Template: "staff", Widgets: Widgets{ThemeToggle: true}},
	{Name: "map", Path: "/serverkart", Title: "Serverkart", Template: "map"},
}

// NotFound is rendered, with status 404, for every path not in the table.
var NotFound = View{
	Name: "not_found", Title: "Siden finnes ikke", Template: "notfound",
	Widgets: Widgets{ThemeToggle: true},
}

// All returns the routable views in navigation order.
func All() []View {
	out := make([]View, len(views))
	copy(out, views)
	return out
}

// Resolve maps a request path to its view. One trailing slash is ignored.
func Resolve(path string) (View, bool) {
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, v := range views {
		if v.Path == path {
			return v, true
		}
	}
	return NotFound, false
}

// ByName looks a view up by name. The not-found view is included.
func ByName(name string) (View, error) {
	if name == NotFound.Name {
		return NotFound, nil
	}
	for _, v := range views {
		if v.Name == name {
			return v, nil
		}
	}
	return View{}, fmt.Errorf("%w: %q", ErrUnknownView, name)
}
