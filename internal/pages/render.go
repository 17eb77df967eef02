package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"time"

	"github.com/jotunheim-mc/website/internal/config"
	"github.com/jotunheim-mc/website/internal/contact"
	"github.com/jotunheim-mc/website/internal/content"
	"github.com/jotunheim-mc/website/internal/nav"
	"github.com/jotunheim-mc/website/internal/theme"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// NewsletterNotice is the result line under the newsletter form.
type NewsletterNotice struct {
	OK      bool
	Message string
	Email   string
}

// Data is the template data of one rendered page.
type Data struct {
	View     View
	Site     *content.Site
	SiteName string
	Path     string
	Year     int

	Theme      theme.Mode
	ThemeCSS   template.CSS
	ToggleHref string
	MenuOpen   bool
	MenuHref   string

	HeaderLinks []nav.Link
	FooterLinks []nav.Link

	ServerAddress string
	JoinHTML      template.HTML
	DiscordInvite string
	MapURL        string
	Chat          config.ChatConfig

	// Live includes the live-session script. Static exports leave it out.
	Live bool
	// FormBase prefixes form actions; empty means same origin.
	FormBase string

	Players     int
	CopyLabel   string
	Contact     contact.State
	FieldErrors contact.FieldErrors
	Newsletter  NewsletterNotice
}

// MethodHref returns the link target of a contact method, or "" when it
// has none.
func (d Data) MethodHref(m content.ContactMethod) string {
	switch m.Kind {
	case content.MethodEmail:
		return "mailto:" + m.Label
	case content.MethodDiscord:
		return d.DiscordInvite
	}
	return ""
}

// Renderer renders views with the embedded templates.
type Renderer struct {
	cfg  *config.Config
	site *content.Site
	sets map[string]*template.Template
	join template.HTML
	now  func() time.Time
}

var funcs = template.FuncMap{
	"active": func(l nav.Link, path string) bool { return l.IsActive(path) },
}

// NewRenderer parses the layout, partials and one page template per view.
func NewRenderer(cfg *config.Config, site *content.Site) (*Renderer, error) {
	r := &Renderer{
		cfg:  cfg,
		site: site,
		sets: make(map[string]*template.Template),
		now:  time.Now,
	}
	join, err := site.Join.HTML(cfg.ServerAddress)
	if err != nil {
		return nil, err
	}
	r.join = join
	for _, v := range append(All(), NotFound) {
		t, err := template.New(v.Template).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.tmpl",
			"templates/partials.tmpl",
			"templates/"+v.Template+".tmpl",
		)
		if err != nil {
			return nil, fmt.Errorf("parsing %s templates: %w", v.Name, err)
		}
		r.sets[v.Template] = t
	}
	return r, nil
}

// NewData builds the data of view v requested at path. The query may carry
// the no-script fallbacks theme=light|dark and meny=open.
func (r *Renderer) NewData(v View, path string, query url.Values) Data {
	mode, ok := theme.ParseMode(query.Get("theme"))
	if !ok {
		mode = theme.Default
	}
	menuOpen := query.Get("meny") == "open"

	return Data{
		View:     v,
		Site:     r.site,
		SiteName: r.cfg.SiteName,
		Path:     path,
		Year:     r.now().Year(),

		Theme:      mode,
		ThemeCSS:   theme.PaletteFor(mode).CSS(),
		ToggleHref: pageHref(path, mode.Toggle(), false),
		MenuOpen:   menuOpen,
		MenuHref:   pageHref(path, mode, !menuOpen),

		HeaderLinks: nav.HeaderLinks(r.cfg.DiscordInvite),
		FooterLinks: nav.FooterLinks(),

		ServerAddress: r.cfg.ServerAddress,
		JoinHTML:      r.join,
		DiscordInvite: r.cfg.DiscordInvite,
		MapURL:        r.cfg.MapURL,
		Chat:          r.cfg.Chat,

		Live:      v.Widgets.Live(),
		CopyLabel: r.site.Server.CopyLabel,
		Contact:   contact.State{Status: contact.StatusIdle},
	}
}

func pageHref(path string, mode theme.Mode, menuOpen bool) string {
	q := url.Values{}
	if mode != theme.Default {
		q.Set("theme", string(mode))
	}
	if menuOpen {
		q.Set("meny", "open")
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// Render writes the full page for d. Nothing is written if execution fails.
func (r *Renderer) Render(w io.Writer, d Data) error {
	set, ok := r.sets[d.View.Template]
	if !ok {
		return fmt.Errorf("%w: no template for %q", ErrUnknownView, d.View.Name)
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, "layout", d); err != nil {
		return fmt.Errorf("rendering %s: %w", d.View.Name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Fragment renders a named partial, such as "modal", with d.
func (r *Renderer) Fragment(name string, d Data) (template.HTML, error) {
	set, ok := r.sets[d.View.Template]
	if !ok {
		return "", fmt.Errorf("%w: no template for %q", ErrUnknownView, d.View.Name)
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, name, d); err != nil {
		return "", fmt.Errorf("rendering fragment %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
