// Package content holds the site copy. It is embedded as YAML, decoded once
// at startup and treated as read-only.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

//go:embed site.yml
var siteYAML []byte

// Site is the complete copy of the website.
type Site struct {
	Hero       Hero       `yaml:"hero"`
	Server     Server     `yaml:"server"`
	Join       Join       `yaml:"join"`
	Features   Features   `yaml:"features"`
	Store      Store      `yaml:"store"`
	Newsletter Newsletter `yaml:"newsletter"`
	Modal      Modal      `yaml:"modal"`
	Rules      Rules      `yaml:"rules"`
	About      About      `yaml:"about"`
	Staff      Staff      `yaml:"staff"`
	Contact    Contact    `yaml:"contact"`
	Map        Map        `yaml:"map"`
	NotFound   NotFound   `yaml:"not_found"`
	Footer     Footer     `yaml:"footer"`
}

type Hero struct {
	Title        string `yaml:"title"`
	Subtitle     string `yaml:"subtitle"`
	DiscordLabel string `yaml:"discord_label"`
	StoreLabel   string `yaml:"store_label"`
}

type Server struct {
	CopyLabel    string `yaml:"copy_label"`
	PlayersLabel string `yaml:"players_label"`
}

// Join holds the how-to-connect instructions. Body is markdown in which
// AddressPlaceholder stands for the configured server address.
type Join struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// AddressPlaceholder is replaced by the server address in Join.Body.
const AddressPlaceholder = "{{address}}"

// HTML renders the instructions for the server at address.
func (j Join) HTML(address string) (template.HTML, error) {
	html, err := renderMarkdown(strings.ReplaceAll(j.Body, AddressPlaceholder, address))
	if err != nil {
		return "", fmt.Errorf("rendering join instructions: %w", err)
	}
	return html, nil
}

type Features struct {
	Title string    `yaml:"title"`
	Items []Feature `yaml:"items"`
}

type Feature struct {
	Icon  string `yaml:"icon"`
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

type Store struct {
	Title  string      `yaml:"title"`
	Button string      `yaml:"button"`
	Items  []StoreItem `yaml:"items"`
}

type StoreItem struct {
	Name        string `yaml:"name"`
	Image       string `yaml:"image"`
	Description string `yaml:"description"`
}

type Newsletter struct {
	Title       string `yaml:"title"`
	Placeholder string `yaml:"placeholder"`
	Button      string `yaml:"button"`
}

type Modal struct {
	Title  string `yaml:"title"`
	Text   string `yaml:"text"`
	Button string `yaml:"button"`
}

type Rules struct {
	Title    string        `yaml:"title"`
	Subtitle string        `yaml:"subtitle"`
	Sections []RuleSection `yaml:"sections"`
}

type RuleSection struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

type About struct {
	Title    string         `yaml:"title"`
	Subtitle string         `yaml:"subtitle"`
	Sections []AboutSection `yaml:"sections"`
}

// AboutSection has a markdown Body; HTML is filled in by Parse.
type AboutSection struct {
	Title string        `yaml:"title"`
	Icon  string        `yaml:"icon"`
	Body  string        `yaml:"body"`
	HTML  template.HTML `yaml:"-"`
}

type Staff struct {
	Title    string        `yaml:"title"`
	Subtitle string        `yaml:"subtitle"`
	Button   string        `yaml:"button"`
	Members  []StaffMember `yaml:"members"`
}

// RoleIcon names the badge shown next to a staff role.
type RoleIcon string

const (
	RoleIconCrown  RoleIcon = "crown"
	RoleIconWrench RoleIcon = "wrench"
)

// Glyph returns the character drawn for the icon.
func (i RoleIcon) Glyph() string {
	switch i {
	case RoleIconCrown:
		return "👑"
	case RoleIconWrench:
		return "🔧"
	}
	return ""
}

type StaffMember struct {
	Name    string   `yaml:"name"`
	Role    string   `yaml:"role"`
	Icon    RoleIcon `yaml:"icon"`
	Avatar  string   `yaml:"avatar"`
	Profile string   `yaml:"profile"`
}

type Contact struct {
	Title    string          `yaml:"title"`
	Subtitle string          `yaml:"subtitle"`
	Methods  []ContactMethod `yaml:"methods"`
	Form     ContactForm     `yaml:"form"`
}

// ContactMethod kinds. Email links to mailto:, discord to the configured
// invite, server has no link.
const (
	MethodEmail   = "email"
	MethodDiscord = "discord"
	MethodServer  = "server"
)

type ContactMethod struct {
	Icon  string `yaml:"icon"`
	Kind  string `yaml:"kind"`
	Label string `yaml:"label"`
}

// ContactForm holds placeholders and button labels of the contact form.
type ContactForm struct {
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Subject    string `yaml:"subject"`
	Message    string `yaml:"message"`
	Submit     string `yaml:"submit"`
	Submitting string `yaml:"submitting"`
}

type Map struct {
	Title string `yaml:"title"`
}

type NotFound struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
	Link  string `yaml:"link"`
}

type Footer struct {
	Rights string `yaml:"rights"`
}

// Load decodes the embedded site copy.
func Load() (*Site, error) {
	return Parse(siteYAML)
}

// Parse decodes site copy from YAML, renders markdown bodies and validates
// the result.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding site content: %w", err)
	}

	for i := range s.About.Sections {
		sec := &s.About.Sections[i]
		html, err := renderMarkdown(sec.Body)
		if err != nil {
			return nil, fmt.Errorf("rendering about section %q: %w", sec.Title, err)
		}
		sec.HTML = html
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

var markdown = newMarkdown()

func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

// Validate checks that the copy every view relies on is present.
func (s *Site) Validate() error {
	required := map[string]string{
		"hero.title":       s.Hero.Title,
		"join.title":       s.Join.Title,
		"features.title":   s.Features.Title,
		"store.title":      s.Store.Title,
		"newsletter.title": s.Newsletter.Title,
		"modal.title":      s.Modal.Title,
		"modal.button":     s.Modal.Button,
		"rules.title":      s.Rules.Title,
		"about.title":      s.About.Title,
		"staff.title":      s.Staff.Title,
		"contact.title":    s.Contact.Title,
		"contact.submit":   s.Contact.Form.Submit,
		"not_found.title":  s.NotFound.Title,
		"footer.rights":    s.Footer.Rights,
	}
	for key, v := range required {
		if v == "" {
			return fmt.Errorf("content: %s is required", key)
		}
	}

	if len(s.Features.Items) == 0 {
		return fmt.Errorf("content: features.items is empty")
	}
	for _, sec := range s.Rules.Sections {
		if sec.Title == "" || len(sec.Items) == 0 {
			return fmt.Errorf("content: rule section %q is incomplete", sec.Title)
		}
	}
	for _, m := range s.Staff.Members {
		if m.Name == "" || m.Role == "" {
			return fmt.Errorf("content: staff member %q is incomplete", m.Name)
		}
		if m.Icon.Glyph() == "" {
			return fmt.Errorf("content: staff member %q has unknown icon %q", m.Name, m.Icon)
		}
	}
	for _, cm := range s.Contact.Methods {
		switch cm.Kind {
		case MethodEmail, MethodDiscord, MethodServer:
		default:
			return fmt.Errorf("content: contact method %q has unknown kind %q", cm.Label, cm.Kind)
		}
	}
	return nil
}
