package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variable overrides. Nested keys are
// separated by a double underscore: JOTUNHEIM_CONTACT__WEBHOOK_URL.
const EnvPrefix = "JOTUNHEIM_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (JOTUNHEIM_*). A .env file in the working
// directory is loaded into the process environment first if present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// envKey maps JOTUNHEIM_CONTACT__WEBHOOK_URL to contact.webhook_url.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogFormats = map[LogFormat]bool{
	LogFormatJSON:    true,
	LogFormatConsole: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Listen) == "" {
		return fmt.Errorf("listen is required")
	}

	base, err := url.Parse(c.BaseURL)
	if err != nil || !base.IsAbs() || base.Host == "" {
		return fmt.Errorf("base_url %q must be an absolute URL", c.BaseURL)
	}

	if c.SiteName == "" {
		return fmt.Errorf("site_name is required")
	}

	if c.Contact.WebhookURL != "" {
		u, err := url.Parse(c.Contact.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("contact.webhook_url must be an http(s) URL")
		}
	}
	if c.Contact.Timeout <= 0 {
		return fmt.Errorf("contact.timeout must be positive")
	}
	if c.Audit.Retention < 0 {
		return fmt.Errorf("audit.retention must be non-negative")
	}

	if c.Chat.Enabled && strings.TrimSpace(c.Chat.WebsiteID) == "" {
		return fmt.Errorf("chat.website_id is required when chat is enabled")
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil || c.Log.Level == "" {
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	if !validLogFormats[c.Log.Format] {
		return fmt.Errorf("invalid log.format %q: must be one of json, console", c.Log.Format)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}

	for _, rule := range c.Assets.Cache {
		if !doublestar.ValidatePattern(rule.Pattern) {
			return fmt.Errorf("invalid assets.cache pattern %q", rule.Pattern)
		}
		if rule.MaxAge < 0 {
			return fmt.Errorf("assets.cache max_age for %q must be non-negative", rule.Pattern)
		}
	}

	if c.Timers.ModalDelay <= 0 || c.Timers.PlayerInterval <= 0 || c.Timers.CopyRevert <= 0 {
		return fmt.Errorf("timers must be positive")
	}

	if c.Modal.DismissThreshold <= 0 {
		return fmt.Errorf("modal.dismiss_threshold must be positive")
	}

	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
