package config

import "time"

// LogFormat selects how log lines are written.
type LogFormat string

const (
	LogFormatJSON    LogFormat = "json"
	LogFormatConsole LogFormat = "console"
)

// Config is the top-level site configuration, corresponding to jotunheim.yml.
// It is loaded once at startup and treated as read-only afterwards.
type Config struct {
	Listen        string        `yaml:"listen" koanf:"listen"`
	BaseURL       string        `yaml:"base_url" koanf:"base_url"`
	SiteName      string        `yaml:"site_name" koanf:"site_name"`
	ServerAddress string        `yaml:"server_address" koanf:"server_address"`
	DiscordInvite string        `yaml:"discord_invite" koanf:"discord_invite"`
	MapURL        string        `yaml:"map_url" koanf:"map_url"`
	DataDir       string        `yaml:"data_dir" koanf:"data_dir"`
	Chat          ChatConfig    `yaml:"chat" koanf:"chat"`
	Contact       ContactConfig `yaml:"contact" koanf:"contact"`
	Audit         AuditConfig   `yaml:"audit" koanf:"audit"`
	Log           LogConfig     `yaml:"log" koanf:"log"`
	Metrics       MetricsConfig `yaml:"metrics" koanf:"metrics"`
	CORS          CORSConfig    `yaml:"cors" koanf:"cors"`
	Assets        AssetsConfig  `yaml:"assets" koanf:"assets"`
	Timers        TimersConfig  `yaml:"timers" koanf:"timers"`
	Modal         ModalConfig   `yaml:"modal" koanf:"modal"`
}

// ChatConfig controls the third-party live-chat widget injected into every page.
type ChatConfig struct {
	Enabled   bool   `yaml:"enabled" koanf:"enabled"`
	WebsiteID string `yaml:"website_id" koanf:"website_id"`
}

// ContactConfig holds the contact form delivery settings.
type ContactConfig struct {
	WebhookURL string        `yaml:"webhook_url" koanf:"webhook_url"`
	Timeout    time.Duration `yaml:"timeout" koanf:"timeout"`
}

// AuditConfig toggles the SQLite audit trail. Entries older than Retention
// are pruned when the server starts; zero keeps everything.
type AuditConfig struct {
	Enabled   bool          `yaml:"enabled" koanf:"enabled"`
	Retention time.Duration `yaml:"retention" koanf:"retention"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string    `yaml:"level" koanf:"level"`
	Format LogFormat `yaml:"format" koanf:"format"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Path    string `yaml:"path" koanf:"path"`
}

// CORSConfig lists extra origins allowed to call the site.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
}

// AssetsConfig holds static asset settings.
type AssetsConfig struct {
	Cache []CacheRule `yaml:"cache" koanf:"cache"`
}

// CacheRule maps a glob over static asset paths to a Cache-Control max-age.
type CacheRule struct {
	Pattern string        `yaml:"pattern" koanf:"pattern"`
	MaxAge  time.Duration `yaml:"max_age" koanf:"max_age"`
}

// TimersConfig holds the page widget timings.
type TimersConfig struct {
	ModalDelay     time.Duration `yaml:"modal_delay" koanf:"modal_delay"`
	PlayerInterval time.Duration `yaml:"player_interval" koanf:"player_interval"`
	CopyRevert     time.Duration `yaml:"copy_revert" koanf:"copy_revert"`
}

// ModalConfig holds promo modal settings.
type ModalConfig struct {
	DismissThreshold int `yaml:"dismiss_threshold" koanf:"dismiss_threshold"`
}

// The MarshalYAML methods below write durations as strings such as "10s",
// which is also what Load accepts. yaml.v3 would otherwise write
// nanoseconds.

func (c ContactConfig) MarshalYAML() (any, error) {
	return struct {
		WebhookURL string `yaml:"webhook_url"`
		Timeout    string `yaml:"timeout"`
	}{c.WebhookURL, c.Timeout.String()}, nil
}

func (c AuditConfig) MarshalYAML() (any, error) {
	return struct {
		Enabled   bool   `yaml:"enabled"`
		Retention string `yaml:"retention"`
	}{c.Enabled, c.Retention.String()}, nil
}

func (r CacheRule) MarshalYAML() (any, error) {
	return struct {
		Pattern string `yaml:"pattern"`
		MaxAge  string `yaml:"max_age"`
	}{r.Pattern, r.MaxAge.String()}, nil
}

func (t TimersConfig) MarshalYAML() (any, error) {
	return struct {
		ModalDelay     string `yaml:"modal_delay"`
		PlayerInterval string `yaml:"player_interval"`
		CopyRevert     string `yaml:"copy_revert"`
	}{t.ModalDelay.String(), t.PlayerInterval.String(), t.CopyRevert.String()}, nil
}
