package config

import "time"

// DefaultCacheRules are applied to /static assets when the config file
// does not list any.
var DefaultCacheRules = []CacheRule{
	{Pattern: "img/**", MaxAge: 7 * 24 * time.Hour},
	{Pattern: "**/*.{css,js}", MaxAge: time.Hour},
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:        ":8080",
		BaseURL:       "http://localhost:8080",
		SiteName:      "Jotunheim MC",
		ServerAddress: "spill.jotunmc.no",
		DiscordInvite: "https://discord.gg/wGSjZGEvHW",
		MapURL:        "http://kart.jotunmc.no:60444/",
		DataDir:       "data",
		Chat: ChatConfig{
			Enabled:   true,
			WebsiteID: "b443669e-1e11-42e5-8368-9ee6469d3fb8",
		},
		Contact: ContactConfig{
			Timeout: 10 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:   true,
			Retention: 90 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatConsole,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Assets: AssetsConfig{Cache: DefaultCacheRules},
		Timers: TimersConfig{
			ModalDelay:     time.Second,
			PlayerInterval: 5 * time.Second,
			CopyRevert:     2 * time.Second,
		},
		Modal: ModalConfig{DismissThreshold: 100},
	}
}
