package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Listen != ":8080" {
		t.Errorf("expected default listen %q, got %q", ":8080", cfg.Listen)
	}
	if cfg.Timers.ModalDelay != time.Second {
		t.Errorf("expected modal delay 1s, got %v", cfg.Timers.ModalDelay)
	}
	if cfg.Timers.PlayerInterval != 5*time.Second {
		t.Errorf("expected player interval 5s, got %v", cfg.Timers.PlayerInterval)
	}
	if cfg.Timers.CopyRevert != 2*time.Second {
		t.Errorf("expected copy revert 2s, got %v", cfg.Timers.CopyRevert)
	}
	if cfg.Modal.DismissThreshold != 100 {
		t.Errorf("expected dismiss threshold 100, got %d", cfg.Modal.DismissThreshold)
	}
	if cfg.Contact.WebhookURL != "" {
		t.Errorf("expected no default webhook, got %q", cfg.Contact.WebhookURL)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jotunheim.yml")

	original := DefaultConfig()
	original.Listen = "127.0.0.1:9000"
	original.BaseURL = "https://jotunmc.no"
	original.Contact.WebhookURL = "https://discord.example/api/webhooks/1/abc"
	original.Contact.Timeout = 3 * time.Second
	original.CORS.AllowedOrigins = []string{"https://store.jotunmc.no"}
	original.Chat.Enabled = false

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Listen != original.Listen {
		t.Errorf("listen: got %q, want %q", loaded.Listen, original.Listen)
	}
	if loaded.BaseURL != original.BaseURL {
		t.Errorf("base_url: got %q, want %q", loaded.BaseURL, original.BaseURL)
	}
	if loaded.Contact.WebhookURL != original.Contact.WebhookURL {
		t.Errorf("webhook_url: got %q, want %q", loaded.Contact.WebhookURL, original.Contact.WebhookURL)
	}
	if loaded.Contact.Timeout != original.Contact.Timeout {
		t.Errorf("timeout: got %v, want %v", loaded.Contact.Timeout, original.Contact.Timeout)
	}
	if loaded.Chat.Enabled {
		t.Error("chat.enabled: expected false after round trip")
	}
	if len(loaded.CORS.AllowedOrigins) != 1 || loaded.CORS.AllowedOrigins[0] != "https://store.jotunmc.no" {
		t.Errorf("allowed_origins: got %v", loaded.CORS.AllowedOrigins)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.SiteName != "Jotunheim MC" {
		t.Errorf("expected default site name, got %q", cfg.SiteName)
	}
}

func TestLoadYAMLDurations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jotunheim.yml")
	data := []byte("timers:\n  modal_delay: 250ms\n  player_interval: 1s\n  copy_revert: 3s\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Timers.ModalDelay != 250*time.Millisecond {
		t.Errorf("modal_delay: got %v", cfg.Timers.ModalDelay)
	}
	if cfg.Timers.CopyRevert != 3*time.Second {
		t.Errorf("copy_revert: got %v", cfg.Timers.CopyRevert)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jotunheim.yml")

	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("JOTUNHEIM_LISTEN", ":9999")
	t.Setenv("JOTUNHEIM_CONTACT__WEBHOOK_URL", "https://hooks.example/x")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Listen != ":9999" {
		t.Errorf("env override failed: got %q", loaded.Listen)
	}
	if loaded.Contact.WebhookURL != "https://hooks.example/x" {
		t.Errorf("nested env override failed: got %q", loaded.Contact.WebhookURL)
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"JOTUNHEIM_LISTEN", "listen"},
		{"JOTUNHEIM_BASE_URL", "base_url"},
		{"JOTUNHEIM_CONTACT__WEBHOOK_URL", "contact.webhook_url"},
		{"JOTUNHEIM_LOG__LEVEL", "log.level"},
	}
	for _, tt := range tests {
		if got := envKey(tt.input); got != tt.want {
			t.Errorf("envKey(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen", func(c *Config) { c.Listen = "" }},
		{"relative base url", func(c *Config) { c.BaseURL = "/site" }},
		{"ftp webhook", func(c *Config) { c.Contact.WebhookURL = "ftp://example.com/hook" }},
		{"zero timeout", func(c *Config) { c.Contact.Timeout = 0 }},
		{"chat without id", func(c *Config) { c.Chat.WebsiteID = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }},
		{"bad cache pattern", func(c *Config) { c.Assets.Cache = []CacheRule{{Pattern: "img/[", MaxAge: time.Hour}} }},
		{"zero modal delay", func(c *Config) { c.Timers.ModalDelay = 0 }},
		{"negative retention", func(c *Config) { c.Audit.Retention = -time.Hour }},
		{"zero threshold", func(c *Config) { c.Modal.DismissThreshold = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateChatDisabledWithoutID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chat.Enabled = false
	cfg.Chat.WebsiteID = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"https://jotunmc.no", []string{"https://jotunmc.no"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}

func TestSaveWritesReadableDurations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jotunheim.yml")

	original := DefaultConfig()
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"timeout: 10s", "modal_delay: 1s", "player_interval: 5s", "copy_revert: 2s", "retention: 2160h0m0s", "max_age: 168h0m0s"} {
		if !strings.Contains(text, want) {
			t.Errorf("saved config missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "10000000000") {
		t.Errorf("saved config has nanosecond durations:\n%s", text)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Contact.Timeout != original.Contact.Timeout || loaded.Timers != original.Timers {
		t.Errorf("durations changed on round trip: contact %v, timers %+v", loaded.Contact.Timeout, loaded.Timers)
	}
	if loaded.Audit.Retention != original.Audit.Retention {
		t.Errorf("retention: got %v, want %v", loaded.Audit.Retention, original.Audit.Retention)
	}
	if len(loaded.Assets.Cache) != 2 || loaded.Assets.Cache[0].MaxAge != 7*24*time.Hour {
		t.Errorf("cache rules: got %+v", loaded.Assets.Cache)
	}
}
