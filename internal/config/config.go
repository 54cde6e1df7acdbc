// Package config loads the site configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Preference backends.
const (
	BackendCookie = "cookie"
	BackendSQLite = "sqlite"
)

// Config holds every runtime setting. Values come from the environment
// (and a .env file when present); CLI flags may override them.
type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	DatabasePath  string `env:"DATABASE_PATH" envDefault:"portfolio.db"`
	TemplatesGlob string `env:"TEMPLATES_GLOB" envDefault:"templates/*"`

	// LocalesDir overrides the embedded catalogs when set.
	LocalesDir   string `env:"LOCALES_DIR"`
	WatchLocales bool   `env:"WATCH_LOCALES"`

	// PreferenceBackend is "cookie" or "sqlite".
	PreferenceBackend string `env:"PREFERENCE_BACKEND" envDefault:"cookie"`
	// NegotiateLanguage lets first-time visitors start in the language of
	// their Accept-Language header instead of English.
	NegotiateLanguage bool `env:"NEGOTIATE_LANGUAGE"`
	StrictTimeline    bool `env:"STRICT_TIMELINE"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	// AdminSecret signs admin session tokens. A random one is generated
	// per process when empty.
	AdminSecret string `env:"ADMIN_SECRET"`

	SMTPHost string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	ToEmail  string `env:"TO_EMAIL"`

	VisitorRetention time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges and referenced paths.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("config error: PORT must not be empty")
	}
	switch c.PreferenceBackend {
	case BackendCookie, BackendSQLite:
	default:
		return fmt.Errorf("config error: PREFERENCE_BACKEND must be %q or %q, got %q", BackendCookie, BackendSQLite, c.PreferenceBackend)
	}
	if c.VisitorRetention <= 0 {
		return fmt.Errorf("config error: VISITOR_RETENTION must be positive")
	}
	if c.WatchLocales && c.LocalesDir == "" {
		return fmt.Errorf("config error: WATCH_LOCALES requires LOCALES_DIR")
	}
	if c.LocalesDir != "" {
		if info, err := os.Stat(c.LocalesDir); err != nil || !info.IsDir() {
			return fmt.Errorf("config error: locales directory not found: %s", c.LocalesDir)
		}
	}
	return nil
}

// SMTPConfigured reports whether contact mail can be sent.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPass != "" && c.ToEmail != ""
}
