package modernblog

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/modernblog/auth"
	"github.com/eringen/modernblog/storage"
)

// SiteConfig holds all configuration for a modernblog site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "ModernBlog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Feed description

	Addr         string `yaml:"addr"`          // Listen address (default "127.0.0.1:3000")
	DatabasePath string `yaml:"database_path"` // SQLite slot path (default "data/blog.db")

	AdminUsername     string `yaml:"admin_username"`      // default "admin"
	AdminPasswordHash string `yaml:"admin_password_hash"` // rolling or bcrypt hash; default is the demo password
	SessionSecret     string `yaml:"session_secret"`      // Required: cookie encryption secret
	CookieSecure      bool   `yaml:"cookie_secure"`       // Set true for HTTPS

	PostCacheTTL  time.Duration `yaml:"post_cache_ttl"` // default 5m
	LoginLatency  time.Duration `yaml:"login_latency"`  // default 1s
	SessionTTL    time.Duration `yaml:"session_ttl"`    // default 24h
	LoginAttempts int           `yaml:"login_attempts"` // per IP per LoginWindow (default 5)
	LoginWindow   time.Duration `yaml:"login_window"`   // default 1m
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "ModernBlog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = "127.0.0.1:3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.AdminUsername == "" || c.AdminPasswordHash == "" {
		def := auth.DefaultCredentials()
		if c.AdminUsername == "" {
			c.AdminUsername = def.Username
		}
		if c.AdminPasswordHash == "" {
			c.AdminPasswordHash = def.PasswordHash
		}
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.LoginLatency == 0 {
		c.LoginLatency = auth.DefaultLatency
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = auth.DefaultSessionTTL
	}
	if c.LoginAttempts == 0 {
		c.LoginAttempts = 5
	}
	if c.LoginWindow == 0 {
		c.LoginWindow = time.Minute
	}
}

// Credentials returns the admin identity described by the config.
func (c SiteConfig) Credentials() auth.Credentials {
	return auth.Credentials{Username: c.AdminUsername, PasswordHash: c.AdminPasswordHash}
}

// LoadConfig reads a YAML config file and applies environment overrides.
// A missing file is not an error; the environment and defaults still apply.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return SiteConfig{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return SiteConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return SiteConfig{}, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) applyEnv() error {
	c.Name = EnvOr("SITE_NAME", c.Name)
	c.URL = EnvOr("SITE_URL", c.URL)
	c.Description = EnvOr("SITE_DESCRIPTION", c.Description)
	c.Addr = EnvOr("ADDR", c.Addr)
	c.DatabasePath = EnvOr("DATABASE_PATH", c.DatabasePath)
	c.AdminUsername = EnvOr("ADMIN_USERNAME", c.AdminUsername)
	c.AdminPasswordHash = EnvOr("ADMIN_PASSWORD_HASH", c.AdminPasswordHash)
	c.SessionSecret = EnvOr("SESSION_SECRET", c.SessionSecret)
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		c.CookieSecure = b
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithSlot makes the App use slot instead of opening DatabasePath.
// The caller keeps ownership of slot.
func WithSlot(slot storage.Slot) Option {
	return func(a *App) {
		a.Slot = slot
	}
}
