package modernblog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/modernblog/auth"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "ModernBlog" || cfg.Addr != "127.0.0.1:3000" {
		t.Errorf("defaults = %+v", cfg)
	}
	def := auth.DefaultCredentials()
	if cfg.Credentials() != def {
		t.Errorf("Credentials = %+v, want %+v", cfg.Credentials(), def)
	}
	if cfg.LoginLatency != time.Second || cfg.SessionTTL != 24*time.Hour {
		t.Errorf("timings = %v/%v", cfg.LoginLatency, cfg.SessionTTL)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modernblog.yaml")
	yaml := "name: Notes\nurl: https://notes.example.com\nsession_ttl: 2h\nlogin_attempts: 3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SITE_NAME", "Env Notes")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "Env Notes" {
		t.Errorf("Name = %q, environment should win", cfg.Name)
	}
	if cfg.URL != "https://notes.example.com" || cfg.SessionTTL != 2*time.Hour || cfg.LoginAttempts != 3 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if !cfg.CookieSecure {
		t.Error("COOKIE_SECURE not applied")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("name: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}

	t.Setenv("COOKIE_SECURE", "maybe")
	if _, err := LoadConfig(""); err == nil {
		t.Error("expected COOKIE_SECURE error")
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"blog"}, "https://example.com/blog/"},
		{"https://example.com/sub/", []string{"blog"}, "https://example.com/sub/blog/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
	if got := PostURL("https://example.com", "a b"); got != "https://example.com/blog/?post=a+b" {
		t.Errorf("PostURL = %q", got)
	}
}
