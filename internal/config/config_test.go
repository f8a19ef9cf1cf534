package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"GEMINI_API_KEY", "GOOGLE_CLIENT_ID", "GOOGLE_API_KEY", "AI_TIMEOUT", "CALENDAR_TIMEOUT", "SEED_SAMPLE_DATA", "SERVER_PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Gemini.Timeout != 30*time.Second {
		t.Errorf("expected 30s ai timeout, got %s", cfg.Gemini.Timeout)
	}
	if cfg.Calendar.Timeout != 15*time.Second || cfg.Calendar.SignInTimeout != 5*time.Minute {
		t.Errorf("unexpected calendar timeouts %s / %s", cfg.Calendar.Timeout, cfg.Calendar.SignInTimeout)
	}
	if cfg.Calendar.RedirectURL != "http://localhost:6789/oauth2callback" {
		t.Errorf("unexpected redirect %q", cfg.Calendar.RedirectURL)
	}
	if !cfg.Coach.SeedSample {
		t.Error("sample data should be seeded by default")
	}
	if cfg.Calendar.ClientID != "" || cfg.Calendar.APIKey != "" {
		t.Error("calendar credentials must be empty by default")
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("unexpected address %q", cfg.Address())
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "client")
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("AI_TIMEOUT", "12")
	t.Setenv("CALENDAR_REFRESH_SPEC", "@every 5m")
	t.Setenv("SEED_SAMPLE_DATA", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Calendar.ClientID != "client" || cfg.Calendar.APIKey != "key" {
		t.Errorf("unexpected calendar credentials %q / %q", cfg.Calendar.ClientID, cfg.Calendar.APIKey)
	}
	if cfg.Gemini.Timeout != 12*time.Second {
		t.Errorf("expected bare seconds to parse, got %s", cfg.Gemini.Timeout)
	}
	if cfg.Calendar.RefreshSpec != "@every 5m" {
		t.Errorf("unexpected refresh spec %q", cfg.Calendar.RefreshSpec)
	}
	if cfg.Coach.SeedSample {
		t.Error("expected seeding disabled")
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("AI_TIMEOUT", "-1s")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative ai timeout")
	}
}
