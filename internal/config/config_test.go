package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("MEDISYNC_API_URL", "")
	t.Setenv("SESSION_BACKEND", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.APIBaseURL != "http://localhost:8000/api/v1" {
		t.Fatalf("expected default API base URL, got %s", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 20*time.Second {
		t.Fatalf("expected default API timeout, got %s", cfg.APITimeout)
	}
	if cfg.SessionBackend != "file" {
		t.Fatalf("expected file session backend, got %s", cfg.SessionBackend)
	}
	if cfg.StatusUppercase {
		t.Fatalf("expected lowercase status casing by default")
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins by default, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MEDISYNC_API_URL", "https://api.hospital.example/api/v1")
	t.Setenv("MEDISYNC_API_TIMEOUT", "5s")
	t.Setenv("MEDISYNC_STATUS_UPPERCASE", "true")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example, https://staging.example")
	cfg := Load()
	if cfg.APIBaseURL != "https://api.hospital.example/api/v1" {
		t.Fatalf("unexpected API base URL %s", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 5*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.APITimeout)
	}
	if !cfg.StatusUppercase {
		t.Fatalf("expected uppercase status casing")
	}
	if cfg.SessionBackend != "redis" {
		t.Fatalf("unexpected session backend %s", cfg.SessionBackend)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://staging.example" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("MEDISYNC_API_TIMEOUT", "soon")
	cfg := Load()
	if cfg.APITimeout != 20*time.Second {
		t.Fatalf("expected fallback timeout, got %s", cfg.APITimeout)
	}
}
