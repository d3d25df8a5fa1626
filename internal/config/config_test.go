package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerAddr != ":3000" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollInterval)
	}
	if !cfg.IsDev() {
		t.Error("default env should be development")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SERVER_ADDR", ":8080")
	t.Setenv("POLL_INTERVAL", "250ms")
	t.Setenv("CLASSIFIER_URL", "https://ai.internal/classify")
	t.Setenv("MOD_API_TOKEN", "s3cret")

	cfg := Load()

	if cfg.IsDev() {
		t.Error("production env reported as dev")
	}
	if cfg.ServerAddr != ":8080" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("PollInterval = %v", cfg.PollInterval)
	}
	if cfg.ClassifierURL != "https://ai.internal/classify" {
		t.Errorf("ClassifierURL = %q", cfg.ClassifierURL)
	}
	if cfg.APIToken != "s3cret" {
		t.Errorf("APIToken = %q", cfg.APIToken)
	}
}

func TestPollIntervalRejectsGarbage(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "soon")
	if cfg := Load(); cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want fallback 5s", cfg.PollInterval)
	}

	t.Setenv("POLL_INTERVAL", "-3s")
	if cfg := Load(); cfg.PollInterval != 5*time.Second {
		t.Errorf("negative PollInterval = %v, want fallback 5s", cfg.PollInterval)
	}
}
