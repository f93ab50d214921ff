package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.MaxBodySize != "1M" {
		t.Errorf("expected default body limit 1M, got %s", cfg.MaxBodySize)
	}
	if cfg.RequestTimeout != 120 {
		t.Errorf("expected default timeout 120, got %d", cfg.RequestTimeout)
	}
	if cfg.MaxPersons != 100000 {
		t.Errorf("expected default person cap 100000, got %d", cfg.MaxPersons)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_PERSONS", "500")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.MaxPersons != 500 {
		t.Errorf("expected person cap 500, got %d", cfg.MaxPersons)
	}
	if cfg.RequestTimeout != 30 {
		t.Errorf("expected timeout 30, got %d", cfg.RequestTimeout)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}

func TestConfig_Validate(t *testing.T) {
	c := &Config{RequestTimeout: 120, MaxPersons: 100}
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	c.MaxPersons = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for zero person cap")
	}
}
