package config

import (
	"testing"
	"time"
)

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("TASKCAL_JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error without TASKCAL_JWT_SECRET")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TASKCAL_JWT_SECRET", "s3cret")
	t.Setenv("TASKCAL_TZ", "")
	t.Setenv("TASKCAL_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.DatabaseURL == "" || cfg.StaticDir == "" {
		t.Error("missing default paths")
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("token ttl = %v", cfg.TokenTTL)
	}
	if cfg.DigestInterval != 0 {
		t.Errorf("digest interval = %v, want disabled", cfg.DigestInterval)
	}
}

func TestLoadTimezone(t *testing.T) {
	t.Setenv("TASKCAL_JWT_SECRET", "s3cret")
	t.Setenv("TASKCAL_TZ", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timezone != time.UTC {
		t.Errorf("timezone = %v, want UTC", cfg.Timezone)
	}

	t.Setenv("TASKCAL_TZ", "Not/AZone")
	if _, err := Load(); err == nil {
		t.Error("expected an error for an unknown timezone")
	}
}

func TestParseHours(t *testing.T) {
	if got := parseHours("5", 0); got != 5*time.Hour {
		t.Errorf("parseHours(5) = %v", got)
	}
	if got := parseHours("zero", time.Hour); got != time.Hour {
		t.Errorf("parseHours(garbage) = %v, want fallback", got)
	}
	if got := parseHours("-2", time.Hour); got != time.Hour {
		t.Errorf("parseHours(-2) = %v, want fallback", got)
	}
}
