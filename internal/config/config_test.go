package config

import (
	"errors"
	"testing"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if !errors.Is(err, ErrMissingJWTSecret) {
		t.Errorf("error = %v, want ErrMissingJWTSecret", err)
	}
}

func TestLoadWithSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %q, want s3cret", cfg.Auth.JWTSecret)
	}
	if cfg.App.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.App.Port)
	}
	if cfg.Auth.JWTExpireMinute != 43200 {
		t.Errorf("JWTExpireMinute = %d, want default 43200", cfg.Auth.JWTExpireMinute)
	}
}

func TestEnvOverrideIgnoresBadInt(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Port != 8080 {
		t.Errorf("Port = %d, want default 8080", cfg.App.Port)
	}
}
