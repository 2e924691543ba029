package config

import "testing"

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("ENTREGA_JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected an error when ENTREGA_JWT_SECRET is unset")
	}

	t.Setenv("ENTREGA_JWT_SECRET", "s3cret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Fatalf("unexpected secret: %q", cfg.Auth.JWTSecret)
	}
	if cfg.HTTP.Addr == "" || cfg.DB.DSN == "" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
