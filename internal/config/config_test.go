package config

import "testing"

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://localhost/oni")
	t.Setenv("ADMIN_ID", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BotToken != "123:abc" {
		t.Fatalf("bot token = %q", cfg.BotToken)
	}
	if cfg.RedisAddr != "127.0.0.1:6379" {
		t.Fatalf("redis addr default = %q", cfg.RedisAddr)
	}
	if cfg.SupportContact != "@MargetSeller" {
		t.Fatalf("support contact default = %q", cfg.SupportContact)
	}
	if cfg.MetricsPort != 9090 {
		t.Fatalf("metrics port default = %d", cfg.MetricsPort)
	}
	if !cfg.IsAdmin(42) || cfg.IsAdmin(43) {
		t.Fatal("IsAdmin must match the configured id only")
	}
}

func TestLoadRequiresAdminID(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://localhost/oni")
	t.Setenv("ADMIN_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without ADMIN_ID")
	}
}
