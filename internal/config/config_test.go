package config

import (
	"testing"
	"time"
)

func setProviderEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ARK_API_KEY", "test-key")
	t.Setenv("MODEL", "test-model")
}

func TestLoadFailsWithoutProviderCredentials(t *testing.T) {
	t.Setenv("ARK_API_KEY", "")
	t.Setenv("ARK_ACCESS_KEY", "")
	t.Setenv("ARK_SECRET_KEY", "")
	t.Setenv("MODEL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when provider credentials are missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	setProviderEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("ADMIN_KEY", "")
	t.Setenv("ACCESS_SESSION_TTL", "")
	t.Setenv("CHAT_FALLBACK_POLICY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("METRICS_ENABLED", "")
	t.Setenv("FRONTEND_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Admin.Key != "dev-admin-key" {
		t.Fatalf("expected default admin key, got %q", cfg.Admin.Key)
	}
	if cfg.Access.SessionTTL != 12*time.Hour {
		t.Fatalf("expected 12h TTL, got %v", cfg.Access.SessionTTL)
	}
	if cfg.Chat.FallbackPolicy != FallbackMock {
		t.Fatalf("expected mock policy, got %q", cfg.Chat.FallbackPolicy)
	}
	if !cfg.Metrics.Enabled {
		t.Fatal("expected metrics enabled by default")
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected default origins: %+v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadParsesOrigins(t *testing.T) {
	setProviderEnv(t)
	t.Setenv("FRONTEND_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %+v", cfg.Server.AllowedOrigins)
	}
	if cfg.Server.AllowedOrigins[1] != "https://staging.example.com" {
		t.Fatalf("unexpected origin: %q", cfg.Server.AllowedOrigins[1])
	}
}

func TestLoadZeroTTLDisablesExpiry(t *testing.T) {
	setProviderEnv(t)
	t.Setenv("ACCESS_SESSION_TTL", "0s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if cfg.Access.SessionTTL != 0 {
		t.Fatalf("expected zero TTL, got %v", cfg.Access.SessionTTL)
	}
}

func TestLoadRejectsInvalidTTL(t *testing.T) {
	setProviderEnv(t)
	t.Setenv("ACCESS_SESSION_TTL", "twelve hours")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparseable TTL")
	}
}

func TestLoadRejectsInvalidFallbackPolicy(t *testing.T) {
	setProviderEnv(t)
	t.Setenv("CHAT_FALLBACK_POLICY", "retry")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown fallback policy")
	}
}

func TestLoadPortFormats(t *testing.T) {
	setProviderEnv(t)

	t.Setenv("PORT", "9000")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("expected :9000, got %q", cfg.Server.Addr)
	}

	t.Setenv("PORT", "127.0.0.1:9000")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("expected full addr kept, got %q", cfg.Server.Addr)
	}
}
