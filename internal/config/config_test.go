package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "designmatch")
	t.Setenv("APP_ENV", "development")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("DB_NAME", "designmatch")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if cfg.Matching.ScorerMode != ScorerModeAIWithFallback {
		t.Fatalf("expected default scorer mode, got %q", cfg.Matching.ScorerMode)
	}
	if cfg.Matching.MinScore != 40 {
		t.Fatalf("expected default min score 40, got %v", cfg.Matching.MinScore)
	}
	if cfg.Matching.RequestTimeout != 30*time.Second {
		t.Fatalf("expected default 30s timeout, got %v", cfg.Matching.RequestTimeout)
	}
	if cfg.Matching.MaxConcurrent != 4 || cfg.Matching.RetryAttempts != 3 {
		t.Fatalf("unexpected matching defaults: %+v", cfg.Matching)
	}
	if !cfg.App.IsDevelopment() {
		t.Fatalf("APP_ENV=development should report development")
	}
}

func TestLoad_MissingRequiredListsAll(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_NAME", "")
	t.Setenv("JWT_ACCESS_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, key := range []string{"APP_NAME", "JWT_ACCESS_SECRET"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error should name %s, got %v", key, err)
		}
	}
}

func TestLoad_InvalidScorerMode(t *testing.T) {
	setRequired(t)
	t.Setenv("MATCH_SCORER_MODE", "vibes")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for bad scorer mode")
	}
}

func TestLoad_RulesModeNeedsNoAPIKey(t *testing.T) {
	setRequired(t)
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("MATCH_SCORER_MODE", ScorerModeRules)

	if _, err := Load(); err != nil {
		t.Fatalf("rules mode must not require an API key, got %v", err)
	}
}

func TestLoad_AIModeRequiresAPIKey(t *testing.T) {
	setRequired(t)
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("MATCH_SCORER_MODE", ScorerModeAI)

	if _, err := Load(); err == nil {
		t.Fatalf("ai mode must require an API key")
	}
}
