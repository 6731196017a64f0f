package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Anthropic AnthropicConfig
	Matching  MatchingConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

func (c AppConfig) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
	PoolMinConns   int32
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	ResultTTL time.Duration
}

type AuthConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration

	AdminAPIKey string
	CodeTTL     time.Duration
}

type AnthropicConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// Scorer modes accepted by MATCH_SCORER_MODE.
const (
	ScorerModeRules          = "rules"
	ScorerModeAI             = "ai"
	ScorerModeAIWithFallback = "ai_with_fallback"
)

type MatchingConfig struct {
	ScorerMode     string
	MinScore       float64
	MaxConcurrent  int
	RequestTimeout time.Duration
	RetryAttempts  int
	AIRateLimit    int
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}
	optDur := func(key string, fallback time.Duration) time.Duration {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fallback
		}
		return d
	}
	optInt := func(key string, fallback int) int {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fallback
		}
		return n
	}
	optFloat := func(key string, fallback float64) float64 {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return fallback
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fallback
		}
		return f
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:         opt("DB_HOST", "localhost"),
		DBPort:         opt("DB_PORT", "5432"),
		DBName:         req("DB_NAME"),
		DBUser:         req("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBSSLMode:      opt("DB_SSL_MODE", "disable"),
		ConnectTimeout: optDur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:   int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:   int32(optInt("DB_POOL_MIN_CONNS", 0)),
	}

	cfg.Redis = RedisConfig{
		Host:      opt("REDIS_HOST", "localhost"),
		Port:      opt("REDIS_PORT", "6379"),
		Password:  strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		ResultTTL: optDur("REDIS_RESULT_TTL", 10*time.Minute),
	}

	cfg.Auth = AuthConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  optDur("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: optDur("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
		AdminAPIKey:      strings.TrimSpace(os.Getenv("ADMIN_API_KEY")),
		CodeTTL:          optDur("LOGIN_CODE_TTL", 10*time.Minute),
	}

	cfg.Anthropic = AnthropicConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")),
		Model:       opt("ANTHROPIC_MODEL", "claude-haiku-4-5-20251001"),
		MaxTokens:   int64(optInt("ANTHROPIC_MAX_TOKENS", 1024)),
		Temperature: optFloat("ANTHROPIC_TEMPERATURE", 0.2),
	}

	cfg.Matching = MatchingConfig{
		ScorerMode:     opt("MATCH_SCORER_MODE", ScorerModeAIWithFallback),
		MinScore:       optFloat("MATCH_MIN_SCORE", 40),
		MaxConcurrent:  optInt("MATCH_MAX_CONCURRENT", 4),
		RequestTimeout: optDur("MATCH_REQUEST_TIMEOUT", 30*time.Second),
		RetryAttempts:  optInt("MATCH_AI_RETRY_ATTEMPTS", 3),
		AIRateLimit:    optInt("MATCH_AI_RATE_LIMIT", 0),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	switch cfg.Matching.ScorerMode {
	case ScorerModeRules, ScorerModeAI, ScorerModeAIWithFallback:
	default:
		return Config{}, fmt.Errorf("invalid MATCH_SCORER_MODE: %s", cfg.Matching.ScorerMode)
	}

	if cfg.Matching.ScorerMode != ScorerModeRules && cfg.Anthropic.APIKey == "" {
		return Config{}, fmt.Errorf("%w: ANTHROPIC_API_KEY (required for scorer mode %q)", errMissingRequiredEnv, cfg.Matching.ScorerMode)
	}

	return cfg, nil
}
