package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	JWTSecret string

	ContentAPIURL string
	SummaryAPIURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	// Trending knobs. Defaults match the editorial policy; all overridable.
	TrendingReactionFloor  int
	TrendingCommentWeight  int
	TrendingReactionWeight int
	TrendingManualBoost    int
	TrendingLimit          int
	TrendingRefresh        time.Duration

	CommentCacheTTL time.Duration
	CountsCacheTTL  time.Duration
	GuestCookieTTL  time.Duration
	CommentCooldown time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret"),

		ContentAPIURL: getEnv("CONTENT_API_URL", "http://localhost:4000"),
		SummaryAPIURL: getEnv("SUMMARY_API_URL", "http://localhost:4100"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),
	}

	var err error
	cfg.TrendingReactionFloor, err = parseInt(getEnv("TRENDING_REACTION_FLOOR", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRENDING_REACTION_FLOOR: %w", err)
	}
	cfg.TrendingCommentWeight, err = parseInt(getEnv("TRENDING_COMMENT_WEIGHT", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRENDING_COMMENT_WEIGHT: %w", err)
	}
	cfg.TrendingReactionWeight, err = parseInt(getEnv("TRENDING_REACTION_WEIGHT", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRENDING_REACTION_WEIGHT: %w", err)
	}
	cfg.TrendingManualBoost, err = parseInt(getEnv("TRENDING_MANUAL_BOOST", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRENDING_MANUAL_BOOST: %w", err)
	}
	cfg.TrendingLimit, err = parseInt(getEnv("TRENDING_LIMIT", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRENDING_LIMIT: %w", err)
	}
	cfg.TrendingRefresh, err = time.ParseDuration(getEnv("TRENDING_REFRESH", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRENDING_REFRESH: %w", err)
	}
	cfg.CommentCacheTTL, err = time.ParseDuration(getEnv("COMMENT_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid COMMENT_CACHE_TTL: %w", err)
	}
	cfg.CountsCacheTTL, err = time.ParseDuration(getEnv("COUNTS_CACHE_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid COUNTS_CACHE_TTL: %w", err)
	}
	cfg.GuestCookieTTL, err = time.ParseDuration(getEnv("GUEST_COOKIE_TTL", "8760h"))
	if err != nil {
		return nil, fmt.Errorf("invalid GUEST_COOKIE_TTL: %w", err)
	}
	cfg.CommentCooldown, err = time.ParseDuration(getEnv("COMMENT_COOLDOWN", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid COMMENT_COOLDOWN: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}
