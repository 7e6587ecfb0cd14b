package config

import (
	"database/sql"
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port              int
	DatabaseURL       string
	RedisAddr         string
	JWTSecret         string
	IngestDelay       time.Duration
	StaleCutoff       time.Duration
	CacheTTL          time.Duration
	SignupEnabled     bool
	DefaultIntroSlug  string
	PasswordMinLength int
}

func Load() *Config {
	return &Config{
		Port:              envInt("PORT", 8080),
		DatabaseURL:       env("DATABASE_URL", "postgres://lifearrow:lifearrow@db:5432/lifearrow?sslmode=disable"),
		RedisAddr:         env("REDIS_ADDR", "redis:6379"),
		JWTSecret:         env("JWT_SECRET", "change-me-in-production"),
		IngestDelay:       envDuration("INGEST_DELAY", 5*time.Second),
		StaleCutoff:       envDuration("STALE_PROCESSING_CUTOFF", 30*time.Minute),
		CacheTTL:          envDuration("VIDEO_CACHE_TTL", 5*time.Minute),
		SignupEnabled:     envBool("SIGNUP_ENABLED", true),
		DefaultIntroSlug:  env("DEFAULT_INTRO_SLUG", "intro-video"),
		PasswordMinLength: envInt("PASSWORD_MIN_LENGTH", 8),
	}
}

// MergeFromDB overlays persisted settings over the environment defaults.
// A missing settings table is not fatal; migrations may not have run yet.
func (c *Config) MergeFromDB(db *sql.DB) {
	rows, err := db.Query("SELECT key, value FROM settings")
	if err != nil {
		log.Printf("config: skipping DB merge: %v", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}
		switch key {
		case "default_intro_slug":
			c.DefaultIntroSlug = value
		case "signup_enabled":
			if v, err := strconv.ParseBool(value); err == nil {
				c.SignupEnabled = v
			}
		case "ingest_delay_seconds":
			if v, err := strconv.Atoi(value); err == nil && v >= 0 {
				c.IngestDelay = time.Duration(v) * time.Second
			}
		case "stale_processing_cutoff_minutes":
			if v, err := strconv.Atoi(value); err == nil && v > 0 {
				c.StaleCutoff = time.Duration(v) * time.Minute
			}
		case "video_cache_ttl_seconds":
			if v, err := strconv.Atoi(value); err == nil && v > 0 {
				c.CacheTTL = time.Duration(v) * time.Second
			}
		case "password_min_length":
			if v, err := strconv.Atoi(value); err == nil && v > 0 {
				c.PasswordMinLength = v
			}
		}
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
