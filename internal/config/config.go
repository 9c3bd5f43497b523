package config

import (
	"os"
	"strconv"
	"time"
)

// Tunables for the live coordinator.
const (
	// RoomCleanupGrace is how long an empty room keeps its ephemeral message
	// buffer before it is purged. A rejoin within the window cancels the
	// purge.
	RoomCleanupGrace = 60 * time.Second

	// TokenTTL is the lifetime of issued auth tokens.
	TokenTTL = 7 * 24 * time.Hour

	// ResetTokenTTL is the lifetime of password-reset tokens.
	ResetTokenTTL = 10 * time.Minute
)

// Config carries everything read from the environment at startup.
type Config struct {
	Port        string
	DatabaseDSN string
	FrontendURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load reads the environment with development defaults. godotenv is expected
// to have been loaded by main already.
func Load() Config {
	cfg := Config{
		Port:          getenv("PORT", "5000"),
		DatabaseDSN:   getenv("DATABASE_DSN", "host=localhost user=user password=password dbname=webchat port=5432 sslmode=disable"),
		FrontendURL:   getenv("FRONTEND_URL", "http://localhost:3000"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     getenv("JWT_SECRET", "dev-secret-change-me"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      587,
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		SMTPFrom:      os.Getenv("SMTP_FROM"),
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SMTPPort = n
		}
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
