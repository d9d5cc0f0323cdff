// Package config loads application settings from the environment, with an
// optional .env file for local development. Secrets (the family password,
// sheet token, webhook URL) come only from here, never from flags.
package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings.
type Config struct {
	// Addr is the listen address.
	Addr string

	// DBPath is the local SQLite file backing the sheet and locally
	// hosted images.
	DBPath string

	// SheetURL switches persistence to a remote sheet service when set;
	// SheetToken is its bearer credential.
	SheetURL   string
	SheetToken string

	// Password is the shared family password. Auto-generated at startup
	// when empty.
	Password string

	// JWTSecret signs session tokens. Auto-generated (sessions reset on
	// restart) when empty.
	JWTSecret string

	// WebhookURL receives reminder digests; empty disables reminders.
	WebhookURL string

	// ImageHostURL switches photo hosting to a remote service when set;
	// ImageHostToken is its bearer credential. Empty keeps photos local.
	ImageHostURL   string
	ImageHostToken string

	// BaseURL is this server's externally reachable address, used to
	// build URLs for locally hosted photos.
	BaseURL string

	// LogPath tees logs into a file when set.
	LogPath string
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err == nil {
		slog.Info("loaded environment from .env file")
	}

	return &Config{
		Addr:           envOr("GARANCIJA_ADDR", ":8080"),
		DBPath:         envOr("GARANCIJA_DB", "garancija.sqlite3"),
		SheetURL:       os.Getenv("GARANCIJA_SHEET_URL"),
		SheetToken:     os.Getenv("GARANCIJA_SHEET_TOKEN"),
		Password:       os.Getenv("GARANCIJA_PASSWORD"),
		JWTSecret:      os.Getenv("GARANCIJA_JWT_SECRET"),
		WebhookURL:     os.Getenv("GARANCIJA_WEBHOOK_URL"),
		ImageHostURL:   os.Getenv("GARANCIJA_IMAGE_HOST_URL"),
		ImageHostToken: os.Getenv("GARANCIJA_IMAGE_HOST_TOKEN"),
		BaseURL:        envOr("GARANCIJA_BASE_URL", "http://localhost:8080"),
		LogPath:        os.Getenv("GARANCIJA_LOG"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
