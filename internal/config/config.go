// Package config loads runtime configuration from a .env file (if present)
// and environment variables.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the fixed addresses and paths for both the service and the
// upload widget. The scrub service address is set here, not at runtime.
type Config struct {
	Port        string
	ScrubURL    string
	DownloadDir string
}

// Load reads configuration with sensible local defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		ScrubURL:    getEnv("SCRUB_URL", "http://localhost:8080"),
		DownloadDir: getEnv("DOWNLOAD_DIR", "scrubbed"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
