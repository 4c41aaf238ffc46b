package web

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries environment-driven settings for the storefront process.
type Config struct {
	Port           string
	BackendBaseURL string
	TokenPath      string
}

// LoadConfig reads a .env file when present, then environment variables,
// applies defaults, and validates basic constraints. The backend base URL is
// the one genuinely deployment-sensitive value.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:           envDefault("PORT", "8080"),
		BackendBaseURL: envDefault("BACKEND_BASE_URL", "http://localhost:5001"),
		TokenPath:      strings.TrimSpace(os.Getenv("TOKEN_PATH")),
	}
	parsed, err := url.Parse(cfg.BackendBaseURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return Config{}, fmt.Errorf("BACKEND_BASE_URL must be an http(s) URL, got %q", cfg.BackendBaseURL)
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
