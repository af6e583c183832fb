package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Env holds process-level settings read from the environment, with a .env
// file honored when present.
type Env struct {
	APIHost string
	APIPort string
	Token   string
}

// LoadEnv reads the environment, loading .env first if one exists.
func LoadEnv() *Env {
	_ = godotenv.Load()

	return &Env{
		APIHost: getEnv("API_HOST", "localhost"),
		APIPort: getEnv("API_PORT", "8080"),
		Token:   os.Getenv("GITHUB_TOKEN"),
	}
}

// EnvToken returns the GITHUB_TOKEN value, the lowest-precedence token
// source.
func EnvToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
