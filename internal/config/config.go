package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const DefaultAPIBaseURL = "https://fe-test-api.nwappservice.com"

type Config struct {
	APIBaseURL    string
	Port          string
	SessionSecret []byte
	TemplatesDir  string
	AdminPageSize int
}

func LoadConfig() (*Config, error) {
	// A .env file is optional; real env vars win either way.
	_ = godotenv.Load()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is not set")
	}

	apiBaseURL := os.Getenv("API_BASE_URL")
	if apiBaseURL == "" {
		apiBaseURL = DefaultAPIBaseURL
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	templatesDir := os.Getenv("TEMPLATES_DIR")
	if templatesDir == "" {
		templatesDir = "templates"
	}

	pageSize := 10
	if v := os.Getenv("ADMIN_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid ADMIN_PAGE_SIZE: %q", v)
		}
		pageSize = n
	}

	return &Config{
		APIBaseURL:    apiBaseURL,
		Port:          port,
		SessionSecret: []byte(sessionSecret),
		TemplatesDir:  templatesDir,
		AdminPageSize: pageSize,
	}, nil
}
