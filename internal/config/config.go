package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Backend BackendConfig `json:"backend"`
	Catalog CatalogConfig `json:"catalog"`
	Mocks   MocksConfig   `json:"mocks"`
}

// BackendConfig points at the storefront REST backend.
type BackendConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

type CatalogConfig struct {
	PageSize int `json:"page_size"`
}

// MocksConfig enables offline mode for local development and tests.
type MocksConfig struct {
	Enable bool `json:"enable"`
}

func Load() (*Config, error) {
	config := &Config{
		Backend: BackendConfig{
			BaseURL: getEnvOrDefault("SECLOB_BACKEND_URL", "http://localhost:3001"),
			Timeout: getDurationOrDefault("SECLOB_BACKEND_TIMEOUT", 20*time.Second),
		},
		Catalog: CatalogConfig{
			PageSize: getIntOrDefault("SECLOB_PAGE_SIZE", 10),
		},
		Mocks: MocksConfig{
			Enable: os.Getenv("SECLOB_MOCKS") == "true",
		},
	}

	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
