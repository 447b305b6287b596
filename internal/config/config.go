// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided
// via CLI flags or environment variables.
type Config struct {
	// Connections
	DatabaseURL string `json:"database_url,omitempty" validate:"omitempty,uri"`
	RedisURL    string `json:"redis_url,omitempty" validate:"omitempty,uri"`

	// Collaborators
	AdapterURL string `json:"adapter_url,omitempty" validate:"omitempty,uri"` // Scraper/adapter service
	APIKey     string `json:"api_key,omitempty"`                              // Gemini API key
	Model      string `json:"model,omitempty"`                                // Gemini model override

	// Behavior
	UserID           string `json:"user_id,omitempty"`           // Requesting user for admission control
	FreshWithinHours int    `json:"fresh_within_hours,omitempty" validate:"gte=0"`
	SimhashThreshold int    `json:"simhash_threshold,omitempty" validate:"gte=0,lte=64"`
	InitialTokens    int    `json:"initial_tokens,omitempty" validate:"gte=0"`
	Verbose          bool   `json:"verbose,omitempty"` // Print detailed signal breakdowns
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills a config from environment variables, loading a .env file
// first when one is present. Explicit JSON/flag values win over env.
func (c *Config) FromEnv() {
	_ = godotenv.Load() // .env is optional

	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.RedisURL == "" {
		c.RedisURL = os.Getenv("REDIS_URL")
	}
	if c.AdapterURL == "" {
		c.AdapterURL = os.Getenv("ADAPTER_URL")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// ApplyDefaults fills zero-valued tunables with their defaults.
func (c *Config) ApplyDefaults() {
	if c.FreshWithinHours == 0 {
		c.FreshWithinHours = 24
	}
	if c.SimhashThreshold == 0 {
		c.SimhashThreshold = 10
	}
	if c.InitialTokens == 0 {
		c.InitialTokens = 3
	}
}
