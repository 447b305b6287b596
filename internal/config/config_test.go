package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `{
		"database_url": "postgres://localhost:5432/ghostwatch",
		"user_id": "user-1",
		"fresh_within_hours": 12,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost:5432/ghostwatch" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.FreshWithinHours != 12 {
		t.Errorf("FreshWithinHours = %d, want 12", cfg.FreshWithinHours)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"missing file", "/nonexistent/config.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(tt.path); err == nil {
				t.Error("LoadConfig() should fail")
			}
		})
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeTempConfig(t, `{not json`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() should fail on malformed JSON")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty is valid", Config{}, false},
		{"sane values", Config{FreshWithinHours: 24, SimhashThreshold: 10, InitialTokens: 3}, false},
		{"threshold over 64", Config{SimhashThreshold: 100}, true},
		{"negative hours", Config{FreshWithinHours: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.FreshWithinHours != 24 {
		t.Errorf("FreshWithinHours = %d, want 24", cfg.FreshWithinHours)
	}
	if cfg.SimhashThreshold != 10 {
		t.Errorf("SimhashThreshold = %d, want 10", cfg.SimhashThreshold)
	}
	if cfg.InitialTokens != 3 {
		t.Errorf("InitialTokens = %d, want 3", cfg.InitialTokens)
	}

	// Explicit values survive.
	cfg = Config{FreshWithinHours: 6}
	cfg.ApplyDefaults()
	if cfg.FreshWithinHours != 6 {
		t.Errorf("FreshWithinHours = %d, want explicit 6", cfg.FreshWithinHours)
	}
}
