package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// ConfigPath returns the default configuration file path: ~/.guardrail/config.json.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// DataDir returns the guardrail data directory: ~/.guardrail.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".guardrail"
	}
	return filepath.Join(home, ".guardrail")
}

// Load reads and parses the config file at path.
// If path is empty, ConfigPath() is used.
// On parse failure it prints a warning and returns DefaultConfig().
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to parse config %s: %v\n", path, err)
		fmt.Fprintln(os.Stderr, "Using default configuration.")
		cfg2 := DefaultConfig()
		return &cfg2, nil
	}

	return &cfg, nil
}

// LoadEnv loads .env files from the working directory and each of dirs.
// Variables already set in the environment win; missing files are skipped.
func LoadEnv(dirs ...string) error {
	candidates := []string{".env"}
	for _, d := range dirs {
		candidates = append(candidates, filepath.Join(d, ".env"))
	}
	for _, f := range candidates {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Save writes cfg to path as indented JSON.
// If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
