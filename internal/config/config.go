package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	PipelineURL string `yaml:"pipeline_url"`
	Theme       string `yaml:"theme"`
	Mode        string `yaml:"mode"` // "pair" or "deposition"
	JournalPath string `yaml:"journal_path"`
}

// Load loads configuration from config file and environment variables
// Environment variables take precedence over config file values
func Load() (*Config, error) {
	cfg := &Config{
		Mode: "pair",
	}

	// Load from config file first
	if err := cfg.loadFromFile(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Environment variables override config file
	cfg.loadFromEnv()

	return cfg, nil
}

func (c *Config) loadFromFile() error {
	configPath := getConfigPath()
	if configPath == "" {
		return os.ErrNotExist
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if url := os.Getenv("DEPO_PIPELINE_URL"); url != "" {
		c.PipelineURL = url
	}
	if mode := os.Getenv("DEPO_REVIEW_MODE"); mode != "" {
		c.Mode = mode
	}
}

// EffectiveJournalPath returns the configured journal path, defaulting to
// journal.db under the config directory.
func (c *Config) EffectiveJournalPath() (string, error) {
	if c.JournalPath != "" {
		return c.JournalPath, nil
	}
	dir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "journal.db"), nil
}

// getConfigPath returns the path to the config file
// Priority: $DEPO_REVIEW_CONFIG > ~/.config/depo-review/config.yaml
func getConfigPath() string {
	if configPath := os.Getenv("DEPO_REVIEW_CONFIG"); configPath != "" {
		return configPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "depo-review", "config.yaml")
}

func GetConfigDir() (string, error) {
	configPath := getConfigPath()
	if configPath == "" {
		return "", fmt.Errorf("cannot determine config path")
	}
	return filepath.Dir(configPath), nil
}

// EnsureConfigDir ensures the config directory exists
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return configDir, nil
}

// SaveExampleConfig creates an example config file
func SaveExampleConfig() error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil // Already exists, don't overwrite
	}

	example := `# Depo Review Configuration

# Base URL of the deposition pipeline backend (default: http://localhost:8000)
pipeline_url: "http://localhost:8000"

# Optional: Color theme (default, catppuccin, dracula, nord, gruvbox)
theme: "default"

# Optional: Default review mode on startup ("pair" or "deposition")
mode: "pair"

# Optional: Path of the local snapshot journal database
# journal_path: ""
`

	return os.WriteFile(configPath, []byte(example), 0600)
}

func (c *Config) Save() error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	// Load existing config to preserve fields set by hand
	existing := &Config{Mode: "pair"}
	if data, err := os.ReadFile(configPath); err == nil {
		yaml.Unmarshal(data, existing)
	}

	// Update only the fields we manage (not URLs from env vars)
	existing.Theme = c.Theme
	existing.Mode = c.Mode

	data, err := yaml.Marshal(existing)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Depo Review Configuration\n\n")
	return os.WriteFile(configPath, append(header, data...), 0600)
}
