// Package config loads shipscout user preferences and credentials.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvAuthToken overrides every other credential source when set.
const EnvAuthToken = "SHIPSCOUT_AUTH_TOKEN"

// fallbackAuthToken is the shared demo credential. Do not rely on this in
// shared deployments: put a real token in .shipscout/secrets.yaml or the
// environment instead.
const fallbackAuthToken = "f9e9201450bf79a3c510a0b60c7c303d"

// Config holds user preferences.
type Config struct {
	AuthToken      string `json:"auth_token,omitempty"`
	BaseURL        string `json:"base_url,omitempty"`
	Theme          string `json:"theme"` // "light" or "dark"
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	ExpandOrder    *bool  `json:"expand_order,omitempty"`
}

// Secrets is the shape of .shipscout/secrets.yaml.
type Secrets struct {
	AuthToken string `yaml:"auth_token"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Theme: "light", TimeoutSeconds: 30}
}

// ConfigDir returns the directory where config is stored. A project-local
// .shipscout directory wins over the home-level one.
func ConfigDir() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		localDir := filepath.Join(cwd, ".shipscout")
		if stat, err := os.Stat(localDir); (err == nil && stat.IsDir()) || os.IsNotExist(err) {
			return localDir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".shipscout"), nil
}

// ConfigFile returns the full path to the config file.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// SecretsFile returns the full path to the secrets file.
func SecretsFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "secrets.yaml"), nil
}

// Load reads the configuration from disk. A missing file is the default
// config, not an error; config is read once per process start.
func Load() (Config, error) {
	path, err := ConfigFile()
	if err != nil {
		return DefaultConfig(), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := ConfigFile()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// loadSecrets reads .shipscout/secrets.yaml. Missing file means no secret.
func loadSecrets() Secrets {
	var s Secrets
	path, err := SecretsFile()
	if err != nil {
		return s
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s
	}
	return s
}

// ResolveToken picks the auth token: environment, then secrets file, then
// config, then the built-in fallback.
func ResolveToken(cfg Config) string {
	if t := strings.TrimSpace(os.Getenv(EnvAuthToken)); t != "" {
		return t
	}
	if t := strings.TrimSpace(loadSecrets().AuthToken); t != "" {
		return t
	}
	if t := strings.TrimSpace(cfg.AuthToken); t != "" {
		return t
	}
	return fallbackAuthToken
}

// ExpandDefault returns the configured expand=order default (true unless
// explicitly disabled).
func (c Config) ExpandDefault() bool {
	if c.ExpandOrder == nil {
		return true
	}
	return *c.ExpandOrder
}
