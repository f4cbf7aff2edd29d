package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PasswordEnv is the environment variable that overrides cluster.password.
const PasswordEnv = "CRAFTCTL_PASSWORD"

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		cfg.Cluster.Password = pw
	}
	if cfg.Cluster.Realm == "" {
		cfg.Cluster.Realm = "pam"
	}
	if cfg.Audit.Path == "" {
		cfg.Audit.Path = "craftctl-audit.db"
	}
}
