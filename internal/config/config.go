// Package config loads and validates craftctl configuration.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config is the top-level craftctl configuration.
type Config struct {
	Cluster  Cluster  `yaml:"cluster" validate:"required"`
	Audit    Audit    `yaml:"audit"`
	Router   Router   `yaml:"router"`
	Defaults Defaults `yaml:"defaults"`
}

// Cluster holds connection settings for the Proxmox VE API.
type Cluster struct {
	// Host is the API endpoint, host:port (the standard API port is 8006).
	Host string `yaml:"host" validate:"required"`
	// Username without the realm suffix.
	Username string `yaml:"username" validate:"required"`
	// Realm qualifies the username, e.g. "pam" or "pve".
	Realm string `yaml:"realm" validate:"required"`
	// Password may be left empty in the file and supplied via the
	// CRAFTCTL_PASSWORD environment variable instead.
	Password string `yaml:"password"`
	// InsecureSkipVerify disables TLS certificate verification toward the
	// cluster. Self-signed certificates are common in private deployments;
	// still, verification stays on unless explicitly disabled.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// APIUser returns the realm-qualified username used for authentication.
func (c Cluster) APIUser() string {
	return c.Username + "@" + c.Realm
}

// Audit holds settings for the embedded audit store.
type Audit struct {
	// Path to the SQLite database file. Defaults to "craftctl-audit.db".
	Path string `yaml:"path"`
}

// Router holds settings for the optional DHCP reservation companion
// service. When disabled, clone results are not pushed to the router.
type Router struct {
	Enabled bool `yaml:"enabled"`
	// URL of the companion router service.
	URL string `yaml:"url" validate:"omitempty,url"`
	// Credentials forwarded to the router service per request.
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	UseHTTPS bool   `yaml:"use_https"`
}

// Defaults holds game-server provisioning defaults.
type Defaults struct {
	// TemplateID is the VMID cloned when no source is given on the CLI.
	TemplateID int `yaml:"template_id" validate:"omitempty,gt=0"`
	// NamePrefix is prepended to generated server names.
	NamePrefix string `yaml:"name_prefix"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Router.Enabled && c.Router.URL == "" {
		return fmt.Errorf("invalid configuration: router.url is required when router.enabled is set")
	}
	return nil
}
