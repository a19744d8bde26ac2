package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration
type Config struct {
	Version     string       `yaml:"version"`
	Datacenters []Datacenter `yaml:"datacenters"`
	Auth        Auth         `yaml:"auth,omitempty"`
	Defaults    Defaults     `yaml:"defaults,omitempty"`
}

// Datacenter maps a datacenter ID to its control-plane endpoint
type Datacenter struct {
	ID       string `yaml:"id"`
	Endpoint string `yaml:"endpoint"`
}

// Auth holds API credentials
type Auth struct {
	Token     string `yaml:"token,omitempty"`
	TokenFile string `yaml:"token_file,omitempty"`
}

// Defaults defines per-invocation defaults
type Defaults struct {
	Datacenters []string      `yaml:"datacenters,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
}

// DefaultTimeout applies when defaults.timeout is unset
const DefaultTimeout = 10 * time.Second

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultPath returns the config path, honoring SKYCTL_CONFIG
func DefaultPath() string {
	if path := os.Getenv("SKYCTL_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "skyctl.yaml"
	}
	return filepath.Join(home, ".config", "skyctl", "config.yaml")
}

// Validate ensures config has required fields
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if len(c.Datacenters) == 0 {
		return fmt.Errorf("at least one datacenter is required")
	}
	seen := make(map[string]bool)
	for i, dc := range c.Datacenters {
		if dc.ID == "" {
			return fmt.Errorf("datacenter %d: id is required", i)
		}
		if dc.Endpoint == "" {
			return fmt.Errorf("datacenter %s: endpoint is required", dc.ID)
		}
		if seen[dc.ID] {
			return fmt.Errorf("datacenter %s: duplicate id", dc.ID)
		}
		seen[dc.ID] = true
	}
	for _, id := range c.Defaults.Datacenters {
		if !seen[id] {
			return fmt.Errorf("defaults reference unknown datacenter %s", id)
		}
	}
	return nil
}

// Endpoint returns the endpoint for a datacenter ID
func (c *Config) Endpoint(id string) (string, bool) {
	for _, dc := range c.Datacenters {
		if dc.ID == id {
			return dc.Endpoint, true
		}
	}
	return "", false
}

// DatacenterIDs returns all configured datacenter IDs in config order
func (c *Config) DatacenterIDs() []string {
	ids := make([]string, 0, len(c.Datacenters))
	for _, dc := range c.Datacenters {
		ids = append(ids, dc.ID)
	}
	return ids
}

// QueryDatacenters resolves the DC set for one invocation: the explicit
// override wins, then defaults.datacenters, then every configured DC.
func (c *Config) QueryDatacenters(override []string) []string {
	if len(override) > 0 {
		return override
	}
	if len(c.Defaults.Datacenters) > 0 {
		return c.Defaults.Datacenters
	}
	return c.DatacenterIDs()
}

// Timeout returns the per-DC call timeout
func (c *Config) Timeout() time.Duration {
	if c.Defaults.Timeout > 0 {
		return c.Defaults.Timeout
	}
	return DefaultTimeout
}

// Token resolves the API token, preferring the inline value
func (c *Config) Token() (string, error) {
	if c.Auth.Token != "" {
		return c.Auth.Token, nil
	}
	if c.Auth.TokenFile != "" {
		data, err := os.ReadFile(c.Auth.TokenFile) // #nosec G304 -- path comes from user config
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return os.Getenv("SKYCTL_API_TOKEN"), nil
}
