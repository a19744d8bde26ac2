package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	// Create a temp config file
	content := `
version: v1

datacenters:
  - id: us-west
    endpoint: https://us-west.api.skyfleet.dev
  - id: us-east
    endpoint: https://us-east.api.skyfleet.dev
  - id: eu-central
    endpoint: https://eu-central.api.skyfleet.dev

auth:
  token: test-token

defaults:
  datacenters: [us-west, us-east]
  timeout: 5s
`
	tmpfile, err := os.CreateTemp("", "skyctl-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Load the config
	cfg, err := LoadConfig(tmpfile.Name())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	// Verify config
	if cfg.Version != "v1" {
		t.Errorf("Version = %v, want v1", cfg.Version)
	}
	if len(cfg.Datacenters) != 3 {
		t.Errorf("Datacenters count = %v, want 3", len(cfg.Datacenters))
	}
	if cfg.Defaults.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Defaults.Timeout)
	}

	endpoint, ok := cfg.Endpoint("eu-central")
	if !ok || endpoint != "https://eu-central.api.skyfleet.dev" {
		t.Errorf("Endpoint(eu-central) = %v, %v", endpoint, ok)
	}
	if _, ok := cfg.Endpoint("ap-south"); ok {
		t.Error("Endpoint(ap-south) should not resolve")
	}

	token, err := cfg.Token()
	if err != nil || token != "test-token" {
		t.Errorf("Token() = %v, %v", token, err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := []Datacenter{
		{ID: "us-west", Endpoint: "https://us-west.api.skyfleet.dev"},
	}

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  Config{Version: "v1", Datacenters: valid},
			wantErr: false,
		},
		{
			name:    "missing version",
			config:  Config{Datacenters: valid},
			wantErr: true,
		},
		{
			name:    "no datacenters",
			config:  Config{Version: "v1"},
			wantErr: true,
		},
		{
			name: "datacenter without endpoint",
			config: Config{
				Version:     "v1",
				Datacenters: []Datacenter{{ID: "us-west"}},
			},
			wantErr: true,
		},
		{
			name: "duplicate datacenter id",
			config: Config{
				Version: "v1",
				Datacenters: []Datacenter{
					{ID: "us-west", Endpoint: "https://a.example.com"},
					{ID: "us-west", Endpoint: "https://b.example.com"},
				},
			},
			wantErr: true,
		},
		{
			name: "defaults reference unknown datacenter",
			config: Config{
				Version:     "v1",
				Datacenters: valid,
				Defaults:    Defaults{Datacenters: []string{"ap-south"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_QueryDatacenters(t *testing.T) {
	cfg := Config{
		Version: "v1",
		Datacenters: []Datacenter{
			{ID: "us-west", Endpoint: "https://a.example.com"},
			{ID: "us-east", Endpoint: "https://b.example.com"},
			{ID: "eu-central", Endpoint: "https://c.example.com"},
		},
		Defaults: Defaults{Datacenters: []string{"us-west"}},
	}

	got := cfg.QueryDatacenters([]string{"eu-central"})
	if len(got) != 1 || got[0] != "eu-central" {
		t.Errorf("override = %v, want [eu-central]", got)
	}

	got = cfg.QueryDatacenters(nil)
	if len(got) != 1 || got[0] != "us-west" {
		t.Errorf("defaults = %v, want [us-west]", got)
	}

	cfg.Defaults.Datacenters = nil
	got = cfg.QueryDatacenters(nil)
	if len(got) != 3 {
		t.Errorf("all = %v, want 3 datacenters", got)
	}
}

func TestConfig_Timeout(t *testing.T) {
	cfg := Config{}
	if cfg.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", cfg.Timeout(), DefaultTimeout)
	}

	cfg.Defaults.Timeout = 3 * time.Second
	if cfg.Timeout() != 3*time.Second {
		t.Errorf("Timeout() = %v, want 3s", cfg.Timeout())
	}
}
