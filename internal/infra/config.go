package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultCacheTTLMin is the instrument metadata TTL when the config
	// leaves it unset.
	DefaultCacheTTLMin = 10

	// DefaultTimeoutSec bounds every outbound exchange call.
	DefaultTimeoutSec = 10
)

// Config holds all application settings. Sensitive values can be overridden
// through environment variables after the file is loaded.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	API struct {
		OKX struct {
			RestURL    string `yaml:"rest_url"`
			AccessKey  string `yaml:"access_key"`
			SecretKey  string `yaml:"secret_key"`
			Passphrase string `yaml:"passphrase"`
			InstType   string `yaml:"inst_type"`
			TimeoutSec int    `yaml:"timeout_sec"`
		} `yaml:"okx"`
	} `yaml:"api"`

	Webhook struct {
		Secret string `yaml:"secret"`
	} `yaml:"webhook"`

	Cache struct {
		TTLMin int    `yaml:"ttl_min"`
		DBPath string `yaml:"db_path"`
	} `yaml:"cache"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the config file, applies env overrides and
// validates the result. A missing credential is a load error, not an
// empty-but-valid value.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":3000"
	}
	if cfg.API.OKX.RestURL == "" {
		cfg.API.OKX.RestURL = "https://www.okx.com"
	}
	if cfg.API.OKX.InstType == "" {
		cfg.API.OKX.InstType = "SWAP"
	}
	if cfg.API.OKX.TimeoutSec <= 0 {
		cfg.API.OKX.TimeoutSec = DefaultTimeoutSec
	}
	if cfg.Cache.TTLMin <= 0 {
		cfg.Cache.TTLMin = DefaultCacheTTLMin
	}
}

// Validate checks configuration validity. An empty webhook secret would turn
// authentication into a bypass, so it fails startup instead.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.OKX.RestURL, "https://") {
		return fmt.Errorf("invalid OKX REST URL: %s", c.API.OKX.RestURL)
	}
	if c.API.OKX.AccessKey == "" {
		return fmt.Errorf("OKX access key is required")
	}
	if c.API.OKX.SecretKey == "" {
		return fmt.Errorf("OKX secret key is required")
	}
	if c.API.OKX.Passphrase == "" {
		return fmt.Errorf("OKX passphrase is required")
	}
	if c.Webhook.Secret == "" {
		return fmt.Errorf("webhook secret is required")
	}
	return nil
}

// overrideWithEnv replaces sensitive values with environment variables when
// they are present.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("BRIDGE_OKX_KEY"); key != "" {
		cfg.API.OKX.AccessKey = key
	}
	if secret := os.Getenv("BRIDGE_OKX_SECRET"); secret != "" {
		cfg.API.OKX.SecretKey = secret
	}
	if pass := os.Getenv("BRIDGE_OKX_PASSPHRASE"); pass != "" {
		cfg.API.OKX.Passphrase = pass
	}
	if secret := os.Getenv("BRIDGE_WEBHOOK_SECRET"); secret != "" {
		cfg.Webhook.Secret = secret
	}
}
