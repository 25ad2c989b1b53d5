// Package config loads the dnstuner run configuration from defaults, an
// optional YAML config file, and DNSTUNER_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the tunable parameters of a single run.
type Config struct {
	// Interface is the network service whose resolver list is mutated.
	Interface string `mapstructure:"interface"`
	// PingCount is the number of echo round trips per candidate.
	PingCount int `mapstructure:"ping_count"`
	// ProbeTimeout bounds the total duration of one candidate's probe.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	// SettleDelay is the wait after a resolver mutation before the new
	// configuration is considered observable.
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	// Concurrency caps the number of candidates probed in parallel.
	Concurrency int `mapstructure:"concurrency"`
	// CatalogPath optionally overrides the embedded resolver catalog.
	CatalogPath string `mapstructure:"catalog_path"`
	// DryRun probes and ranks but skips resolver mutations.
	DryRun bool `mapstructure:"dry_run"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Interface:    "Wi-Fi",
		PingCount:    3,
		ProbeTimeout: 5 * time.Second,
		SettleDelay:  2 * time.Second,
		Concurrency:  4,
	}
}

// Load reads configuration from the given file path (optional; empty path
// uses defaults and environment only).
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("interface", def.Interface)
	v.SetDefault("ping_count", def.PingCount)
	v.SetDefault("probe_timeout", def.ProbeTimeout)
	v.SetDefault("settle_delay", def.SettleDelay)
	v.SetDefault("concurrency", def.Concurrency)

	v.SetEnvPrefix("DNSTUNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Interface == "" {
		return fmt.Errorf("config: interface must not be empty")
	}
	if c.PingCount <= 0 {
		return fmt.Errorf("config: ping_count must be positive, got %d", c.PingCount)
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("config: probe_timeout must be positive, got %v", c.ProbeTimeout)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("config: settle_delay must not be negative, got %v", c.SettleDelay)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("config: concurrency must be positive, got %d", c.Concurrency)
	}
	return nil
}
