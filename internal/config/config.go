// Package config provides configuration management for shelf-admin.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config captures all configurable aspects of shelf-admin.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority, applied by internal/cli)
//  2. Environment variables (SHELF_*)
//  3. Configuration file (YAML or TOML)
//  4. Default values (lowest priority)
type Config struct {
	// Platform contains connection settings for the publishing platform API.
	Platform PlatformConfig `mapstructure:"platform"`

	// Proxy contains outbound proxy settings for restricted networks.
	Proxy ProxyConfig `mapstructure:"proxy"`

	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging"`
}

// PlatformConfig contains the connection contract with the platform backend.
type PlatformConfig struct {
	// URL is the base URL of the platform API.
	URL string `mapstructure:"url" validate:"required,url"`

	// Token is the admin access token sent on every request.
	Token string `mapstructure:"token" validate:"required"`

	// TokenType is the Authorization scheme prefix ("Bearer" or "Token").
	TokenType string `mapstructure:"token_type" validate:"required,oneof=Bearer Token"`
}

// ProxyConfig contains outbound proxy settings.
//
// Mode selects the proxy behavior:
//   - "no-proxy": direct connections (default)
//   - "system":   HTTP_PROXY/HTTPS_PROXY/NO_PROXY environment variables
//   - "basic":    explicit proxy with basic authentication
//   - "ntlm":     explicit proxy with NTLM negotiation
type ProxyConfig struct {
	Mode     string `mapstructure:"mode" validate:"required,oneof=no-proxy system basic ntlm"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`

	// NoProxy is a comma-separated bypass list (hosts, domains, CIDRs).
	NoProxy string `mapstructure:"no_proxy"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: debug, info, warn, error (case-insensitive).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// Load reads configuration from the given file path (empty = search the
// default locations), applies SHELF_* environment overrides and defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read loads configuration without normalizing or validating it. Callers
// that layer command-line overrides on top (the CLI does) apply
// ApplyDefaults and Validate themselves after merging.
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		for _, dir := range defaultConfigDirs() {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine unless one was named explicitly;
		// env vars and defaults may be a complete configuration.
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults normalizes fields that accept multiple spellings.
func ApplyDefaults(cfg *Config) {
	cfg.Logging.Level = strings.ToUpper(strings.TrimSpace(cfg.Logging.Level))
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	if cfg.Platform.TokenType == "" {
		cfg.Platform.TokenType = "Bearer"
	}
	if cfg.Proxy.Mode == "" {
		cfg.Proxy.Mode = "no-proxy"
	}
	cfg.Proxy.Mode = strings.ToLower(cfg.Proxy.Mode)
	cfg.Platform.URL = strings.TrimSuffix(cfg.Platform.URL, "/")
}

// defaultConfigDirs returns the search path for the config file.
func defaultConfigDirs() []string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "shelf-admin"))
	}
	return dirs
}
