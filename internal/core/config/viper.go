package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults matching DefaultConfig
	v.SetDefault("server.url", "http://localhost:8000")
	v.SetDefault("server.timeout", "30s")
	v.SetDefault("server.page_size", 25)
	v.SetDefault("cache.database_url", "sqlite://docsieve.db")
	v.SetDefault("defaults.sort_field", "created")
	v.SetDefault("defaults.sort_order", "descending")
	v.SetDefault("defaults.search_mode", "title_content")

	// Bind environment variables with DS_ prefix
	v.SetEnvPrefix("DS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Tokens must be environment-only per 12-factor principles
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerURL:      v.GetString("server.url"),
		RequestTimeout: v.GetDuration("server.timeout"),
		PageSize:       v.GetInt("server.page_size"),
		DatabaseURL:    v.GetString("cache.database_url"),
		SortField:      v.GetString("defaults.sort_field"),
		SortOrder:      v.GetString("defaults.sort_order"),
		SearchMode:     v.GetString("defaults.search_mode"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks URL presence, positive timeout and page size, and
// that the filter defaults name known values.
func validateConfig(cfg *Config) error {
	if cfg.ServerURL == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("server.page_size must be positive, got %d", cfg.PageSize)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("cache.database_url must not be empty")
	}
	if _, err := cfg.FilterDefaults(); err != nil {
		return err
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only secrets (12-factor principle).
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.IsSet("api_token") || v.IsSet("server.api_token") {
		return fmt.Errorf("API tokens not allowed in config files (use DS_API_TOKEN environment variable)")
	}
	return nil
}
