package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envBindings maps configuration keys to the environment variables overriding them
var envBindings = map[string]string{
	"experian.client_id":     "EXPERIAN_CLIENT_ID",
	"experian.client_secret": "EXPERIAN_CLIENT_SECRET",
	"experian.username":      "EXPERIAN_USERNAME",
	"experian.password":      "EXPERIAN_PASSWORD",
	"experian.sandbox":       "EXPERIAN_SANDBOX",
	"server.subcode":         "EXPERIAN_SUBCODE",
}

// Load loads the configuration from file and environment. A missing file is
// only an error when configPath names one explicitly.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".experian"))
		}

		// Check /etc
		v.AddConfigPath("/etc/experian/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Experian defaults
	v.SetDefault("experian.version", "v1")
	v.SetDefault("experian.sandbox", false)
	v.SetDefault("experian.timeout", "120s")
	v.SetDefault("experian.verify_tls", false)

	// Server defaults
	v.SetDefault("server.addr", ":8080")

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Experian.ClientID == "" {
		return fmt.Errorf("experian.client_id is required (or set EXPERIAN_CLIENT_ID)")
	}
	if cfg.Experian.ClientSecret == "" {
		return fmt.Errorf("experian.client_secret is required (or set EXPERIAN_CLIENT_SECRET)")
	}
	if cfg.Experian.Username == "" || cfg.Experian.Password == "" {
		return fmt.Errorf("experian.username and experian.password are required")
	}
	if cfg.Experian.Timeout < 0 {
		return fmt.Errorf("invalid experian.timeout: %s", cfg.Experian.Timeout)
	}

	if cfg.Batch.Concurrency < 0 {
		return fmt.Errorf("invalid batch.concurrency: %d", cfg.Batch.Concurrency)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
