package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Experian ExperianConfig `mapstructure:"experian"`
	Server   ServerConfig   `mapstructure:"server"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ExperianConfig holds the API credentials and session settings
type ExperianConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	Version      string        `mapstructure:"version"`
	Sandbox      bool          `mapstructure:"sandbox"`
	Timeout      time.Duration `mapstructure:"timeout"`
	BaseURL      string        `mapstructure:"base_url"`
	VerifyTLS    bool          `mapstructure:"verify_tls"`
}

// ServerConfig contains the HTTP relay settings
type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	Subcode string `mapstructure:"subcode"`
}

// BatchConfig contains batch runner settings
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
