// ABOUTME: Configuration loading for the samson daemon.
// ABOUTME: Environment variables over an optional YAML file with ${VAR} expansion.

package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete samson configuration.
type Config struct {
	DatabasePath string `yaml:"database_path"`
	PollInterval int    `yaml:"poll_interval"` // seconds
	APIHost      string `yaml:"api_host"`
	APIPort      int    `yaml:"api_port"`
	MetricsHost  string `yaml:"metrics_host"`
	MetricsPort  int    `yaml:"metrics_port"`
	LogLevel     string `yaml:"log_level"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		DatabasePath: "samson.db",
		PollInterval: 1,
		APIHost:      "0.0.0.0",
		APIPort:      3030,
		MetricsHost:  "0.0.0.0",
		MetricsPort:  9090,
		LogLevel:     "info",
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variable overrides, in that precedence order. Environment
// variables in the file in the format ${VAR_NAME} are expanded. An empty
// path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides fields from the process environment.
func (c *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("API_HOST"); v != "" {
		c.APIHost = v
	}
	if v := os.Getenv("METRICS_HOST"); v != "" {
		c.MetricsHost = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	var err error
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		c.PollInterval, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POLL_INTERVAL must be a valid number: %w", err)
		}
	}
	if v := os.Getenv("API_PORT"); v != "" {
		c.APIPort, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("API_PORT must be a valid port number: %w", err)
		}
	}
	if v := os.Getenv("METRICS_PORT"); v != "" {
		c.MetricsPort, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("METRICS_PORT must be a valid port number: %w", err)
		}
	}
	return nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all fields are present and usable. A violation here
// is fatal at startup.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be greater than 0, got %d", c.PollInterval)
	}
	if c.APIPort < 1 || c.APIPort > 65535 {
		return fmt.Errorf("api_port must be in 1-65535, got %d", c.APIPort)
	}
	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("metrics_port must be in 1-65535, got %d", c.MetricsPort)
	}
	return nil
}

// PollDuration returns the poll interval as a duration.
func (c *Config) PollDuration() time.Duration {
	return time.Duration(c.PollInterval) * time.Second
}

// APIAddr returns the query API listen address.
func (c *Config) APIAddr() string {
	return net.JoinHostPort(c.APIHost, strconv.Itoa(c.APIPort))
}

// MetricsAddr returns the metrics listener address.
func (c *Config) MetricsAddr() string {
	return net.JoinHostPort(c.MetricsHost, strconv.Itoa(c.MetricsPort))
}
