// Package config loads weblog settings from the environment, an optional
// .env file, and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFormat  = "text"
	DefaultTimeout = 30 * time.Second
)

// Config says where to read a log from and how to present the results.
type Config struct {
	URL     string        `yaml:"url"`
	File    string        `yaml:"file"`
	Exec    string        `yaml:"exec"`
	Match   string        `yaml:"match"`
	Reject  string        `yaml:"reject"`
	Format  string        `yaml:"format"`
	JQ      string        `yaml:"jq"`
	Timeout time.Duration `yaml:"timeout"`
	Prompt  bool          `yaml:"prompt"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Format:  DefaultFormat,
		Timeout: DefaultTimeout,
	}
}

// FromEnv returns the built-in settings overridden by WEBLOG_URL,
// WEBLOG_FORMAT and WEBLOG_TIMEOUT. WEBLOG_TIMEOUT is a duration such as
// "10s", or a whole number of seconds.
func FromEnv() *Config {
	cfg := Default()
	cfg.URL = getenv("WEBLOG_URL", cfg.URL)
	cfg.Format = getenv("WEBLOG_FORMAT", cfg.Format)
	cfg.Timeout = getenvDuration("WEBLOG_TIMEOUT", cfg.Timeout)
	return cfg
}

// Load reads .env from the working directory if there is one, then applies
// the YAML file at path, if path is not empty, on top of FromEnv.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // optional

	cfg := FromEnv()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
