// Package config loads ssp settings from yaml files, .env and SSP_* variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	dirName  = ".ssp"
	fileName = "config.yaml"
)

// Config is the process configuration. Study preferences live in the
// planner settings, not here.
type Config struct {
	DBPath    string `mapstructure:"db_path" yaml:"db_path"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	NoColor   bool   `mapstructure:"no_color" yaml:"no_color"`
}

// Load reads the configuration for the current user and working directory
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return LoadFrom(home, cwd)
}

// LoadFrom merges, lowest priority first: defaults, the global config under
// home, the project config under cwd, cwd/.env and SSP_* variables.
func LoadFrom(home, cwd string) (*Config, error) {
	// .env never overrides variables that are already set
	_ = godotenv.Load(filepath.Join(cwd, ".env"))

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("db_path", filepath.Join(home, dirName, "ssp.db"))
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
	v.SetDefault("no_color", false)

	for _, path := range []string{GlobalPath(home), ProjectPath(cwd)} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	v.SetEnvPrefix("SSP")
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level '%s'. Use: debug, info, warn, error", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format '%s'. Use: text, json", c.LogFormat)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	return nil
}

// YAML renders the effective configuration
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(out), nil
}

// GlobalPath is the per-user config file
func GlobalPath(home string) string {
	return filepath.Join(home, dirName, fileName)
}

// ProjectPath is the per-directory config file
func ProjectPath(cwd string) string {
	return filepath.Join(cwd, dirName, fileName)
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
