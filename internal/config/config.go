// Package config handles launcher configuration using Viper.
//
// Configuration sources (in priority order):
//  1. Environment variables (GENAI_TOOLBOX_*)
//  2. Config file (<config root>/config.yaml)
//  3. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/sethdford/genai-toolbox-enterprise/internal/paths"
)

const (
	// EnvPrefix is the prefix for all launcher environment variables.
	EnvPrefix = "GENAI_TOOLBOX"
	// DefaultReleaseRepo is the GitHub repository publishing toolbox binaries.
	DefaultReleaseRepo = "sethdford/genai-toolbox"
	// DefaultLogStderr keeps structured logs off the child's stderr by default.
	DefaultLogStderr = "off"
)

// Config holds the launcher configuration.
type Config struct {
	v    *viper.Viper
	file string
}

// Load reads configuration from all sources.
func Load() *Config {
	v := viper.New()

	// Set defaults
	v.SetDefault("install_dir", "")
	v.SetDefault("release.repo", DefaultReleaseRepo)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.stderr", DefaultLogStderr)

	// Config file location
	file, err := paths.ConfigFile()
	if err == nil {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found, but warn on other errors)
	if file != "" {
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
	}

	return &Config{v: v, file: file}
}

func isNotExist(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}

	return os.IsNotExist(err)
}

// Get returns a configuration value.
func (c *Config) Get(key string) interface{} {
	return c.v.Get(key)
}

// GetString returns a configuration value as string.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// Set sets a configuration value and persists it.
func (c *Config) Set(key string, value interface{}) error {
	c.v.Set(key, value)

	if c.file == "" {
		return fmt.Errorf("config file location unavailable")
	}

	if err := os.MkdirAll(filepath.Dir(c.file), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	if err := c.v.WriteConfigAs(c.file); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// All returns all configuration as a map.
func (c *Config) All() map[string]interface{} {
	return c.v.AllSettings()
}

// Keys returns every known configuration key in dotted form, sorted.
func (c *Config) Keys() []string {
	keys := c.v.AllKeys()
	sort.Strings(keys)

	return keys
}

// File returns the config file path, or "" when it could not be resolved.
func (c *Config) File() string {
	return c.file
}

// InstallDir returns the configured install directory override ("" if unset).
func (c *Config) InstallDir() string {
	return strings.TrimSpace(c.GetString("install_dir"))
}

// ReleaseRepo returns the owner/name slug of the toolbox release repository.
func (c *Config) ReleaseRepo() string {
	return c.GetString("release.repo")
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() string {
	return c.GetString("log.level")
}

// LogFormat returns the configured log format.
func (c *Config) LogFormat() string {
	return c.GetString("log.format")
}

// LogFile returns the configured log file path.
func (c *Config) LogFile() string {
	return c.GetString("log.file")
}

// LogStderr returns the configured stderr logging mode.
func (c *Config) LogStderr() string {
	return c.GetString("log.stderr")
}
