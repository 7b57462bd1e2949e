// Package config loads the skillhub configuration via viper from
// skillhub.yaml and SKILLHUB_* environment variables. The core only reads
// these values; it does not validate base paths beyond existence checks at
// registry initialization.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the configuration surface consumed by the registry and CLI.
type Config struct {
	BasePaths       []string          `mapstructure:"base_paths"`
	Debug           bool              `mapstructure:"debug"`
	OutputFormat    string            `mapstructure:"output_format"`
	ToolFormats     map[string]string `mapstructure:"tool_formats"`
	ExcludePatterns []string          `mapstructure:"exclude_patterns"`
	LogLevel        string            `mapstructure:"log_level"`
	LogFormat       string            `mapstructure:"log_format"`
}

// Load reads configuration from skillhub.yaml (working directory, then
// ~/.skillhub) and the environment. A missing config file is not an error;
// defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("skillhub")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".skillhub"))
	}
	v.SetEnvPrefix("SKILLHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := []string{"./.skillhub/skills"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		defaults = append(defaults, filepath.Join(homeDir, ".skillhub", "skills"))
	}
	v.SetDefault("base_paths", defaults)
	v.SetDefault("debug", false)
	v.SetDefault("output_format", "markdown")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
}

// FormatFor returns the renderer format for a tool, falling back to the
// configured default.
func (c *Config) FormatFor(tool string) string {
	if format, ok := c.ToolFormats[tool]; ok && format != "" {
		return format
	}
	return c.OutputFormat
}
