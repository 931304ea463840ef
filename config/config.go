/*
Copyright © 2025 Jayson Grace <jayson.e.grace@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package config loads the buildpad configuration: Launchpad credentials,
// API endpoint, and image/webhook defaults. Configuration comes from
// ~/.buildpad/config.yaml (or the XDG equivalent), overridable through
// BUILDPAD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the buildpad configuration.
type Config struct {
	API   APIConfig   `mapstructure:"api" json:"api" yaml:"api"`
	Auth  AuthConfig  `mapstructure:"auth" json:"auth" yaml:"auth"`
	Image ImageConfig `mapstructure:"image" json:"image" yaml:"image"`
	Log   LogConfig   `mapstructure:"log" json:"log" yaml:"log"`
}

// APIConfig selects the Launchpad endpoint.
type APIConfig struct {
	// Root is the API base URL, e.g. https://api.launchpad.net/devel/.
	Root string `mapstructure:"root" json:"root" yaml:"root"`
}

// AuthConfig holds the OAuth PLAINTEXT credentials. Token acquisition is
// out of scope: these are long-lived credentials provisioned elsewhere.
type AuthConfig struct {
	Username string `mapstructure:"username" json:"username" yaml:"username"`
	// Consumer is the OAuth consumer key; defaults to Username when empty.
	Consumer string `mapstructure:"consumer" json:"consumer,omitempty" yaml:"consumer,omitempty"`
	Token    string `mapstructure:"token" json:"token" yaml:"token"`
	Secret   string `mapstructure:"secret" json:"secret" yaml:"secret"`
}

// ImageConfig holds image build and webhook defaults.
type ImageConfig struct {
	Channel       string `mapstructure:"channel" json:"channel,omitempty" yaml:"channel,omitempty"`
	ImageFormat   string `mapstructure:"image_format" json:"image_format,omitempty" yaml:"image_format,omitempty"`
	DeliveryURL   string `mapstructure:"delivery_url" json:"delivery_url,omitempty" yaml:"delivery_url,omitempty"`
	WebhookSecret string `mapstructure:"webhook_secret" json:"webhook_secret,omitempty" yaml:"webhook_secret,omitempty"`
	GPGPassphrase string `mapstructure:"gpg_passphrase" json:"gpg_passphrase,omitempty" yaml:"gpg_passphrase,omitempty"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level,omitempty" yaml:"level,omitempty"`
	Format string `mapstructure:"format" json:"format,omitempty" yaml:"format,omitempty"`
}

// setDefaults applies default values to a viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.root", "https://api.launchpad.net/devel/")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "color")
}

// Load reads and parses the configuration. A missing config file is not an
// error: defaults plus environment variables still apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	home, err := os.UserHomeDir()
	if err == nil {
		v.AddConfigPath(filepath.Join(home, ".buildpad"))
		v.AddConfigPath(filepath.Join(home, ".config", "buildpad")) // XDG standard
	}
	v.AddConfigPath(".")

	return load(v, true)
}

// LoadFromPath reads the configuration from an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v, false)
}

func load(v *viper.Viper, missingOK bool) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("BUILDPAD")
	v.AutomaticEnv()
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !missingOK || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Auth.Consumer == "" {
		cfg.Auth.Consumer = cfg.Auth.Username
	}

	return &cfg, nil
}

// ToYAML renders the configuration as YAML, the same shape Load reads.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Redacted returns a copy with credential values masked, for display.
func (c *Config) Redacted() Config {
	redacted := *c
	mask := func(s *string) {
		if *s != "" {
			*s = "***"
		}
	}
	mask(&redacted.Auth.Token)
	mask(&redacted.Auth.Secret)
	mask(&redacted.Image.WebhookSecret)
	mask(&redacted.Image.GPGPassphrase)
	return redacted
}

// bindEnvVars binds environment variables to their config keys.
// BUILDPAD_AUTH_TOKEN, BUILDPAD_LOG_LEVEL, etc.
func bindEnvVars(v *viper.Viper) {
	// API
	_ = v.BindEnv("api.root", "BUILDPAD_API_ROOT")

	// Auth
	_ = v.BindEnv("auth.username", "BUILDPAD_AUTH_USERNAME")
	_ = v.BindEnv("auth.consumer", "BUILDPAD_AUTH_CONSUMER")
	_ = v.BindEnv("auth.token", "BUILDPAD_AUTH_TOKEN")
	_ = v.BindEnv("auth.secret", "BUILDPAD_AUTH_SECRET")

	// Image
	_ = v.BindEnv("image.channel", "BUILDPAD_IMAGE_CHANNEL")
	_ = v.BindEnv("image.image_format", "BUILDPAD_IMAGE_FORMAT")
	_ = v.BindEnv("image.delivery_url", "BUILDPAD_IMAGE_DELIVERY_URL")
	_ = v.BindEnv("image.webhook_secret", "BUILDPAD_IMAGE_WEBHOOK_SECRET")
	_ = v.BindEnv("image.gpg_passphrase", "BUILDPAD_IMAGE_GPG_PASSPHRASE")

	// Log
	_ = v.BindEnv("log.level", "BUILDPAD_LOG_LEVEL")
	_ = v.BindEnv("log.format", "BUILDPAD_LOG_FORMAT")
}

// Validate checks that the credential fields required for signed requests
// are present.
func (c *Config) Validate() error {
	if c.Auth.Username == "" {
		return fmt.Errorf("auth.username is required")
	}
	if c.Auth.Token == "" {
		return fmt.Errorf("auth.token is required")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}
	return nil
}
