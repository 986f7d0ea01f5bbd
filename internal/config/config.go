// Copyright (c) Arista Networks, Inc. 2024
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the py27dict command configuration from an
// optional .py27dict.yaml file and PY27DICT_* environment variables.
package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/aristanetworks/py27dict/document"
)

// FileName is the configuration file looked up in the directory given
// to LoadConfig.
const FileName = ".py27dict.yaml"

// EnvPrefix prefixes the environment variables that override the file.
// Nested keys are joined with an underscore, as in
// PY27DICT_FEATURETOGGLE_STAGE.
const EnvPrefix = "PY27DICT"

// Config represents the complete command configuration
type Config struct {
	MaxDepth      int                 `mapstructure:"maxDepth"`
	TagStrings    bool                `mapstructure:"tagStrings"`
	Format        string              `mapstructure:"format"`
	LogLevel      string              `mapstructure:"logLevel"`
	FeatureToggle FeatureToggleConfig `mapstructure:"featureToggle"`
}

// FeatureToggleConfig selects the feature toggle configuration source
// and the deployment the toggles are evaluated for. A ConfigPath takes
// precedence over the AppConfig settings. Endpoint overrides the
// AppConfig Data service endpoint; Region also selects the service
// region.
type FeatureToggleConfig struct {
	ConfigPath  string `mapstructure:"configPath"`
	Stage       string `mapstructure:"stage"`
	Region      string `mapstructure:"region"`
	AccountID   string `mapstructure:"accountId"`
	Endpoint    string `mapstructure:"endpoint"`
	Application string `mapstructure:"application"`
	Environment string `mapstructure:"environment"`
	Profile     string `mapstructure:"profile"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:   document.DefaultMaxDepth,
		TagStrings: true,
		Format:     string(document.Auto),
		LogLevel:   "info",
	}
}

func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("maxDepth", def.MaxDepth)
	v.SetDefault("tagStrings", def.TagStrings)
	v.SetDefault("format", def.Format)
	v.SetDefault("logLevel", def.LogLevel)
	v.SetDefault("featureToggle.configPath", def.FeatureToggle.ConfigPath)
	v.SetDefault("featureToggle.stage", def.FeatureToggle.Stage)
	v.SetDefault("featureToggle.region", def.FeatureToggle.Region)
	v.SetDefault("featureToggle.accountId", def.FeatureToggle.AccountID)
	v.SetDefault("featureToggle.endpoint", def.FeatureToggle.Endpoint)
	v.SetDefault("featureToggle.application", def.FeatureToggle.Application)
	v.SetDefault("featureToggle.environment", def.FeatureToggle.Environment)
	v.SetDefault("featureToggle.profile", def.FeatureToggle.Profile)
}

// LoadConfig loads configuration from .py27dict.yaml in dir, applying
// environment overrides. A missing file leaves the defaults in place.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxDepth <= 0 {
		return &ConfigError{Field: "maxDepth", Message: "must be positive"}
	}
	if _, err := document.ParseFormat(c.Format); err != nil {
		return &ConfigError{Field: "format", Message: "expected auto, json or yaml"}
	}
	if _, err := c.Level(); err != nil {
		return &ConfigError{Field: "logLevel", Message: "expected debug, info, warn or error"}
	}
	ft := c.FeatureToggle
	if ft.ConfigPath == "" && ft.Application != "" {
		if ft.Environment == "" {
			return &ConfigError{Field: "featureToggle.environment", Message: "required with application"}
		}
		if ft.Profile == "" {
			return &ConfigError{Field: "featureToggle.profile", Message: "required with application"}
		}
	}
	return nil
}

// Level returns LogLevel as a slog level. The empty string is info.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	err := l.UnmarshalText([]byte(c.LogLevel))
	return l, err
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
