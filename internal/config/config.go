// Package config resolves the launcher's target directory and command line.
//
// Values are layered: build-time defaults (injected with -ldflags -X), an
// optional YAML file, then PYSUITCASE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Metaphorme/pysuitcase/internal/process"
	"github.com/Metaphorme/pysuitcase/pkg/suitcase"
)

// Config is the complete launcher configuration
type Config struct {
	AppFolder  string    `mapstructure:"app_folder"`
	Command    string    `mapstructure:"command"`
	Subsystem  string    `mapstructure:"subsystem"`
	BufferSize int       `mapstructure:"buffer_size"`
	Log        LogConfig `mapstructure:"log"`
}

// LogConfig controls the launcher's own logging
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Defaults are the values fixed into the binary at build time
type Defaults struct {
	AppFolder string
	Command   string
}

// LoadOptions tells Load where to look for a config file
type LoadOptions struct {
	// File is an explicit config file; it must exist when set.
	File string
	// SearchDirs are searched for an optional pysuitcase.yaml when File is empty.
	SearchDirs []string
	Defaults   Defaults
}

// Load resolves and validates the configuration
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v, opts.Defaults)

	v.SetEnvPrefix(suitcase.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", opts.File, err)
		}
	} else if len(opts.SearchDirs) > 0 {
		v.SetConfigName(strings.TrimSuffix(suitcase.ConfigFileName, filepath.Ext(suitcase.ConfigFileName)))
		v.SetConfigType("yaml")
		for _, dir := range opts.SearchDirs {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, defaults Defaults) {
	appFolder := defaults.AppFolder
	if appFolder == "" {
		appFolder = suitcase.DefaultAppFolder
	}

	v.SetDefault("app_folder", appFolder)
	v.SetDefault("command", defaults.Command)
	v.SetDefault("subsystem", process.SubsystemAuto.String())
	v.SetDefault("buffer_size", suitcase.ReadBufferSize)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// Validate reports the first invalid field
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AppFolder) == "" {
		return errors.New("app_folder must not be empty")
	}
	if strings.TrimSpace(c.Command) == "" {
		return errors.New("command must not be empty")
	}
	if _, err := process.ParseSubsystem(c.Subsystem); err != nil {
		return fmt.Errorf("invalid subsystem: %w", err)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive, got %d", c.BufferSize)
	}
	return nil
}

// SubsystemOverride returns the configured subsystem, SubsystemAuto when unset
func (c *Config) SubsystemOverride() process.Subsystem {
	s, _ := process.ParseSubsystem(c.Subsystem)
	return s
}
