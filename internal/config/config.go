// SPDX-License-Identifier: MIT
//
// Copyright 2026 Alberto Cavalcante. All rights reserved.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

// Package config loads the settings of a generation run.
//
// Values are layered, lowest first: built-in defaults, the config file
// (.cqrsgen.yaml in the working directory, or an explicit path), CQRSGEN_*
// environment variables, and command-line flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides (CQRSGEN_LOG_LEVEL).
const EnvPrefix = "CQRSGEN"

// DefaultFile is the config file looked up when none is given.
const DefaultFile = ".cqrsgen"

// Keys.
const (
	KeySpec          = "spec"
	KeyOutput        = "output"
	KeyModule        = "module"
	KeyTarget        = "target"
	KeyWorkers       = "workers"
	KeyPartialApply  = "partial_apply"
	KeyDryRun        = "dry_run"
	KeyLogLevel      = "log.level"
	KeyLogFile       = "log.file"
	KeyLogMaxSizeMB  = "log.max_size_mb"
	KeyLogMaxBackups = "log.max_backups"
	KeyMetricsFile   = "metrics_file"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config is the decoded configuration.
type Config struct {
	// Spec is the path of the service spec.
	Spec string `mapstructure:"spec"`

	// Output is the output root directory.
	Output string `mapstructure:"output"`

	// Module is the import path of the output root. When empty it is
	// derived from the spec namespace.
	Module string `mapstructure:"module"`

	// Target names the registered target that renders the artifacts.
	Target string `mapstructure:"target"`

	// Workers bounds the entities processed at once. Zero means
	// GOMAXPROCS.
	Workers int `mapstructure:"workers"`

	// PartialApply commits the files that succeeded even when others
	// failed.
	PartialApply bool `mapstructure:"partial_apply"`

	// DryRun renders and merges without writing.
	DryRun bool `mapstructure:"dry_run"`

	Log Log `mapstructure:"log"`

	// MetricsFile, when set, receives the run metrics in the Prometheus
	// text format.
	MetricsFile string `mapstructure:"metrics_file"`
}

// Log configures logging.
type Log struct {
	Level string `mapstructure:"level"`

	// File enables a rotated JSON log at this path.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// New returns a viper instance carrying the defaults and the environment
// bindings. Callers bind their flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeySpec, "")
	v.SetDefault(KeyOutput, ".")
	v.SetDefault(KeyModule, "")
	v.SetDefault(KeyTarget, "go")
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeyPartialApply, false)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogMaxSizeMB, 10)
	v.SetDefault(KeyLogMaxBackups, 3)
	v.SetDefault(KeyMetricsFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file into v and decodes the result. With an
// empty file, .cqrsgen.yaml is read from the working directory when it
// exists; an explicit file must exist.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName(DefaultFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings no run can use.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, fmt.Errorf("%w: output directory is empty", ErrInvalid))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers = %d, want >= 0", ErrInvalid, c.Workers))
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		errs = append(errs, fmt.Errorf("%w: log rotation limits must not be negative", ErrInvalid))
	}
	return errors.Join(errs...)
}
