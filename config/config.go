// Package config loads jockey.Config from a YAML file and environment
// variables using viper, the way the example pack's CLI tools load their
// own configuration. It is an example-only convenience: the core jockey
// package never imports it, so embedding jockey in a service with its own
// configuration story costs nothing extra.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/orsinium-labs/jockey"
)

// EnvPrefix is the prefix jockey's example CLI binds environment
// variables under, e.g. JOCKEY_MAX_THREADS.
const EnvPrefix = "JOCKEY"

// Raw is the on-disk shape of a jockey config file. It mirrors
// jockey.Config but only covers the fields that make sense as static
// configuration; callbacks and loggers are wired in code.
type Raw struct {
	MaxJobs      int           `mapstructure:"max_jobs"`
	MaxThreads   int           `mapstructure:"max_threads"`
	MaxProcesses int           `mapstructure:"max_processes"`
	DrainTimeout time.Duration `mapstructure:"drain_timeout"`
}

// Load reads path (if non-empty) plus any JOCKEY_* environment variables
// into a Raw, and returns the jockey.Config built from it. Logging and
// Metrics are left zero-valued; set them on the returned Config before
// constructing an Executor.
func Load(path string) (jockey.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("max_jobs", 0)
	v.SetDefault("max_threads", 0)
	v.SetDefault("max_processes", 0)
	v.SetDefault("drain_timeout", 30*time.Second)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return jockey.Config{}, fmt.Errorf("read jockey config %q: %w", path, err)
		}
	}

	var raw Raw
	if err := v.Unmarshal(&raw); err != nil {
		return jockey.Config{}, fmt.Errorf("unmarshal jockey config: %w", err)
	}

	return jockey.Config{
		MaxJobs:      raw.MaxJobs,
		MaxThreads:   raw.MaxThreads,
		MaxProcesses: raw.MaxProcesses,
		DrainTimeout: raw.DrainTimeout,
	}, nil
}
