// Package config provides configuration loading and validation for procsim.
package config

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tessro/procsim/internal/worker"
)

// Defaults for a simulation run.
const (
	DefaultProcesses   = 6
	DefaultLogLevel    = "info"
	DefaultCycles      = 10
	DefaultCPUBaseMS   = 500
	DefaultCPUOffsetMS = 20
	DefaultIOBaseMS    = 300
	DefaultIOScaleMS   = 100
)

// Config is the procsim configuration file.
type Config struct {
	// Processes is the number of simulated processes per run.
	Processes int `toml:"processes"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// JoinTimeout bounds how long the coordinator waits for workers.
	// Zero waits forever.
	JoinTimeout Duration `toml:"join_timeout"`

	Lifecycle LifecycleConfig `toml:"lifecycle"`
}

// LifecycleConfig holds the per-process timing formula parameters.
type LifecycleConfig struct {
	Cycles      int `toml:"cycles"`
	CPUBaseMS   int `toml:"cpu_base_ms"`
	CPUOffsetMS int `toml:"cpu_offset_ms"`
	IOBaseMS    int `toml:"io_base_ms"`
	IOScaleMS   int `toml:"io_scale_ms"`
}

// Duration is a time.Duration written as a Go duration string ("30s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Processes: DefaultProcesses,
		LogLevel:  DefaultLogLevel,
		Lifecycle: LifecycleConfig{
			Cycles:      DefaultCycles,
			CPUBaseMS:   DefaultCPUBaseMS,
			CPUOffsetMS: DefaultCPUOffsetMS,
			IOBaseMS:    DefaultIOBaseMS,
			IOScaleMS:   DefaultIOScaleMS,
		},
	}
}

// LoadFromPath reads the config at path on top of the defaults.
// A missing file yields the defaults. Unknown keys are rejected.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, &ValidationError{
			Field:   strings.Join(keys, ", "),
			Message: "unknown configuration key",
			Err:     ErrUnknownKey,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// GetLogLevel returns the configured log level or the default.
func (c *Config) GetLogLevel() string {
	if c != nil && c.LogLevel != "" {
		return c.LogLevel
	}
	return DefaultLogLevel
}

// WorkerParams converts the lifecycle section into worker parameters.
func (c *Config) WorkerParams() worker.Params {
	l := c.Lifecycle
	return worker.Params{
		Cycles:    l.Cycles,
		CPUBase:   time.Duration(l.CPUBaseMS) * time.Millisecond,
		CPUOffset: time.Duration(l.CPUOffsetMS) * time.Millisecond,
		IOBase:    time.Duration(l.IOBaseMS) * time.Millisecond,
		IOScale:   time.Duration(l.IOScaleMS) * time.Millisecond,
	}
}
