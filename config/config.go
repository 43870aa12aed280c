// Package config resolves runtime settings from defaults, a config file and BACKDROP_* environment variables
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override
const EnvPrefix = "BACKDROP_"

// Config holds runtime parameters
// Durations are stored in milliseconds so every file format reads them the same way
type Config struct {
	Route               string `json:"route" yaml:"route" toml:"route" env:"ROUTE"`
	ReducedMotion       bool   `json:"reduced_motion" yaml:"reduced_motion" toml:"reduced_motion" env:"REDUCED_MOTION"`
	Seed                uint64 `json:"seed" yaml:"seed" toml:"seed" env:"SEED"`
	CatalogPath         string `json:"catalog" yaml:"catalog" toml:"catalog" env:"CATALOG"`
	FPS                 int    `json:"fps" yaml:"fps" toml:"fps" env:"FPS"`
	MetricsAddr         string `json:"metrics_addr" yaml:"metrics_addr" toml:"metrics_addr" env:"METRICS_ADDR"`
	Debug               bool   `json:"debug" yaml:"debug" toml:"debug" env:"DEBUG"`
	LogDir              string `json:"log_dir" yaml:"log_dir" toml:"log_dir" env:"LOG_DIR"`
	NarrativeIntervalMs int    `json:"narrative_interval_ms" yaml:"narrative_interval_ms" toml:"narrative_interval_ms" env:"NARRATIVE_INTERVAL_MS"`
	TypingSpeedMs       int    `json:"typing_speed_ms" yaml:"typing_speed_ms" toml:"typing_speed_ms" env:"TYPING_SPEED_MS"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Route:  "/",
		FPS:    60,
		LogDir: "logs",
	}
}

// Load reads a configuration file over the defaults based on its extension
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// ApplyEnv overlays BACKDROP_* variables, unset variables keep their current value
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Resolve builds the configuration from defaults, an optional file and the environment
func Resolve(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid field at once
func (c Config) Validate() error {
	var errs []error
	if !strings.HasPrefix(c.Route, "/") {
		errs = append(errs, fmt.Errorf("route %q must start with /", c.Route))
	}
	if c.FPS < 1 || c.FPS > 240 {
		errs = append(errs, fmt.Errorf("fps %d out of range [1, 240]", c.FPS))
	}
	if c.NarrativeIntervalMs < 0 {
		errs = append(errs, fmt.Errorf("narrative_interval_ms must not be negative"))
	}
	if c.TypingSpeedMs < 0 {
		errs = append(errs, fmt.Errorf("typing_speed_ms must not be negative"))
	}
	return errors.Join(errs...)
}

// FrameInterval converts FPS to the loop ticker interval
func (c Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.FPS)
}

func (c Config) NarrativeInterval() time.Duration {
	return time.Duration(c.NarrativeIntervalMs) * time.Millisecond
}

func (c Config) TypingSpeed() time.Duration {
	return time.Duration(c.TypingSpeedMs) * time.Millisecond
}
