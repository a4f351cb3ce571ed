// Package config loads docdiagram settings from an optional YAML file, .env files
// and the process environment.
package config

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docdiagram/internal/fingerprint"
	ferrors "git.home.luguber.info/inful/docdiagram/internal/foundation/errors"
	"git.home.luguber.info/inful/docdiagram/internal/renderer"
	"git.home.luguber.info/inful/docdiagram/internal/retry"
	"git.home.luguber.info/inful/docdiagram/internal/transform"
)

// DefaultFile is read when no configuration path is given. It may be absent.
const DefaultFile = "docdiagram.yaml"

// Environment variables read by Load.
const (
	EnvConfig   = "DOCDIAGRAM_CONFIG"
	EnvLogLevel = "DOCDIAGRAM_LOG_LEVEL"
)

// Config holds all settings.
type Config struct {
	CacheDir      string            `yaml:"cache_dir"`
	DiagramClass  string            `yaml:"diagram_class"`
	Hash          string            `yaml:"hash"`           // sha1|sha256|blake3
	DefaultFormat string            `yaml:"default_format"` // image format for unlisted targets
	Formats       map[string]string `yaml:"formats"`        // target -> image format
	Renderer      RendererConfig    `yaml:"renderer"`
	Identifiers   IdentifierConfig  `yaml:"identifiers"`
	Logging       LoggingConfig     `yaml:"logging"`
	Metrics       MetricsConfig     `yaml:"metrics"`
}

// RendererConfig configures the PlantUML invocation.
type RendererConfig struct {
	Java    string `yaml:"java"`
	Jar     string `yaml:"jar"`
	Charset string `yaml:"charset"`
	// Timeout is a Go duration ("30s"). Empty or zero means no limit.
	Timeout string `yaml:"timeout"`
	// Retries re-runs a failed render this many times. Zero disables retries.
	Retries      int    `yaml:"retries"`
	RetryBackoff string `yaml:"retry_backoff"` // fixed|linear|exponential
	RetryDelay   string `yaml:"retry_delay"`   // initial delay, Go duration
}

// IdentifierConfig bounds identifier collision probing.
type IdentifierConfig struct {
	MaxProbes int `yaml:"max_probes"`
}

// LoggingConfig selects log verbosity and encoding.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Load reads configuration from path. With an empty path DefaultFile is used if it
// exists; otherwise defaults apply. .env and .env.local are loaded first and never
// override variables already set in the process environment.
func Load(path string) (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, cfg); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "cannot parse configuration file").
				WithContext("path", path).
				Build()
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// optional
	case errors.Is(err, os.ErrNotExist):
		return nil, ferrors.ConfigError("configuration file not found").
			WithContext("path", path).
			Build()
	default:
		return nil, ferrors.FileSystemError("cannot read configuration file").WithCause(err).
			WithContext("path", path).
			Build()
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Renderer.Jar = renderer.JarFromEnv(cfg.Renderer.Jar)
	if level, ok := os.LookupEnv(EnvLogLevel); ok && level != "" {
		cfg.Logging.Level = LogLevel(level)
	}
}

// FormatTable returns the target to image format mapping.
func (c *Config) FormatTable() transform.FormatTable {
	table := transform.DefaultFormatTable()
	for target, format := range c.Formats {
		table.Targets[target] = format
	}
	if c.DefaultFormat != "" {
		table.Default = c.DefaultFormat
	}
	return table
}

// Hasher returns the fingerprint hasher for the configured algorithm.
func (c *Config) Hasher() (fingerprint.Hasher, error) {
	algo, err := fingerprint.ParseAlgorithm(c.Hash)
	if err != nil {
		return fingerprint.Hasher{}, err
	}
	return fingerprint.NewHasher(algo), nil
}

// Timeout returns the renderer timeout. Invalid values were rejected by Validate.
func (c *Config) Timeout() time.Duration {
	if c.Renderer.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Renderer.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// RetryPolicy returns the render retry policy. Invalid values were rejected by Validate.
func (c *Config) RetryPolicy() retry.Policy {
	mode, _ := retry.ParseMode(c.Renderer.RetryBackoff)
	delay, _ := time.ParseDuration(c.Renderer.RetryDelay)
	return retry.NewPolicy(mode, delay, 0, c.Renderer.Retries)
}

// PlantUML returns the renderer described by the configuration, logging to logger.
func (c *Config) PlantUML(logger *slog.Logger) *renderer.PlantUML {
	p := renderer.NewPlantUML(c.Renderer.Jar)
	p.Logger = logger
	if c.Renderer.Java != "" {
		p.Java = c.Renderer.Java
	}
	if c.Renderer.Charset != "" {
		p.Charset = c.Renderer.Charset
	}
	p.Timeout = c.Timeout()
	return p
}
