package config

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/docdiagram/internal/fingerprint"
	ferrors "git.home.luguber.info/inful/docdiagram/internal/foundation/errors"
	"git.home.luguber.info/inful/docdiagram/internal/retry"
)

var imageFormat = regexp.MustCompile(`^[a-z0-9]+$`)

// Validate checks a configuration after defaults were applied.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.CacheDir) == "" {
		return invalid("cache_dir", cfg.CacheDir, "must not be empty")
	}
	if cfg.DiagramClass == "" || strings.ContainsAny(cfg.DiagramClass, " \t\n") {
		return invalid("diagram_class", cfg.DiagramClass, "must be a single class name")
	}
	if _, err := fingerprint.ParseAlgorithm(cfg.Hash); err != nil {
		return invalid("hash", cfg.Hash, err.Error())
	}
	if !imageFormat.MatchString(cfg.DefaultFormat) {
		return invalid("default_format", cfg.DefaultFormat, "must be a lowercase image format such as png")
	}
	targets := make([]string, 0, len(cfg.Formats))
	for target := range cfg.Formats {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	for _, target := range targets {
		if !imageFormat.MatchString(cfg.Formats[target]) {
			return invalid("formats."+target, cfg.Formats[target], "must be a lowercase image format such as svg")
		}
	}
	if cfg.Renderer.Timeout != "" {
		d, err := time.ParseDuration(cfg.Renderer.Timeout)
		if err != nil || d < 0 {
			return invalid("renderer.timeout", cfg.Renderer.Timeout, "must be a non-negative duration such as 30s")
		}
	}
	if cfg.Renderer.Retries < 0 {
		return invalid("renderer.retries", cfg.Renderer.Retries, "must not be negative")
	}
	if _, err := retry.ParseMode(cfg.Renderer.RetryBackoff); err != nil {
		return invalid("renderer.retry_backoff", cfg.Renderer.RetryBackoff, err.Error())
	}
	if cfg.Renderer.RetryDelay != "" {
		d, err := time.ParseDuration(cfg.Renderer.RetryDelay)
		if err != nil || d < 0 {
			return invalid("renderer.retry_delay", cfg.Renderer.RetryDelay, "must be a non-negative duration such as 2s")
		}
	}
	if cfg.Identifiers.MaxProbes < 1 {
		return invalid("identifiers.max_probes", cfg.Identifiers.MaxProbes, "must be at least 1")
	}
	if _, err := logLevelNormalizer.Parse(string(cfg.Logging.Level)); err != nil {
		return invalid("logging.level", cfg.Logging.Level, err.Error())
	}
	if _, err := logFormatNormalizer.Parse(string(cfg.Logging.Format)); err != nil {
		return invalid("logging.format", cfg.Logging.Format, err.Error())
	}
	return nil
}

func invalid(field string, value any, reason string) error {
	return ferrors.ValidationError("invalid configuration: "+field+" "+reason).
		WithContext("field", field).
		WithContext("value", value).
		Build()
}
