package config

import (
	"git.home.luguber.info/inful/docdiagram/internal/fingerprint"
	"git.home.luguber.info/inful/docdiagram/internal/ident"
	"git.home.luguber.info/inful/docdiagram/internal/rendercache"
	"git.home.luguber.info/inful/docdiagram/internal/renderer"
	"git.home.luguber.info/inful/docdiagram/internal/transform"
)

func applyDefaults(cfg *Config) {
	if cfg.CacheDir == "" {
		cfg.CacheDir = rendercache.DefaultDir
	}
	if cfg.DiagramClass == "" {
		cfg.DiagramClass = transform.DefaultDiagramClass
	}
	if cfg.Hash == "" {
		cfg.Hash = string(fingerprint.SHA1)
	}
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = transform.DefaultImageFormat
	}
	if cfg.Renderer.Java == "" {
		cfg.Renderer.Java = "java"
	}
	if cfg.Renderer.Jar == "" {
		cfg.Renderer.Jar = renderer.DefaultJar
	}
	if cfg.Renderer.Charset == "" {
		cfg.Renderer.Charset = "UTF-8"
	}
	if cfg.Identifiers.MaxProbes == 0 {
		cfg.Identifiers.MaxProbes = ident.DefaultMaxProbes
	}

	// Case-fold enumerations; unknown values are left for Validate to report.
	if level, err := logLevelNormalizer.Parse(string(cfg.Logging.Level)); err == nil {
		cfg.Logging.Level = level
	}
	if format, err := logFormatNormalizer.Parse(string(cfg.Logging.Format)); err == nil {
		cfg.Logging.Format = format
	}
}
