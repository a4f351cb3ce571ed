// Package rendercache stores rendered diagram images in a flat, content-addressed
// directory keyed by fingerprint.
//
// Layout, per fingerprint:
//
//	<dir>/<fingerprint>.<sourceExt>          normalized diagram source
//	<dir>/<fingerprint>[suffix].<format>     one file per rendered page
//
// A file named exactly <fingerprint>.<format> marks the entry as rendered. There is no
// expiry or explicit invalidation: changed source text has a new fingerprint. The cache
// assumes a single process uses the directory at a time.
package rendercache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docdiagram/internal/fingerprint"
	ferrors "git.home.luguber.info/inful/docdiagram/internal/foundation/errors"
	"git.home.luguber.info/inful/docdiagram/internal/logfields"
	"git.home.luguber.info/inful/docdiagram/internal/metrics"
	"git.home.luguber.info/inful/docdiagram/internal/renderer"
)

// DefaultDir is the cache directory used when none is configured.
const DefaultDir = "plantuml-images"

// Cache renders diagrams on demand and discovers their artifacts.
type Cache struct {
	dir      string
	source   renderer.SourceFormat
	renderer renderer.Renderer
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithSourceFormat overrides the source dialect (default PlantUML).
func WithSourceFormat(sf renderer.SourceFormat) Option {
	return func(c *Cache) { c.source = sf }
}

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Cache) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a cache rooted at dir that renders misses with r.
func New(dir string, r renderer.Renderer, opts ...Option) *Cache {
	if dir == "" {
		dir = DefaultDir
	}
	c := &Cache{
		dir:      dir,
		source:   renderer.PlantUMLSource,
		renderer: r,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// SourcePath returns where the normalized source for fp is stored.
func (c *Cache) SourcePath(fp fingerprint.Fingerprint) string {
	return filepath.Join(c.dir, string(fp)+"."+c.source.Ext)
}

// primaryPath is the file whose existence makes fp a cache hit.
func (c *Cache) primaryPath(fp fingerprint.Fingerprint, format string) string {
	return filepath.Join(c.dir, string(fp)+"."+format)
}

// Has reports whether fp has been rendered to format.
func (c *Cache) Has(fp fingerprint.Fingerprint, format string) bool {
	info, err := os.Stat(c.primaryPath(fp, format))
	return err == nil && !info.IsDir()
}

// Ensure renders source unless fp is already cached in format, then returns every
// artifact found for fp in page order.
//
// The returned error is advisory: renderer failures and filesystem problems are
// reported as classified errors next to whatever artifacts exist, which may be none.
func (c *Cache) Ensure(ctx context.Context, fp fingerprint.Fingerprint, source, format string) ([]Artifact, error) {
	var renderErr error
	miss := !c.Has(fp, format)
	if miss {
		c.recorder.IncCacheResult(metrics.CacheMiss)
		renderErr = c.render(ctx, fp, source, format)
	} else {
		c.recorder.IncCacheResult(metrics.CacheHit)
		c.logger.Debug("Render cache hit", logfields.Fingerprint(string(fp)), logfields.Format(format))
	}

	artifacts, err := c.Discover(fp, format)
	if err != nil {
		return nil, errors.Join(renderErr, ferrors.FileSystemError("cannot list cache directory").WithCause(err).
			WithContext(logfields.KeyPath, c.dir).
			Warning().
			Build())
	}
	if miss && renderErr == nil && len(artifacts) == 0 {
		renderErr = ferrors.RenderError("renderer produced no output").
			WithContext(logfields.KeyFingerprint, string(fp)).
			WithContext(logfields.KeyFormat, format).
			Build()
	}

	for i, a := range artifacts {
		c.logger.Info(fmt.Sprintf("Created image %d - %s", i+1, a.Path),
			logfields.Fingerprint(string(fp)), logfields.Artifact(a.Path))
	}
	return artifacts, renderErr
}

func (c *Cache) render(ctx context.Context, fp fingerprint.Fingerprint, source, format string) error {
	if err := c.ensureDir(); err != nil {
		return err
	}

	srcPath := c.SourcePath(fp)
	if err := os.WriteFile(srcPath, []byte(c.source.Normalize(source)), 0o644); err != nil {
		return ferrors.FileSystemError("cannot write diagram source").WithCause(err).
			WithContext(logfields.KeyPath, srcPath).
			Warning().
			Build()
	}

	if c.renderer == nil {
		return ferrors.InternalError("no renderer configured").Build()
	}

	start := time.Now()
	err := c.renderer.Render(ctx, srcPath, format)
	elapsed := time.Since(start)

	outcome := metrics.RenderSuccess
	switch {
	case err != nil:
		outcome = metrics.RenderFailed
	case !c.Has(fp, format):
		outcome = metrics.RenderEmpty
	}
	c.recorder.ObserveRender(elapsed, outcome)
	c.logger.Debug("Renderer finished",
		logfields.Fingerprint(string(fp)),
		logfields.Format(format),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000),
		slog.String("outcome", string(outcome)))

	if err != nil {
		return ferrors.RenderError("diagram rendering failed").
			WithCause(err).
			WithContext(logfields.KeyFingerprint, string(fp)).
			WithContext(logfields.KeyFormat, format).
			WithContext(logfields.KeyPath, srcPath).
			Build()
	}
	return nil
}

// ensureDir creates the cache directory if needed; an existing directory is fine.
func (c *Cache) ensureDir() error {
	if info, err := os.Stat(c.dir); err == nil && info.IsDir() {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return ferrors.FileSystemError("cannot create cache directory").WithCause(err).
			WithContext(logfields.KeyPath, c.dir).
			Warning().
			Build()
	}
	c.logger.Info("Created directory "+c.dir, logfields.Path(c.dir))
	return nil
}
