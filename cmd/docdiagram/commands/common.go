// Package commands implements the docdiagram command line.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/docdiagram/internal/config"
	"git.home.luguber.info/inful/docdiagram/internal/logfields"
	"git.home.luguber.info/inful/docdiagram/internal/metrics"
	"git.home.luguber.info/inful/docdiagram/internal/rendercache"
	"git.home.luguber.info/inful/docdiagram/internal/renderer"
	"git.home.luguber.info/inful/docdiagram/internal/transform"
)

// Global carries state prepared once after flag parsing.
type Global struct {
	Config *config.Config
	Logger *slog.Logger
	RunID  string
	// Renderer replaces the configured PlantUML renderer when set.
	Renderer renderer.Renderer
}

// CLI definition and global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path (default: ${config_file} when present)" env:"DOCDIAGRAM_CONFIG"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics to this file (textfile collector format) when the run ends"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Filter  FilterCmd  `cmd:"" default:"withargs" help:"Run as a pandoc JSON filter: AST on stdin, target format as argument, AST on stdout"`
	Rewrite RewriteCmd `cmd:"" help:"Rewrite diagram fences in Markdown files"`
	Cache   CacheCmd   `cmd:"" help:"Inspect the render cache"`
}

// AfterApply loads configuration and sets up logging once. Logs always go to
// stderr: stdout carries the filter's JSON output.
func (c *CLI) AfterApply(g *Global) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		g.Logger = newLogger(os.Stderr, config.LogLevelInfo, config.LogFormatText, c.Verbose)
		return err
	}
	g.Config = cfg
	g.RunID = uuid.NewString()
	g.Logger = newLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format, c.Verbose).
		With(logfields.RunID(g.RunID))
	slog.SetDefault(g.Logger)
	return nil
}

func newLogger(w io.Writer, level config.LogLevel, format config.LogFormat, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// pipeline is the shared wiring of cache, renderer and metrics for one invocation.
type pipeline struct {
	cache       *rendercache.Cache
	options     transform.Options
	prom        *metrics.PrometheusRecorder
	metricsFile string
	logger      *slog.Logger
}

func newPipeline(g *Global, root *CLI) (*pipeline, error) {
	cfg := g.Config
	hasher, err := cfg.Hasher()
	if err != nil {
		return nil, err
	}

	p := &pipeline{logger: g.Logger, metricsFile: root.MetricsFile}
	if p.metricsFile == "" {
		p.metricsFile = cfg.Metrics.Textfile
	}
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if p.metricsFile != "" {
		p.prom = metrics.NewPrometheusRecorder(nil)
		recorder = p.prom
	}

	var r renderer.Renderer = cfg.PlantUML(g.Logger)
	if g.Renderer != nil {
		r = g.Renderer
	}
	r = renderer.WithRetry(r, cfg.RetryPolicy(), g.Logger)
	p.cache = rendercache.New(cfg.CacheDir, r,
		rendercache.WithRecorder(recorder),
		rendercache.WithLogger(g.Logger))
	p.options = transform.Options{
		Class:     cfg.DiagramClass,
		MaxProbes: cfg.Identifiers.MaxProbes,
		Hasher:    hasher,
		Recorder:  recorder,
		Logger:    g.Logger,
	}
	return p, nil
}

// flushMetrics writes the textfile export when enabled. Failures are logged only.
func (p *pipeline) flushMetrics() {
	if p.prom == nil {
		return
	}
	if err := metrics.WriteTextfile(p.metricsFile, p.prom.Registry()); err != nil {
		p.logger.Warn("Failed to write metrics", logfields.Path(p.metricsFile), logfields.Error(err))
	}
}

func logStats(logger *slog.Logger, msg string, s transform.Stats) {
	logger.Info(msg,
		slog.Int("diagrams", s.Diagrams),
		slog.Int("artifacts", s.Artifacts),
		slog.Int("failed", s.Failed),
		slog.Int("dropped", s.Dropped))
}
