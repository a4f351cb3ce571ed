package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/docdiagram/internal/logfields"
	"git.home.luguber.info/inful/docdiagram/internal/markdown"
	"git.home.luguber.info/inful/docdiagram/internal/transform"
	"git.home.luguber.info/inful/docdiagram/internal/watch"
)

// MarkdownTarget is the format-table key used for Markdown output.
const MarkdownTarget = "markdown"

// RewriteCmd implements the 'rewrite' command.
type RewriteCmd struct {
	Files    []string      `arg:"" type:"existingfile" help:"Markdown files to rewrite"`
	OutDir   string        `name:"out-dir" short:"o" help:"Write results here instead of rewriting files in place"`
	Format   string        `short:"f" help:"Image format (default: the format table entry for markdown)"`
	Watch    bool          `short:"w" help:"Keep running and rewrite files again when they change"`
	Debounce time.Duration `default:"300ms" help:"Quiet period before a change is processed in watch mode"`
}

// Run rewrites every file once, then optionally watches them.
func (r *RewriteCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	p, err := newPipeline(g, root)
	if err != nil {
		return err
	}
	defer p.flushMetrics()

	opts := p.options
	opts.Format = r.Format
	if opts.Format == "" {
		opts.Format = g.Config.FormatTable().For(MarkdownTarget)
	}
	rw := markdown.NewRewriter(p.cache, opts)

	total, err := r.rewriteAll(ctx, rw, r.Files)
	logStats(g.Logger, "Rewrite finished", total)
	if err != nil || !r.Watch {
		return err
	}

	w, err := watch.New(r.Files, watch.Options{Debounce: r.Debounce, Logger: g.Logger})
	if err != nil {
		return err
	}
	g.Logger.Info("Watching for changes", "files", len(r.Files))
	return w.Run(ctx, func(ctx context.Context, changed []string) {
		stats, err := r.rewriteAll(ctx, rw, changed)
		if err != nil {
			g.Logger.Warn("Rewrite failed", logfields.Error(err))
		}
		logStats(g.Logger, "Rewrite finished", stats)
		p.flushMetrics()
	})
}

func (r *RewriteCmd) rewriteAll(ctx context.Context, rw *markdown.Rewriter, files []string) (transform.Stats, error) {
	var total transform.Stats
	for _, file := range files {
		stats, err := rw.RewriteFile(ctx, file, r.outPath(file))
		total.Diagrams += stats.Diagrams
		total.Artifacts += stats.Artifacts
		total.Failed += stats.Failed
		total.Dropped += stats.Dropped
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// outPath keeps inputs' directory layout relative to the working directory below
// OutDir. The watcher reports absolute paths, so those are made relative first; files
// outside the working directory keep only their base name.
func (r *RewriteCmd) outPath(file string) string {
	if r.OutDir == "" {
		return ""
	}
	if filepath.IsAbs(file) {
		rel, ok := relativeToWorkDir(file)
		if !ok {
			return filepath.Join(r.OutDir, filepath.Base(file))
		}
		file = rel
	}
	return filepath.Join(r.OutDir, file)
}

func relativeToWorkDir(abs string) (string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(cwd, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
