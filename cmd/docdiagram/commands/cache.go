package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"git.home.luguber.info/inful/docdiagram/internal/fingerprint"
	ferrors "git.home.luguber.info/inful/docdiagram/internal/foundation/errors"
	"git.home.luguber.info/inful/docdiagram/internal/markdown"
	"git.home.luguber.info/inful/docdiagram/internal/rendercache"
	"git.home.luguber.info/inful/docdiagram/internal/transform"
)

// CacheCmd groups cache inspection commands.
type CacheCmd struct {
	List  CacheListCmd  `cmd:"" default:"1" help:"List cached diagrams and their rendered files"`
	Prune CachePruneCmd `cmd:"" help:"Remove cached diagrams not used by the given Markdown files"`
}

// CacheListCmd implements 'cache list'.
type CacheListCmd struct {
	out io.Writer
}

// Run prints one line per cached diagram.
func (c *CacheListCmd) Run(g *Global) error {
	cache := rendercache.New(g.Config.CacheDir, g.Config.PlantUML(g.Logger), rendercache.WithLogger(g.Logger))
	entries, err := cache.List()
	if err != nil {
		return ferrors.FileSystemError("cannot list render cache").WithCause(err).
			WithContext("path", g.Config.CacheDir).
			Build()
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "FINGERPRINT\tFILES")
	for _, e := range entries {
		names := make([]string, 0, len(e.Artifacts))
		for _, a := range e.Artifacts {
			names = append(names, filepath.Base(a))
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", e.Fingerprint, strings.Join(names, " "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	g.Logger.Debug("Listed render cache", "entries", len(entries))
	return nil
}

// CachePruneCmd implements 'cache prune'.
type CachePruneCmd struct {
	Files  []string `arg:"" type:"existingfile" help:"Markdown files whose diagrams must stay cached"`
	DryRun bool     `name:"dry-run" help:"Only print what would be removed"`

	out io.Writer
}

// Run removes every cache entry no diagram in Files hashes to.
func (c *CachePruneCmd) Run(ctx context.Context, g *Global) error {
	hasher, err := g.Config.Hasher()
	if err != nil {
		return err
	}
	cache := rendercache.New(g.Config.CacheDir, g.Config.PlantUML(g.Logger), rendercache.WithLogger(g.Logger))
	rw := markdown.NewRewriter(cache, transform.Options{Class: g.Config.DiagramClass, Logger: g.Logger})

	keep := make(map[fingerprint.Fingerprint]bool)
	for _, file := range c.Files {
		source, err := os.ReadFile(file)
		if err != nil {
			return ferrors.FileSystemError("cannot read markdown file").WithCause(err).
				WithContext("path", file).
				Build()
		}
		for _, b := range rw.Diagrams(source) {
			keep[hasher.Of(b.Source)] = true
		}
	}

	removed, err := cache.Prune(ctx, keep, c.DryRun)
	if err != nil {
		return ferrors.FileSystemError("cannot prune render cache").WithCause(err).
			WithContext("path", g.Config.CacheDir).
			Build()
	}

	out := c.out
	if out == nil {
		out = os.Stdout
	}
	verb := "removed"
	if c.DryRun {
		verb = "would remove"
	}
	for _, e := range removed {
		_, _ = fmt.Fprintf(out, "%s %s\n", verb, e.Fingerprint)
	}
	g.Logger.Info("Pruned render cache",
		slog.Int("kept", len(keep)),
		slog.Int("removed", len(removed)),
		slog.Bool("dry_run", c.DryRun))
	return nil
}
