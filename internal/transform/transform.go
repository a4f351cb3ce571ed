// Package transform is the per-document entry point: it decides which elements are
// diagram blocks, renders them through the cache and assembles their replacements,
// and harvests identifiers from everything else.
//
// A Run covers exactly one document. Elements must be fed in document order; an
// identifier is protected from generated collisions only once the element carrying
// it has been harvested. The pandoc filter walks children first, so a container's
// own identifier (a Div or Header wrapping diagrams) is harvested after the
// diagrams nested in it, and a generated header there can take the same name.
package transform

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docdiagram/internal/diagram"
	"git.home.luguber.info/inful/docdiagram/internal/fingerprint"
	ferrors "git.home.luguber.info/inful/docdiagram/internal/foundation/errors"
	"git.home.luguber.info/inful/docdiagram/internal/ident"
	"git.home.luguber.info/inful/docdiagram/internal/logfields"
	"git.home.luguber.info/inful/docdiagram/internal/metrics"
	"git.home.luguber.info/inful/docdiagram/internal/rendercache"
)

// DefaultDiagramClass tags code blocks that hold PlantUML source.
const DefaultDiagramClass = "plantuml"

// Options configures a Run.
type Options struct {
	// Class identifies diagram blocks. Default DefaultDiagramClass.
	Class string
	// Format is the image format to render. Default DefaultImageFormat.
	Format    string
	MaxProbes int
	Hasher    fingerprint.Hasher
	Recorder  metrics.Recorder
	Logger    *slog.Logger
}

// Stats summarizes a run.
type Stats struct {
	Diagrams  int
	Artifacts int
	// Failed counts diagrams whose rendering reported an error.
	Failed int
	// Dropped counts diagrams that produced no artifact and vanished from the document.
	Dropped int
}

// Run processes the elements of one document.
type Run struct {
	cache     *rendercache.Cache
	registry  *ident.Registry
	assembler *diagram.Assembler
	hasher    fingerprint.Hasher
	class     string
	format    string
	recorder  metrics.Recorder
	logger    *slog.Logger
	stats     Stats
}

// NewRun starts a document run with a fresh identifier registry.
func NewRun(cache *rendercache.Cache, opts Options) *Run {
	if opts.Class == "" {
		opts.Class = DefaultDiagramClass
	}
	if opts.Format == "" {
		opts.Format = DefaultImageFormat
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	registry := ident.NewRegistry(opts.MaxProbes)
	return &Run{
		cache:     cache,
		registry:  registry,
		assembler: diagram.NewAssembler(registry, opts.Recorder, opts.Logger),
		hasher:    opts.Hasher,
		class:     opts.Class,
		format:    opts.Format,
		recorder:  opts.Recorder,
		logger:    opts.Logger,
	}
}

// Format returns the image format diagrams are rendered in.
func (r *Run) Format() string { return r.format }

// Stats returns counters for the elements processed so far.
func (r *Run) Stats() Stats { return r.stats }

// Registry exposes the run's identifiers.
func (r *Run) Registry() *ident.Registry { return r.registry }

// IsDiagram reports whether b is tagged with the diagram class.
func (r *Run) IsDiagram(b diagram.Block) bool {
	return b.HasClass(r.class)
}

// Harvest protects an identifier found on an ordinary element.
func (r *Run) Harvest(id string) {
	r.registry.Harvest(id)
}

// Diagram renders b (or reuses the cached rendering) and returns its replacement
// elements. It never fails: problems are logged and the block yields whatever
// artifacts exist, possibly none.
func (r *Run) Diagram(ctx context.Context, b diagram.Block) []diagram.Element {
	r.stats.Diagrams++
	r.recorder.IncDiagrams()

	fp := r.hasher.Of(b.Source)
	artifacts, err := r.cache.Ensure(ctx, fp, b.Source, r.format)
	if err != nil {
		r.stats.Failed++
		r.logEnsureError(err, fp, b)
	}
	if len(artifacts) == 0 {
		r.stats.Dropped++
		r.logger.Warn("Diagram produced no image; block removed",
			logfields.Fingerprint(string(fp)),
			logfields.Identifier(b.ID))
	}

	elements := r.assembler.Assemble(b, artifacts)
	r.stats.Artifacts += len(artifacts)
	r.recorder.AddArtifacts(len(artifacts))
	return elements
}

func (r *Run) logEnsureError(err error, fp fingerprint.Fingerprint, b diagram.Block) {
	if classified, ok := ferrors.AsClassified(err); ok {
		attrs := append([]slog.Attr{logfields.Identifier(b.ID)}, classified.LogAttrs()...)
		r.logger.LogAttrs(context.Background(), slog.LevelWarn, classified.Message(), attrs...)
		return
	}
	attrs := []slog.Attr{logfields.Fingerprint(string(fp)), logfields.Identifier(b.ID), logfields.Error(err)}
	r.logger.LogAttrs(context.Background(), slog.LevelWarn, "Diagram rendering failed", attrs...)
}
