// Package filter implements the pandoc JSON filter: it reads a document AST, replaces
// diagram code blocks with rendered figures and writes the AST back.
package filter

import (
	"context"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/docdiagram/internal/diagram"
	ferrors "git.home.luguber.info/inful/docdiagram/internal/foundation/errors"
	"git.home.luguber.info/inful/docdiagram/internal/logfields"
	"git.home.luguber.info/inful/docdiagram/internal/pandoc"
	"git.home.luguber.info/inful/docdiagram/internal/rendercache"
	"git.home.luguber.info/inful/docdiagram/internal/transform"
)

// Filter processes pandoc documents against a shared render cache.
type Filter struct {
	cache   *rendercache.Cache
	formats transform.FormatTable
	opts    transform.Options
}

// New returns a filter. opts.Format is ignored; the image format comes from formats
// and the target passed to Run.
func New(cache *rendercache.Cache, formats transform.FormatTable, opts transform.Options) *Filter {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Filter{cache: cache, formats: formats, opts: opts}
}

// Run reads one document from in, transforms it for target and writes it to out.
func (f *Filter) Run(ctx context.Context, in io.Reader, out io.Writer, target string) (transform.Stats, error) {
	doc, err := pandoc.Decode(in)
	if err != nil {
		return transform.Stats{}, ferrors.DocumentError("cannot read pandoc document").WithCause(err).
			Build()
	}

	opts := f.opts
	opts.Format = f.formats.For(target)
	run := transform.NewRun(f.cache, opts)
	f.opts.Logger.Debug("Filtering document",
		slog.String("target", target),
		logfields.Format(run.Format()))

	pandoc.Filter(doc, func(e pandoc.Element) ([]any, bool) {
		if err := ctx.Err(); err != nil {
			return nil, false
		}
		if cb, ok := e.CodeBlock(); ok {
			block := toBlock(cb)
			if run.IsDiagram(block) {
				return toPandoc(run.Diagram(ctx, block)), true
			}
		}
		run.Harvest(e.Identifier())
		return nil, false
	})
	if err := ctx.Err(); err != nil {
		return run.Stats(), err
	}

	if err := pandoc.Encode(out, doc); err != nil {
		return run.Stats(), ferrors.DocumentError("cannot write pandoc document").WithCause(err).
			Build()
	}
	return run.Stats(), nil
}

func toBlock(cb pandoc.CodeBlock) diagram.Block {
	var attrs diagram.Attributes
	for _, kv := range cb.Attr.Attributes {
		attrs = append(attrs, diagram.KeyValue{Key: kv.Key, Value: kv.Value})
	}
	return diagram.Block{
		Source:     cb.Text,
		ID:         cb.Attr.ID,
		Classes:    cb.Attr.Classes,
		Attributes: attrs,
	}
}

func toPandoc(elements []diagram.Element) []any {
	out := make([]any, 0, len(elements))
	for _, el := range elements {
		switch el := el.(type) {
		case *diagram.Header:
			out = append(out, pandoc.Header(el.Level, pandoc.Attr{ID: el.ID}, []any{pandoc.Str(el.Title)}))
		case *diagram.Figure:
			var caption []any
			if el.Caption != "" {
				caption = []any{pandoc.Str(el.Caption)}
			}
			attr := pandoc.Attr{ID: el.ID}
			for _, kv := range el.Attributes {
				attr.Attributes = append(attr.Attributes, pandoc.KeyValue{Key: kv.Key, Value: kv.Value})
			}
			image := pandoc.Image(attr, caption, el.Source, el.Title())
			out = append(out, pandoc.Para([]any{image}))
		}
	}
	return out
}
