package markdown

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/docdiagram/internal/diagram"
	ferrors "git.home.luguber.info/inful/docdiagram/internal/foundation/errors"
	"git.home.luguber.info/inful/docdiagram/internal/logfields"
	"git.home.luguber.info/inful/docdiagram/internal/rendercache"
	"git.home.luguber.info/inful/docdiagram/internal/transform"
)

// Rewriter replaces diagram fences in Markdown documents.
type Rewriter struct {
	cache  *rendercache.Cache
	opts   transform.Options
	md     goldmark.Markdown
	logger *slog.Logger
}

// NewRewriter returns a rewriter rendering into cache. opts.Format selects the image
// format for every document.
func NewRewriter(cache *rendercache.Cache, opts transform.Options) *Rewriter {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Rewriter{cache: cache, opts: opts, md: newMarkdown(), logger: opts.Logger}
}

// Rewrite returns source with every diagram fence replaced by its figures.
// Headings are harvested in document order, so generated identifiers avoid the
// identifiers of headings that precede them.
func (r *Rewriter) Rewrite(ctx context.Context, source []byte) ([]byte, transform.Stats, error) {
	run := transform.NewRun(r.cache, r.opts)
	root := parseBody(r.md, source)

	var edits []Edit
	err := gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if err := ctx.Err(); err != nil {
			return gmast.WalkStop, err
		}
		switch node := n.(type) {
		case *gmast.Heading:
			run.Harvest(headingID(node))
		case *gmast.FencedCodeBlock:
			f, ok := locateFence(node, source)
			if !ok {
				return gmast.WalkSkipChildren, nil
			}
			block, err := parseInfo(f.Info)
			if err != nil {
				r.logger.Warn("Ignoring fence with unreadable attributes",
					slog.String("info", f.Info),
					logfields.Error(err))
				return gmast.WalkSkipChildren, nil
			}
			block.Source = f.Text
			if !run.IsDiagram(block) {
				run.Harvest(block.ID)
				return gmast.WalkSkipChildren, nil
			}
			elements := run.Diagram(ctx, block)
			edits = append(edits, Edit{
				Start:       f.Start,
				End:         f.End,
				Replacement: []byte(renderElements(elements, f.continuationPrefix())),
			})
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	if err != nil {
		return nil, run.Stats(), err
	}

	out, err := ApplyEdits(source, edits)
	if err != nil {
		return nil, run.Stats(), ferrors.WrapError(err, ferrors.CategoryInternal, "cannot apply diagram edits").Build()
	}
	return out, run.Stats(), nil
}

// Diagrams returns the diagram blocks of source in document order without
// rendering them.
func (r *Rewriter) Diagrams(source []byte) []diagram.Block {
	class := r.opts.Class
	if class == "" {
		class = transform.DefaultDiagramClass
	}
	var blocks []diagram.Block
	_ = gmast.Walk(parseBody(r.md, source), func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		node, ok := n.(*gmast.FencedCodeBlock)
		if !entering || !ok {
			return gmast.WalkContinue, nil
		}
		if f, ok := locateFence(node, source); ok {
			if b, err := parseInfo(f.Info); err == nil && b.HasClass(class) {
				b.Source = f.Text
				blocks = append(blocks, b)
			}
		}
		return gmast.WalkSkipChildren, nil
	})
	return blocks
}

// RewriteFile rewrites the Markdown file at path and writes the result to outPath,
// or back to path when outPath is empty. An unchanged file is not rewritten in place.
func (r *Rewriter) RewriteFile(ctx context.Context, path, outPath string) (transform.Stats, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return transform.Stats{}, ferrors.FileSystemError("cannot read markdown file").WithCause(err).
			WithContext("path", path).
			Build()
	}

	out, stats, err := r.Rewrite(ctx, source)
	if err != nil {
		return stats, err
	}

	if outPath == "" {
		if bytes.Equal(out, source) {
			return stats, nil
		}
		outPath = path
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return stats, ferrors.FileSystemError("cannot create output directory").WithCause(err).
				WithContext("path", dir).
				Build()
		}
	}
	// #nosec G306 -- rewritten documents are ordinary readable files
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return stats, ferrors.FileSystemError("cannot write markdown file").WithCause(err).
			WithContext("path", outPath).
			Build()
	}
	r.logger.Info("Rewrote document",
		logfields.Path(outPath),
		slog.Int("diagrams", stats.Diagrams),
		slog.Int("artifacts", stats.Artifacts))
	return stats, nil
}
