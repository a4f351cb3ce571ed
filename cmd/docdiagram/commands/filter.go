package commands

import (
	"context"
	"io"
	"os"

	"git.home.luguber.info/inful/docdiagram/internal/filter"
	"git.home.luguber.info/inful/docdiagram/internal/logfields"
)

// FilterCmd implements the pandoc filter, the default command.
type FilterCmd struct {
	Target string `arg:"" optional:"" help:"Target output format, as passed by pandoc (e.g. html, latex)"`

	in  io.Reader
	out io.Writer
}

// Run filters one pandoc document from stdin to stdout.
func (f *FilterCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	p, err := newPipeline(g, root)
	if err != nil {
		return err
	}
	defer p.flushMetrics()

	in, out := f.in, f.out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	flt := filter.New(p.cache, g.Config.FormatTable(), p.options)
	stats, err := flt.Run(ctx, in, out, f.Target)
	if err != nil {
		return err
	}
	logStats(g.Logger.With(logfields.Format(g.Config.FormatTable().For(f.Target))), "Filtered document", stats)
	return nil
}
