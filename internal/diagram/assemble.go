package diagram

import (
	"log/slog"

	"git.home.luguber.info/inful/docdiagram/internal/ident"
	"git.home.luguber.info/inful/docdiagram/internal/logfields"
	"git.home.luguber.info/inful/docdiagram/internal/metrics"
	"git.home.luguber.info/inful/docdiagram/internal/rendercache"
)

// Attribute keys read from a diagram block. Per-page variants append the artifact
// suffix, e.g. caption_001.
const (
	CaptionKey = "caption"
	HeaderKey  = "header"
)

// Assembler turns rendered artifacts into output elements, assigning identifiers
// through a run-scoped registry.
type Assembler struct {
	registry *ident.Registry
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewAssembler returns an assembler that reserves identifiers in registry.
func NewAssembler(registry *ident.Registry, recorder metrics.Recorder, logger *slog.Logger) *Assembler {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{registry: registry, recorder: recorder, logger: logger}
}

// Assemble returns, for each artifact in order, an optional Header followed by a Figure.
//
// The first figure takes the block's identifier as is: the author chose it. Later
// figures get the block identifier plus the artifact suffix, resolved for collisions.
func (a *Assembler) Assemble(block Block, artifacts []rendercache.Artifact) []Element {
	out := make([]Element, 0, len(artifacts))
	for i, art := range artifacts {
		if h := a.header(block, art.Suffix); h != nil {
			out = append(out, h)
		}

		fig := &Figure{
			Source:     art.Path,
			Attributes: block.Attributes.Clone(),
		}
		if caption, ok := block.Attributes.Lookup(CaptionKey + art.Suffix); ok {
			fig.Caption = caption
			fig.Captioned = true
		}

		if i == 0 {
			fig.ID = block.ID
			a.registry.Register(block.ID)
		} else {
			fig.ID = a.reserve(block.ID + art.Suffix)
		}
		out = append(out, fig)
	}
	return out
}

func (a *Assembler) header(block Block, suffix string) *Header {
	value, ok := block.Attributes.Lookup(HeaderKey + suffix)
	if !ok || value == "" {
		return nil
	}
	level, title := ParseHeaderAttr(value)
	return &Header{
		Level: level,
		Title: title,
		ID:    a.reserve(HeaderIdentifier(title)),
	}
}

func (a *Assembler) reserve(candidate string) string {
	res := a.registry.Reserve(candidate)
	if !res.Collided() {
		return res.ID
	}
	a.recorder.IncIdentifierProbe(res.Exhausted)
	if res.Exhausted {
		a.logger.Warn("Identifier probes exhausted; emitting duplicate identifier",
			logfields.Identifier(res.ID),
			slog.String("candidate", candidate),
			slog.Int("probes", res.Probes))
	} else {
		a.logger.Debug("Identifier collision resolved",
			slog.String("candidate", candidate),
			logfields.Identifier(res.ID))
	}
	return res.ID
}
