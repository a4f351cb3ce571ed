package transform

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docdiagram/internal/diagram"
	"git.home.luguber.info/inful/docdiagram/internal/fingerprint"
	"git.home.luguber.info/inful/docdiagram/internal/rendercache"
	"git.home.luguber.info/inful/docdiagram/internal/renderer"
)

// fixtureRenderer writes a file per page suffix and counts invocations.
func fixtureRenderer(calls *int, suffixes ...string) renderer.Renderer {
	return renderer.Func(func(_ context.Context, sourcePath, format string) error {
		*calls++
		stem := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
		for _, s := range suffixes {
			if err := os.WriteFile(stem+s+"."+format, []byte("img"), 0o600); err != nil {
				return err
			}
		}
		return nil
	})
}

func TestRun_SingleDiagramScenario(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	cache := rendercache.New(dir, fixtureRenderer(&calls, ""))
	block := diagram.Block{Source: "A->B", ID: "seq1", Classes: []string{"plantuml"}}

	run := NewRun(cache, Options{Format: "png"})
	require.True(t, run.IsDiagram(block))
	first := run.Diagram(context.Background(), block)

	require.Len(t, first, 1)
	fig := first[0].(*diagram.Figure)
	assert.Equal(t, "seq1", fig.ID)
	assert.Equal(t, filepath.Join(dir, string(fingerprint.Of("A->B"))+".png"), fig.Source)
	assert.False(t, fig.Captioned)
	assert.Equal(t, 1, calls)

	// A new document run against the unchanged cache directory.
	again := NewRun(cache, Options{Format: "png"}).Diagram(context.Background(), block)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, again)
}

func TestRun_TwoPageScenario(t *testing.T) {
	calls := 0
	cache := rendercache.New(t.TempDir(), fixtureRenderer(&calls, "", "_1"))
	block := diagram.Block{
		Source:     "A->B\nnewpage\nB->A",
		ID:         "seq2",
		Classes:    []string{"plantuml"},
		Attributes: diagram.Attributes{{Key: "caption_1", Value: "Part A"}},
	}

	out := NewRun(cache, Options{}).Diagram(context.Background(), block)

	require.Len(t, out, 2)
	first := out[0].(*diagram.Figure)
	second := out[1].(*diagram.Figure)
	assert.Equal(t, "seq2", first.ID)
	assert.Empty(t, first.Caption)
	assert.Equal(t, "seq2_1", second.ID)
	assert.Equal(t, "Part A", second.Caption)
	assert.Equal(t, diagram.FigureMarker, second.Title())
}

func TestRun_HarvestedIdentifiersAreProtected(t *testing.T) {
	calls := 0
	cache := rendercache.New(t.TempDir(), fixtureRenderer(&calls, ""))
	run := NewRun(cache, Options{})
	run.Harvest("Overview")
	run.Harvest("")

	out := run.Diagram(context.Background(), diagram.Block{
		Source:     "A->B",
		Classes:    []string{"plantuml"},
		Attributes: diagram.Attributes{{Key: "header", Value: "2,Overview"}},
	})

	require.Len(t, out, 2)
	assert.Equal(t, "Overview-1", out[0].(*diagram.Header).ID)
	assert.True(t, run.Registry().Contains("Overview"))
}

func TestRun_RegistryIsPerRun(t *testing.T) {
	calls := 0
	cache := rendercache.New(t.TempDir(), fixtureRenderer(&calls, ""))
	first := NewRun(cache, Options{})
	first.Harvest("intro")

	second := NewRun(cache, Options{})

	assert.False(t, second.Registry().Contains("intro"))
}

func TestRun_FailedRenderDropsBlock(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	failing := renderer.Func(func(context.Context, string, string) error {
		return errors.New("exit status 1")
	})
	run := NewRun(rendercache.New(t.TempDir(), failing), Options{Logger: logger})

	out := run.Diagram(context.Background(), diagram.Block{Source: "bad", ID: "x", Classes: []string{"plantuml"}})

	assert.Empty(t, out)
	assert.Equal(t, Stats{Diagrams: 1, Failed: 1, Dropped: 1}, run.Stats())
	assert.Contains(t, logs.String(), "diagram rendering failed")
	assert.Contains(t, logs.String(), "block removed")
}

func TestRun_IsDiagramCustomClass(t *testing.T) {
	run := NewRun(rendercache.New(t.TempDir(), nil), Options{Class: "uml"})

	assert.True(t, run.IsDiagram(diagram.Block{Classes: []string{"uml"}}))
	assert.False(t, run.IsDiagram(diagram.Block{Classes: []string{"plantuml"}}))
}

func TestRun_HasherSelectsFileNames(t *testing.T) {
	calls := 0
	dir := t.TempDir()
	run := NewRun(rendercache.New(dir, fixtureRenderer(&calls, "")), Options{
		Hasher: fingerprint.NewHasher(fingerprint.SHA256),
		Format: "svg",
	})

	out := run.Diagram(context.Background(), diagram.Block{Source: "A->B", Classes: []string{"plantuml"}})

	require.Len(t, out, 1)
	want := filepath.Join(dir, string(fingerprint.NewHasher(fingerprint.SHA256).Of("A->B"))+".svg")
	assert.Equal(t, want, out[0].(*diagram.Figure).Source)
	assert.Equal(t, "svg", run.Format())
}

func TestFormatTable(t *testing.T) {
	table := DefaultFormatTable()

	assert.Equal(t, "svg", table.For("html"))
	assert.Equal(t, "eps", table.For("latex"))
	assert.Equal(t, "png", table.For("docx"))
	assert.Equal(t, "png", table.For(""))

	custom := FormatTable{Targets: map[string]string{"html5": "svg"}, Default: "pdf"}
	assert.Equal(t, "svg", custom.For("html5"))
	assert.Equal(t, "pdf", custom.For("html"))

	assert.Equal(t, DefaultImageFormat, FormatTable{}.For("html"))
}
