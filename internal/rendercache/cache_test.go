package rendercache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docdiagram/internal/fingerprint"
	ferrors "git.home.luguber.info/inful/docdiagram/internal/foundation/errors"
	"git.home.luguber.info/inful/docdiagram/internal/metrics"
	"git.home.luguber.info/inful/docdiagram/internal/renderer"
)

// fakeRenderer writes one file per suffix next to the source file.
type fakeRenderer struct {
	calls    int
	suffixes []string
	err      error
}

func (f *fakeRenderer) Render(_ context.Context, sourcePath, format string) error {
	f.calls++
	stem := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
	for _, s := range f.suffixes {
		if err := os.WriteFile(stem+s+"."+format, []byte("img"), 0o600); err != nil {
			return err
		}
	}
	return f.err
}

type countingRecorder struct {
	metrics.NoopRecorder
	hits, misses int
	outcomes     []metrics.RenderOutcome
}

func (r *countingRecorder) IncCacheResult(res metrics.CacheResult) {
	if res == metrics.CacheHit {
		r.hits++
	} else {
		r.misses++
	}
}

func (r *countingRecorder) ObserveRender(_ time.Duration, o metrics.RenderOutcome) {
	r.outcomes = append(r.outcomes, o)
}

func TestEnsure_MissRendersAndDiscovers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plantuml-images")
	fr := &fakeRenderer{suffixes: []string{""}}
	c := New(dir, fr)
	fp := fingerprint.Of("A->B")

	artifacts, err := c.Ensure(context.Background(), fp, "A->B", "png")

	require.NoError(t, err)
	assert.Equal(t, 1, fr.calls)
	require.Len(t, artifacts, 1)
	assert.Equal(t, Artifact{
		Fingerprint: fp,
		Suffix:      "",
		Format:      "png",
		Path:        filepath.Join(dir, string(fp)+".png"),
	}, artifacts[0])

	src, err := os.ReadFile(c.SourcePath(fp))
	require.NoError(t, err)
	assert.Equal(t, "@startuml\nA->B\n@enduml\n", string(src))
}

func TestEnsure_HitSkipsRenderer(t *testing.T) {
	fr := &fakeRenderer{suffixes: []string{""}}
	rec := &countingRecorder{}
	c := New(t.TempDir(), fr, WithRecorder(rec))
	fp := fingerprint.Of("A->B")

	first, err := c.Ensure(context.Background(), fp, "A->B", "png")
	require.NoError(t, err)
	second, err := c.Ensure(context.Background(), fp, "A->B", "png")
	require.NoError(t, err)

	assert.Equal(t, 1, fr.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 1, rec.misses)
	assert.Equal(t, []metrics.RenderOutcome{metrics.RenderSuccess}, rec.outcomes)
}

func TestEnsure_FormatIsPartOfTheKey(t *testing.T) {
	fr := &fakeRenderer{suffixes: []string{""}}
	c := New(t.TempDir(), fr)
	fp := fingerprint.Of("A->B")

	_, err := c.Ensure(context.Background(), fp, "A->B", "png")
	require.NoError(t, err)
	svg, err := c.Ensure(context.Background(), fp, "A->B", "svg")
	require.NoError(t, err)

	assert.Equal(t, 2, fr.calls)
	require.Len(t, svg, 1)
	assert.Equal(t, "svg", svg[0].Format)
}

func TestEnsure_MultiPageOrdered(t *testing.T) {
	fr := &fakeRenderer{suffixes: []string{"_002", "", "_001"}}
	c := New(t.TempDir(), fr)
	fp := fingerprint.Of("page1\nnewpage\npage2")

	artifacts, err := c.Ensure(context.Background(), fp, "page1\nnewpage\npage2", "png")

	require.NoError(t, err)
	require.Len(t, artifacts, 3)
	assert.Equal(t, "", artifacts[0].Suffix)
	assert.Equal(t, "_001", artifacts[1].Suffix)
	assert.Equal(t, "_002", artifacts[2].Suffix)

	again, err := c.Discover(fp, "png")
	require.NoError(t, err)
	assert.Equal(t, artifacts, again)
}

func TestEnsure_RendererFailureIsAdvisory(t *testing.T) {
	fr := &fakeRenderer{err: errors.New("exit status 1")}
	rec := &countingRecorder{}
	c := New(t.TempDir(), fr, WithRecorder(rec))
	fp := fingerprint.Of("broken")

	artifacts, err := c.Ensure(context.Background(), fp, "broken", "png")

	assert.Empty(t, artifacts)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryRender))
	assert.Equal(t, ferrors.SeverityWarning, ferrors.GetSeverity(err))
	assert.Equal(t, []metrics.RenderOutcome{metrics.RenderFailed}, rec.outcomes)
}

func TestEnsure_RendererFailureKeepsPartialOutput(t *testing.T) {
	fr := &fakeRenderer{suffixes: []string{""}, err: errors.New("exit status 1")}
	c := New(t.TempDir(), fr)
	fp := fingerprint.Of("partial")

	artifacts, err := c.Ensure(context.Background(), fp, "partial", "png")

	require.Error(t, err)
	assert.Len(t, artifacts, 1)
}

func TestEnsure_NoOutputReported(t *testing.T) {
	fr := &fakeRenderer{}
	rec := &countingRecorder{}
	c := New(t.TempDir(), fr, WithRecorder(rec))

	artifacts, err := c.Ensure(context.Background(), fingerprint.Of("x"), "x", "png")

	assert.Empty(t, artifacts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no output")
	assert.Equal(t, []metrics.RenderOutcome{metrics.RenderEmpty}, rec.outcomes)
}

func TestEnsure_ExistingDirectoryIsFine(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o600))
	c := New(dir, &fakeRenderer{suffixes: []string{""}})

	artifacts, err := c.Ensure(context.Background(), fingerprint.Of("A"), "A", "png")

	require.NoError(t, err)
	assert.Len(t, artifacts, 1)
	assert.FileExists(t, filepath.Join(dir, "unrelated.txt"))
}

func TestEnsure_UnwritableDirectory(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	fr := &fakeRenderer{suffixes: []string{""}}
	c := New(filepath.Join(blocker, "cache"), fr)

	artifacts, err := c.Ensure(context.Background(), fingerprint.Of("A"), "A", "png")

	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
	assert.Empty(t, artifacts)
	assert.Equal(t, 0, fr.calls)
}

func TestEnsure_SourceWithStartMarkerKeptVerbatim(t *testing.T) {
	c := New(t.TempDir(), &fakeRenderer{suffixes: []string{""}})
	text := "@startuml\nA->B\n@enduml"
	fp := fingerprint.Of(text)

	_, err := c.Ensure(context.Background(), fp, text, "svg")
	require.NoError(t, err)

	src, err := os.ReadFile(c.SourcePath(fp))
	require.NoError(t, err)
	assert.Equal(t, text, string(src))
}

func TestEnsure_CustomSourceFormat(t *testing.T) {
	sf := renderer.SourceFormat{Ext: "puml", StartPrefix: "@start", Begin: "@startuml\n", End: "\n@enduml\n"}
	c := New(t.TempDir(), &fakeRenderer{suffixes: []string{""}}, WithSourceFormat(sf))
	fp := fingerprint.Of("A")

	_, err := c.Ensure(context.Background(), fp, "A", "png")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(c.SourcePath(fp), ".puml"))
	assert.FileExists(t, c.SourcePath(fp))
}

func TestDiscover_FiltersByFingerprintAndFormat(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	fp := fingerprint.Fingerprint("abc")
	for _, name := range []string{"abc.png", "abc_001.png", "abc.svg", "abc.uml", "abd.png", "xabc.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "abc_dir.png"), 0o755))

	artifacts, err := c.Discover(fp, "png")

	require.NoError(t, err)
	var names []string
	for _, a := range artifacts {
		names = append(names, a.Name())
	}
	assert.Equal(t, []string{"abc.png", "abc_001.png"}, names)
}

func TestDiscover_MissingDirectory(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "missing"), nil)

	artifacts, err := c.Discover("abc", "png")

	require.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestHas(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc_001.png"), []byte("x"), 0o600))

	assert.False(t, c.Has("abc", "png"), "only the unsuffixed file marks a hit")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc.png"), []byte("x"), 0o600))
	assert.True(t, c.Has("abc", "png"))
	assert.False(t, c.Has("abc", "svg"))
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	for _, name := range []string{"bbb.uml", "bbb.svg", "aaa.uml", "aaa.png", "aaa_001.png", "orphan.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	entries, err := c.List()

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, fingerprint.Fingerprint("aaa"), entries[0].Fingerprint)
	assert.Equal(t, []string{filepath.Join(dir, "aaa.png"), filepath.Join(dir, "aaa_001.png")}, entries[0].Artifacts)
	assert.Equal(t, fingerprint.Fingerprint("bbb"), entries[1].Fingerprint)
	assert.Equal(t, []string{filepath.Join(dir, "bbb.svg")}, entries[1].Artifacts)
}

func TestNew_DefaultDir(t *testing.T) {
	assert.Equal(t, DefaultDir, New("", nil).Dir())
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	for _, name := range []string{"aaa.uml", "aaa.png", "bbb.uml", "bbb.png", "bbb_1.png", "bbb.svg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	keep := map[fingerprint.Fingerprint]bool{"aaa": true}

	planned, err := c.Prune(context.Background(), keep, true)
	require.NoError(t, err)
	require.Len(t, planned, 1)
	assert.Equal(t, fingerprint.Fingerprint("bbb"), planned[0].Fingerprint)
	assert.FileExists(t, filepath.Join(dir, "bbb.uml"), "dry run keeps files")

	removed, err := c.Prune(context.Background(), keep, false)
	require.NoError(t, err)
	require.Len(t, removed, 1)

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range left {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"aaa.png", "aaa.uml"}, names)
}
