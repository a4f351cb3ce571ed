package metrics

import "time"

// CacheResult labels the outcome of a render cache lookup.
type CacheResult string

const (
	CacheHit  CacheResult = "hit"
	CacheMiss CacheResult = "miss"
)

// RenderOutcome labels how a renderer invocation ended.
type RenderOutcome string

const (
	RenderSuccess RenderOutcome = "success"
	RenderFailed  RenderOutcome = "failed"
	RenderEmpty   RenderOutcome = "empty" // exited cleanly but produced no artifact
)

// Recorder defines observability hooks for diagram processing.
type Recorder interface {
	IncDiagrams()
	IncCacheResult(result CacheResult)
	ObserveRender(d time.Duration, outcome RenderOutcome)
	AddArtifacts(n int)
	IncIdentifierProbe(exhausted bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncDiagrams()                               {}
func (NoopRecorder) IncCacheResult(CacheResult)                 {}
func (NoopRecorder) ObserveRender(time.Duration, RenderOutcome) {}
func (NoopRecorder) AddArtifacts(int)                           {}
func (NoopRecorder) IncIdentifierProbe(bool)                    {}
