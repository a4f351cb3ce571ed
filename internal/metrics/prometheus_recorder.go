package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	registry       *prom.Registry
	diagrams       prom.Counter
	cacheResults   *prom.CounterVec
	renderDuration *prom.HistogramVec
	artifacts      prom.Counter
	probes         *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.diagrams = prom.NewCounter(prom.CounterOpts{
			Namespace: "docdiagram",
			Name:      "diagrams_total",
			Help:      "Diagram blocks encountered",
		})
		pr.cacheResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docdiagram",
			Name:      "cache_lookups_total",
			Help:      "Render cache lookups by result",
		}, []string{"result"})
		pr.renderDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docdiagram",
			Name:      "render_duration_seconds",
			Help:      "Duration of external renderer invocations",
			Buckets:   prom.DefBuckets,
		}, []string{"outcome"})
		pr.artifacts = prom.NewCounter(prom.CounterOpts{
			Namespace: "docdiagram",
			Name:      "artifacts_total",
			Help:      "Rendered artifacts spliced into documents",
		})
		pr.probes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docdiagram",
			Name:      "identifier_probes_total",
			Help:      "Identifier collisions resolved by suffix probing",
		}, []string{"exhausted"})
		reg.MustRegister(pr.diagrams, pr.cacheResults, pr.renderDuration, pr.artifacts, pr.probes)
	})
	return pr
}

// Registry returns the registry the collectors were registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

func (p *PrometheusRecorder) IncDiagrams() {
	if p == nil || p.diagrams == nil {
		return
	}
	p.diagrams.Inc()
}

func (p *PrometheusRecorder) IncCacheResult(result CacheResult) {
	if p == nil || p.cacheResults == nil {
		return
	}
	p.cacheResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRender(d time.Duration, outcome RenderOutcome) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddArtifacts(n int) {
	if p == nil || p.artifacts == nil || n <= 0 {
		return
	}
	p.artifacts.Add(float64(n))
}

func (p *PrometheusRecorder) IncIdentifierProbe(exhausted bool) {
	if p == nil || p.probes == nil {
		return
	}
	label := "false"
	if exhausted {
		label = "true"
	}
	p.probes.WithLabelValues(label).Inc()
}
