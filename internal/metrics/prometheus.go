package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docrender"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg           *prom.Registry
	phaseDuration *prom.HistogramVec
	pageDuration  *prom.HistogramVec
	lookups       *prom.CounterVec
	pages         *prom.CounterVec
	degraded      *prom.CounterVec
	workers       prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	p := &PrometheusRecorder{
		reg: reg,
		phaseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of build phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"}),
		pageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_duration_seconds",
			Help:      "Duration of translating one page",
			Buckets:   prom.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"kind"}),
		lookups: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "reference_lookups_total",
			Help:      "Reference lookups by source",
		}, []string{"source"}),
		pages: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Translated pages by render kind",
		}, []string{"kind"}),
		degraded: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_total",
			Help:      "Content that was dropped or degraded, by reason",
		}, []string{"reason"}),
		workers: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "workers",
			Help:      "Worker count of the last parallel phase",
		}),
	}
	reg.MustRegister(p.phaseDuration, p.pageDuration, p.lookups, p.pages, p.degraded, p.workers)
	return p
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObservePhaseDuration(phase Phase, d time.Duration) {
	if p == nil {
		return
	}
	p.phaseDuration.WithLabelValues(string(phase)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObservePageDuration(kind string, d time.Duration) {
	if p == nil {
		return
	}
	p.pageDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncReferenceLookup(source Source) {
	if p == nil {
		return
	}
	p.lookups.WithLabelValues(string(source)).Inc()
}

func (p *PrometheusRecorder) IncPage(kind string) {
	if p == nil {
		return
	}
	p.pages.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncDegraded(reason string) {
	if p == nil {
		return
	}
	p.degraded.WithLabelValues(reason).Inc()
}

func (p *PrometheusRecorder) SetWorkers(n int) {
	if p == nil {
		return
	}
	p.workers.Set(float64(n))
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format, for collection by a node exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
