// Package metrics exposes observability hooks for precompute and conversion
// runs. The default recorder does nothing; the Prometheus recorder is wired
// in by the CLI when a metrics textfile is requested.
package metrics

import "time"

// Phase names a stage of a build.
type Phase string

const (
	PhasePrecompute Phase = "precompute"
	PhaseConvert    Phase = "convert"
)

// Source says where a page's reference came from during closure.
type Source string

const (
	SourceCache  Source = "cache"
	SourceRender Source = "render"
)

// Recorder receives build observations. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObservePhaseDuration(phase Phase, d time.Duration)
	ObservePageDuration(kind string, d time.Duration)
	IncReferenceLookup(source Source)
	IncPage(kind string)
	IncDegraded(reason string)
	SetWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(Phase, time.Duration) {}
func (NoopRecorder) ObservePageDuration(string, time.Duration) {}
func (NoopRecorder) IncReferenceLookup(Source)                 {}
func (NoopRecorder) IncPage(string)                            {}
func (NoopRecorder) IncDegraded(string)                        {}
func (NoopRecorder) SetWorkers(int)                            {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
