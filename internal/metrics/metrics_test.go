package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	t.Parallel()

	reg := prom.NewRegistry()
	p := NewPrometheusRecorder(reg)
	p.ObservePhaseDuration(PhasePrecompute, 150*time.Millisecond)
	p.ObservePageDuration("symbol", 2*time.Millisecond)
	p.IncReferenceLookup(SourceCache)
	p.IncReferenceLookup(SourceCache)
	p.IncReferenceLookup(SourceRender)
	p.IncPage("symbol")
	p.IncDegraded("missing_asset")
	p.SetWorkers(4)

	assert.InDelta(t, 2, testutil.ToFloat64(p.lookups.WithLabelValues("cache")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.lookups.WithLabelValues("render")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.degraded.WithLabelValues("missing_asset")), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(p.workers), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	t.Parallel()

	p := NewPrometheusRecorder(nil)
	p.IncPage("article")

	path := filepath.Join(t.TempDir(), "docrender.prom")
	require.NoError(t, p.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `docrender_pages_total{kind="article"} 1`)
}

func TestOrNoop(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NoopRecorder{}, OrNoop(nil))
	p := NewPrometheusRecorder(nil)
	assert.Same(t, p, OrNoop(p))

	var nilRecorder *PrometheusRecorder
	assert.NotPanics(t, func() { nilRecorder.IncPage("symbol") })
}
