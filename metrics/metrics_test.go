package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveStage_IncrementsCallsAndErrors(t *testing.T) {
	m := New()
	m.ObserveStage(StageSearch, 0.05, false)
	m.ObserveStage(StageSearch, 0.10, true)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.stageCalls.WithLabelValues(StageSearch)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.stageErrors.WithLabelValues(StageSearch)))
}

func TestNilMetrics_MethodsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStage(StageAnswer, 1, true)
		m.IncQueries()
		m.IncTimeouts()
		m.AddChunksIndexed(3)
		m.IncSessionResume()
	})
}
