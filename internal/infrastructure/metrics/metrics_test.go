package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.TextsProcessed("api", 3)
	m.TextsProcessed("api", 0)
	m.TransformationsApplied([]string{"trim", "remove_all_urls"}, 2)
	m.BuildError()
	m.CacheRequest(true)
	m.CacheRequest(false)
	m.CacheRequest(false)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.textsProcessed.WithLabelValues("api")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.applied.WithLabelValues("trim")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.applied.WithLabelValues("remove_all_urls")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.buildErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues(CacheHit)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues(CacheMiss)))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TextsProcessed("cli", 1)
		m.TransformationsApplied([]string{"trim"}, 1)
		m.BuildError()
		m.CacheRequest(true)
		m.ObserveDuration(time.Millisecond)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveDuration(2 * time.Millisecond)
	m.TextsProcessed("job", 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.True(t, strings.Contains(text, "textclean_process_duration_seconds_count 1"), text)
	assert.Contains(t, text, `textclean_texts_processed_total{source="job"} 1`)
}
