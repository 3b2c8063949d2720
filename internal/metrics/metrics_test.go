package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveAttempt("search", "empty")
	r.ObserveAttempt("search", "content")
	r.ObserveRetry("search", "empty", 2*time.Second)
	r.ObserveResult("search", "content")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.attempts.WithLabelValues("search", "empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.attempts.WithLabelValues("search", "content")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.retries.WithLabelValues("search", "empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.results.WithLabelValues("search", "content")))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveAttempt("fetch", "network_error")
		r.ObserveRetry("fetch", "network_error", time.Second)
		r.ObserveResult("fetch", "error")
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.ObserveResult("fetch", "empty")

	path := filepath.Join(t.TempDir(), "grok.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `grok_search_requests_total{operation="fetch",result="empty"} 1`)
}
