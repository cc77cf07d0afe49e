// pkg/metrics/metrics_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (temp dir) for textfile export
// PURPOSE: Test counters and textfile export

package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/packdrop/pkg/metrics"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := metrics.New()

	m.FileOutcome("installed")
	m.FileOutcome("installed")
	m.FileOutcome("skipped")
	m.BytesCopied(1000)
	m.BytesCopied(-5)
	m.DirCreated()
	m.StaleDeleted(3)
	m.Interrupted()
	m.RunFinished("success", 2*time.Second)

	count, err := promtest.GatherAndCount(m.Registry(), "packdrop_files_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per outcome")

	problems, err := promtest.GatherAndLint(m.Registry())
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.FileOutcome("installed")
		m.BytesCopied(10)
		m.DirCreated()
		m.Interrupted()
		m.StaleDeleted(1)
		m.RunFinished("failure", time.Second)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("/nowhere/metrics.prom"))
}

func TestWriteTextfile(t *testing.T) {
	m := metrics.New()
	m.FileOutcome("queued")
	m.BytesCopied(42)

	path := filepath.Join(t.TempDir(), "packdrop.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `packdrop_files_total{outcome="queued"} 1`)
	assert.Contains(t, string(data), "packdrop_bytes_copied_total 42")
}
