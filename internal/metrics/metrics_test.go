package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := New("")

	r.KeyEvent()
	r.KeyEvent()
	r.Trigger()
	r.Probe(true)
	r.Probe(false)
	r.Probe(false)
	r.ActuatorFailure("serial")
	r.Sequence(KindWake, 2*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.keyEvents))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.triggers))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.probeResults.WithLabelValues("true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.probeResults.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.actuatorFailures.WithLabelValues("serial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sequences.WithLabelValues(KindWake)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.sequences.WithLabelValues(KindShutdown)))
}

func TestRecorder_FlushWritesTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "irwake.prom")
	r := New(path)
	r.Trigger()

	require.NoError(t, r.Flush())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "irwake_triggers_total 1"), string(b))
}

func TestRecorder_FlushDisabled(t *testing.T) {
	assert.NoError(t, New("").Flush())
}
