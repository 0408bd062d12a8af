// Package metrics counts bridge activity and writes it to a node-exporter
// textfile after every sequence. No HTTP endpoint is served.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Sequence kinds.
const (
	KindShutdown = "shutdown"
	KindWake     = "wake"
)

// Recorder owns a private registry.
type Recorder struct {
	registry *prometheus.Registry
	textfile string

	keyEvents        prometheus.Counter
	triggers         prometheus.Counter
	probeResults     *prometheus.CounterVec
	sequences        *prometheus.CounterVec
	actuatorFailures *prometheus.CounterVec
	sequenceDuration *prometheus.HistogramVec
}

// New registers the bridge metrics. An empty textfile disables Flush.
func New(textfile string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		textfile: textfile,
		keyEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "irwake_key_events_total",
			Help: "Key-down events read from the trigger device.",
		}),
		triggers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "irwake_triggers_total",
			Help: "Key-down events matching the trigger code.",
		}),
		probeResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "irwake_probe_results_total",
			Help: "Liveness probe outcomes.",
		}, []string{"alive"}),
		sequences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "irwake_sequences_total",
			Help: "Completed orchestration sequences by kind.",
		}, []string{"kind"}),
		actuatorFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "irwake_actuator_failures_total",
			Help: "Failed actuator calls by actuator.",
		}, []string{"actuator"}),
		sequenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "irwake_sequence_duration_seconds",
			Help:    "Wall time from trigger to the end of the sequence.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 15, 30, 60},
		}, []string{"kind"}),
	}
	r.registry.MustRegister(
		r.keyEvents, r.triggers, r.probeResults,
		r.sequences, r.actuatorFailures, r.sequenceDuration,
	)
	return r
}

func (r *Recorder) KeyEvent() { r.keyEvents.Inc() }

func (r *Recorder) Trigger() { r.triggers.Inc() }

func (r *Recorder) Probe(alive bool) {
	r.probeResults.WithLabelValues(strconv.FormatBool(alive)).Inc()
}

func (r *Recorder) ActuatorFailure(actuator string) {
	r.actuatorFailures.WithLabelValues(actuator).Inc()
}

func (r *Recorder) Sequence(kind string, d time.Duration) {
	r.sequences.WithLabelValues(kind).Inc()
	r.sequenceDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// Registry exposes the registry for tests and tooling.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Flush atomically rewrites the textfile.
func (r *Recorder) Flush() error {
	if r.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(r.textfile, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile %q: %w", r.textfile, err)
	}
	return nil
}
