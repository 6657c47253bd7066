// Package metrics implements featureconfig.MetricsRecorder on top of
// Prometheus counters, promoting github.com/prometheus/client_golang from a
// direct-but-unexercised dependency in the pack into an actual metrics
// surface for the selection engine's cache and expansion calls.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder is a prometheus-backed featureconfig.MetricsRecorder. Register
// it with a prometheus.Registerer (typically prometheus.DefaultRegisterer)
// before wiring it into featureconfig.Build via featureconfig.WithMetrics.
type Recorder struct {
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	expansions  *prometheus.CounterVec
}

// New builds a Recorder and registers its collectors with reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ccfeatures",
			Subsystem: "selection",
			Name:      "cache_hits_total",
			Help:      "Number of feature selections served from the selection cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ccfeatures",
			Subsystem: "selection",
			Name:      "cache_misses_total",
			Help:      "Number of feature selections that required running the selection algorithm.",
		}),
		expansions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ccfeatures",
			Subsystem: "expand",
			Name:      "calls_total",
			Help:      "Number of expansion calls, labeled by kind (command_line, environment, artifact_name).",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{r.cacheHits, r.cacheMisses, r.expansions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// CacheHit implements featureconfig.MetricsRecorder.
func (r *Recorder) CacheHit() { r.cacheHits.Inc() }

// CacheMiss implements featureconfig.MetricsRecorder.
func (r *Recorder) CacheMiss() { r.cacheMisses.Inc() }

// Expansion implements featureconfig.MetricsRecorder.
func (r *Recorder) Expansion(kind string) { r.expansions.WithLabelValues(kind).Inc() }
