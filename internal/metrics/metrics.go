// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records per-run pipeline counters on a private
// Prometheus registry. The registry is written next to the report as a
// node-exporter textfile (metrics.prom) instead of being served.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FileName is the textfile's name inside the output directory.
const FileName = "metrics.prom"

// Recorder holds one run's metrics. A nil *Recorder discards everything.
type Recorder struct {
	reg *prometheus.Registry

	itemsFetched     *prometheus.CounterVec
	itemsRejected    *prometheus.CounterVec
	itemsEmitted     *prometheus.GaugeVec
	duplicates       prometheus.Counter
	providerErrors   *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	enrichment       *prometheus.CounterVec
	runTimestamp     prometheus.Gauge
}

// NewRecorder returns a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		itemsFetched: f.NewCounterVec(prometheus.CounterOpts{
			Name: "last30days_items_fetched_total",
			Help: "Raw items returned by each provider.",
		}, []string{"platform"}),
		itemsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "last30days_items_rejected_total",
			Help: "Items dropped at normalization, by reason.",
		}, []string{"platform", "reason"}),
		itemsEmitted: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "last30days_items_emitted",
			Help: "Items in the emitted report.",
		}, []string{"platform"}),
		duplicates: f.NewCounter(prometheus.CounterOpts{
			Name: "last30days_duplicates_total",
			Help: "Items collapsed into a representative.",
		}),
		providerErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "last30days_provider_errors_total",
			Help: "Provider searches that failed.",
		}, []string{"platform"}),
		providerDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "last30days_provider_duration_seconds",
			Help:    "Wall time of each provider search.",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}, []string{"platform"}),
		enrichment: f.NewCounterVec(prometheus.CounterOpts{
			Name: "last30days_enrichment_total",
			Help: "Forum engagement fetches, by outcome.",
		}, []string{"outcome"}),
		runTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "last30days_run_timestamp_seconds",
			Help: "Unix time the run finished.",
		}),
	}
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

// ProviderDone records one provider search.
func (r *Recorder) ProviderDone(platform string, d time.Duration, fetched int, err error) {
	if r == nil {
		return
	}
	r.providerDuration.WithLabelValues(platform).Observe(d.Seconds())
	if err != nil {
		r.providerErrors.WithLabelValues(platform).Inc()
		return
	}
	r.itemsFetched.WithLabelValues(platform).Add(float64(fetched))
}

// Enriched records enrichment outcomes.
func (r *Recorder) Enriched(ok, failed int) {
	if r == nil {
		return
	}
	r.enrichment.WithLabelValues("verified").Add(float64(ok))
	r.enrichment.WithLabelValues("unknown").Add(float64(failed))
}

// Rejected records one normalization rejection.
func (r *Recorder) Rejected(platform, reason string) {
	if r == nil {
		return
	}
	r.itemsRejected.WithLabelValues(platform, reason).Inc()
}

// Deduplicated records n collapsed duplicates.
func (r *Recorder) Deduplicated(n int) {
	if r == nil {
		return
	}
	r.duplicates.Add(float64(n))
}

// Emitted sets the emitted item count for a platform and stamps the run.
func (r *Recorder) Emitted(platform string, n int, at time.Time) {
	if r == nil {
		return
	}
	r.itemsEmitted.WithLabelValues(platform).Set(float64(n))
	r.runTimestamp.Set(float64(at.Unix()))
}

// WriteTextfile writes the registry in the text exposition format to path.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry())
}
