// Package metrics exports pipeline run statistics in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gcbaptista/go-tagger-eval/model"
)

// Collector records every run report it observes. It implements pipeline.Observer.
type Collector struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	partitionSize *prometheus.GaugeVec
	lengthDrift   *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry, so several engines (and
// tests) never collide on the global one.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tagger_eval_runs_total",
				Help: "Total number of trainer invocations by pipeline variant and status.",
			},
			[]string{"variant", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tagger_eval_run_duration_seconds",
				Help:    "Wall time of one load, split, train and evaluate iteration.",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
			},
			[]string{"variant"},
		),
		partitionSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tagger_eval_partition_sentences",
				Help: "Sentences per partition in the most recent run of a group.",
			},
			[]string{"group", "variant", "partition"},
		),
		lengthDrift: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tagger_eval_length_mismatch_total",
				Help: "Runs whose tagged corpus and gold reference differ in sentence count.",
			},
			[]string{"variant"},
		),
	}
	c.registry.MustRegister(c.runs, c.duration, c.partitionSize, c.lengthDrift)
	return c
}

// ObserveRun records one run report.
func (c *Collector) ObserveRun(r model.RunReport) {
	c.runs.WithLabelValues(r.Variant, string(r.Status)).Inc()
	c.duration.WithLabelValues(r.Variant).Observe(r.Duration.Seconds())
	if r.Status != model.RunStatusCompleted {
		return
	}
	if r.TaggedLen != r.GoldLen {
		c.lengthDrift.WithLabelValues(r.Variant).Inc()
	}
	c.partitionSize.WithLabelValues(r.Group, r.Variant, "train").Set(float64(r.Sizes.Train))
	c.partitionSize.WithLabelValues(r.Group, r.Variant, "dev").Set(float64(r.Sizes.Dev))
	c.partitionSize.WithLabelValues(r.Group, r.Variant, "test").Set(float64(r.Sizes.Test))
}

// Handler serves the collected metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
