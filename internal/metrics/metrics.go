// Package metrics collects import metrics in a private Prometheus registry
// and pushes them to a Pushgateway at the end of a CLI run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"manuals-go/internal/manual"
	"manuals-go/internal/model"
)

// Collector implements manual.Recorder and holds per-run metrics.
type Collector struct {
	registry *prometheus.Registry

	// upsertsTotal counts importer upserts by entity and outcome.
	upsertsTotal *prometheus.CounterVec

	// operationDuration is the wall time of CLI operations.
	operationDuration *prometheus.HistogramVec

	// lastSuccess is the unix time of the last successful operation.
	lastSuccess *prometheus.GaugeVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		upsertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "manuals_import_upserts_total",
				Help: "Upserts issued by the manuals importer",
			},
			[]string{"entity", "outcome"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "manuals_operation_duration_seconds",
				Help:    "Duration of manuals CLI operations in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"operation", "status"},
		),
		lastSuccess: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "manuals_last_success_timestamp_seconds",
				Help: "Unix time of the last successful manuals CLI operation",
			},
			[]string{"operation"},
		),
	}
}

// RecordUpsert implements manual.Recorder.
func (c *Collector) RecordUpsert(entity string, outcome model.UpsertOutcome) {
	c.upsertsTotal.WithLabelValues(entity, outcome.String()).Inc()
}

// ObserveOperation records the duration of an operation that ended at finishedAt.
func (c *Collector) ObserveOperation(operation, status string, duration time.Duration, finishedAt time.Time) {
	c.operationDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
	if status == "success" {
		c.lastSuccess.WithLabelValues(operation).Set(float64(finishedAt.Unix()))
	}
}

// Registry exposes the underlying registry, mostly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Push sends every collected metric to the Pushgateway at url under job.
func (c *Collector) Push(url, job string) error {
	if err := push.New(url, job).Gatherer(c.registry).Push(); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}

var _ manual.Recorder = (*Collector)(nil)
