// Package telemetry exposes Prometheus metrics and OpenTelemetry spans for
// complaint triage. A nil *Provider is valid and records nothing, which is
// what most unit tests pass.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "complaint-triage"

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	Classifications        *prometheus.CounterVec
	ClassificationFallback prometheus.Counter
	ClassificationDuration prometheus.Histogram
	BatchSize              prometheus.Histogram

	CacheRequests *prometheus.CounterVec

	BackfillSaved  prometheus.Counter
	BackfillFailed prometheus.Counter
	PollerLag      prometheus.Histogram
	ActiveWorkers  prometheus.Gauge
}

// Provider bundles the tracer and metrics.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	gatherer prometheus.Gatherer
}

// NewProvider registers metrics on the default Prometheus registry. Call
// it once per process.
func NewProvider() *Provider {
	return NewProviderWithRegistry(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewProviderWithRegistry registers metrics on reg and serves them from g.
func NewProviderWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Provider {
	return &Provider{
		Tracer:   otel.Tracer(tracerName),
		Metrics:  initMetrics(promauto.With(reg)),
		gatherer: g,
	}
}

// Handler serves /metrics.
func (p *Provider) Handler() http.Handler {
	if p == nil || p.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

func initMetrics(f promauto.Factory) *Metrics {
	return &Metrics{
		Classifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_classifications_total",
			Help: "Complaints classified, by assigned priority and department",
		}, []string{"priority", "department"}),
		ClassificationFallback: f.NewCounter(prometheus.CounterOpts{
			Name: "triage_classification_fallbacks_total",
			Help: "Classifications that fell back to the default result after an internal failure",
		}),
		ClassificationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "triage_classification_duration_seconds",
			Help:    "Time to classify one complaint",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}),
		BatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "triage_batch_size",
			Help:    "Complaints per batch classification",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
		CacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "triage_cache_requests_total",
			Help: "Suggestion cache lookups by result",
		}, []string{"result"}),
		BackfillSaved: f.NewCounter(prometheus.CounterOpts{
			Name: "triage_backfill_saved_total",
			Help: "Stored complaints classified and written back by the processor",
		}),
		BackfillFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "triage_backfill_failed_total",
			Help: "Stored complaints whose classification could not be written back",
		}),
		PollerLag: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "triage_poller_lag_seconds",
			Help:    "Age of the oldest unclassified complaint at poll time",
			Buckets: []float64{1, 5, 15, 30, 60, 300, 900, 3600, 86400},
		}),
		ActiveWorkers: f.NewGauge(prometheus.GaugeOpts{
			Name: "triage_active_workers",
			Help: "Classification workers currently busy",
		}),
	}
}

// RecordClassification counts one classification.
func (p *Provider) RecordClassification(priority, department string, fallback bool, d time.Duration) {
	if p == nil {
		return
	}
	p.Metrics.Classifications.WithLabelValues(priority, department).Inc()
	p.Metrics.ClassificationDuration.Observe(d.Seconds())
	if fallback {
		p.Metrics.ClassificationFallback.Inc()
	}
}

// RecordBatch observes a batch size.
func (p *Provider) RecordBatch(size int) {
	if p == nil {
		return
	}
	p.Metrics.BatchSize.Observe(float64(size))
}

// RecordCache counts a cache lookup; result is CacheHit, CacheMiss or CacheError.
func (p *Provider) RecordCache(result string) {
	if p == nil {
		return
	}
	p.Metrics.CacheRequests.WithLabelValues(result).Inc()
}

// RecordBackfill counts write-back outcomes for one poll cycle.
func (p *Provider) RecordBackfill(saved, failed int) {
	if p == nil {
		return
	}
	p.Metrics.BackfillSaved.Add(float64(saved))
	p.Metrics.BackfillFailed.Add(float64(failed))
}

// RecordPollerLag observes how long the oldest pending complaint waited.
func (p *Provider) RecordPollerLag(lag time.Duration) {
	if p == nil || lag < 0 {
		return
	}
	p.Metrics.PollerLag.Observe(lag.Seconds())
}

// WorkerStarted and WorkerDone track busy workers.
func (p *Provider) WorkerStarted() {
	if p != nil {
		p.Metrics.ActiveWorkers.Inc()
	}
}

func (p *Provider) WorkerDone() {
	if p != nil {
		p.Metrics.ActiveWorkers.Dec()
	}
}

// StartSpan starts a span. With a nil Provider the global tracer is used,
// which is a no-op unless an SDK is installed.
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	if p != nil && p.Tracer != nil {
		tracer = p.Tracer
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
