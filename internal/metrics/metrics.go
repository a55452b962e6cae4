// Package metrics holds the planner's Prometheus collectors on a private registry.
package metrics

import (
	"net/http"

	inframetrics "github.com/barjames/funeral-planner/infrastructure/metrics"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every planner metric.
const Namespace = "planner"

// Metrics is the planner's collector set.
type Metrics struct {
	registry *prometheus.Registry

	HTTP *inframetrics.HTTPMetrics

	ContentCreated     *prometheus.CounterVec
	ContentDeleted     *prometheus.CounterVec
	DocumentsGenerated prometheus.Counter
	DocumentItems      prometheus.Histogram
}

// New creates a registry with process and Go runtime collectors plus the planner metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTP:     inframetrics.NewHTTPMetrics(reg, Namespace),
		ContentCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "content_created_total",
				Help:      "Items created, by category",
			},
			[]string{"category"},
		),
		ContentDeleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "content_deleted_total",
				Help:      "Items deleted, by category",
			},
			[]string{"category"},
		),
		DocumentsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "documents_generated_total",
			Help:      "Service plan documents generated",
		}),
		DocumentItems: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "document_items",
			Help:      "Items included per generated document",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// OnCreated counts a created item.
func (m *Metrics) OnCreated(cat models.Category) {
	m.ContentCreated.WithLabelValues(cat.Key).Inc()
}

// OnDeleted counts a deleted item.
func (m *Metrics) OnDeleted(cat models.Category) {
	m.ContentDeleted.WithLabelValues(cat.Key).Inc()
}

// ObserveDocument records a generated document with n items.
func (m *Metrics) ObserveDocument(n int) {
	m.DocumentsGenerated.Inc()
	m.DocumentItems.Observe(float64(n))
}

// Lifecycle adapts m to the content service's event hooks.
func (m *Metrics) Lifecycle() *LifecycleRecorder {
	return &LifecycleRecorder{m: m}
}

// LifecycleRecorder counts content lifecycle events.
type LifecycleRecorder struct {
	m *Metrics
}

// ContentCreated implements service.EventPublisher.
func (r *LifecycleRecorder) ContentCreated(cat models.Category, _ models.ContentItem) {
	r.m.OnCreated(cat)
}

// ContentDeleted implements service.EventPublisher.
func (r *LifecycleRecorder) ContentDeleted(cat models.Category, _ string) {
	r.m.OnDeleted(cat)
}
