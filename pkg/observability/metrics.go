package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker/v2"
)

const namespace = "digibank"

// Relay results recorded on the outbox counter.
const (
	ResultPublished    = "published"
	ResultFailed       = "failed"
	ResultDeadLettered = "dead_lettered"
)

// Metrics holds the process-level Prometheus collectors. It satisfies the
// outbox processor's Observer and feeds the publisher breaker gauge.
type Metrics struct {
	outboxRelays      *prometheus.CounterVec
	breakerState      *prometheus.GaugeVec
	operationDuration *prometheus.HistogramVec
	operationErrors   *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		outboxRelays: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "relays_total",
			Help:      "Outbox relay attempts by routing key and result.",
		}, []string{"routing_key", "result"}),
		breakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "publisher",
			Name:      "breaker_state",
			Help:      "Publisher circuit breaker state (0 closed, 1 half-open, 2 open).",
		}, []string{"name"}),
		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of user-facing operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		operationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Operations that returned an error.",
		}, []string{"operation"}),
	}
}

func (m *Metrics) ObservePublished(routingKey string) {
	m.outboxRelays.WithLabelValues(routingKey, ResultPublished).Inc()
}

func (m *Metrics) ObserveFailed(routingKey string) {
	m.outboxRelays.WithLabelValues(routingKey, ResultFailed).Inc()
}

func (m *Metrics) ObserveDeadLettered(routingKey string) {
	m.outboxRelays.WithLabelValues(routingKey, ResultDeadLettered).Inc()
}

// ObserveBreakerState matches the breaker's OnStateChange callback.
func (m *Metrics) ObserveBreakerState(name string, _, to gobreaker.State) {
	m.breakerState.WithLabelValues(name).Set(float64(to))
}

// ObserveOperation records one operation run. Safe on a nil receiver so
// callers without a registry can pass nil.
func (m *Metrics) ObserveOperation(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.operationErrors.WithLabelValues(operation).Inc()
	}
}

// Handler exposes the gatherer in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
