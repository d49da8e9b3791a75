// metrics — Prometheus-коллекторы сервиса: HTTP, новостной апстрим, хранилище, события.
// Все методы безопасны для nil-получателя (метрики отключены).
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "newspulse"

// Значения метки status для не-HTTP операций.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	StorageOps       *prometheus.CounterVec
	StorageDuration  *prometheus.HistogramVec
	EventsPublished  *prometheus.CounterVec
}

// New регистрирует коллекторы в reg (prometheus.DefaultRegisterer в main, отдельный реестр в тестах).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of news provider requests",
		}, []string{"endpoint", "status"}),

		UpstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "News provider request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),

		StorageOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_operations_total",
			Help:      "Total number of bookmark storage operations",
		}, []string{"operation", "status"}),

		StorageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "storage_operation_duration_seconds",
			Help:      "Bookmark storage operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),

		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of bookmark events published",
		}, []string{"type", "status"}),
	}
}

func statusOf(err error) string {
	if err != nil {
		return StatusError
	}

	return StatusOK
}

// ObserveHTTP учитывает обработанный HTTP-запрос. route — шаблон chi, а не сырой путь.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}

	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveUpstream учитывает вызов новостного провайдера.
func (m *Metrics) ObserveUpstream(endpoint string, err error, d time.Duration) {
	if m == nil {
		return
	}

	m.UpstreamRequests.WithLabelValues(endpoint, statusOf(err)).Inc()
	m.UpstreamDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveStorage учитывает операцию хранилища.
func (m *Metrics) ObserveStorage(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}

	m.StorageOps.WithLabelValues(operation, statusOf(err)).Inc()
	m.StorageDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// EventPublished учитывает попытку публикации события.
func (m *Metrics) EventPublished(eventType string, err error) {
	if m == nil {
		return
	}

	m.EventsPublished.WithLabelValues(eventType, statusOf(err)).Inc()
}
