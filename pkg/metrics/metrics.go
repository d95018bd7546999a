package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrors      *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	// Доступность и напоминания
	AvailableTimesCount *prometheus.HistogramVec
	RemindersSent       *prometheus.CounterVec
	RemindersFailed     *prometheus.CounterVec
	RemindersSkipped    *prometheus.CounterVec
	ReminderRunDuration *prometheus.HistogramVec
}

// New регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBInUseConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBIdleConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		AvailableTimesCount: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "available_times_count",
			Help:        "Number of free start times returned per request",
			ConstLabels: constLabels,
			Buckets:     []float64{0, 1, 2, 5, 10, 15, 20, 30},
		}, []string{"master_id"}),
		RemindersSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminders_sent_total",
			Help:        "Reminders delivered to clients",
			ConstLabels: constLabels,
		}, []string{"channel"}),
		RemindersFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminders_failed_total",
			Help:        "Reminders that failed to deliver and will be retried",
			ConstLabels: constLabels,
		}, []string{"channel"}),
		RemindersSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "reminders_skipped_total",
			Help:        "Due reminders already claimed by another run",
			ConstLabels: constLabels,
		}, []string{"channel"}),
		ReminderRunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "reminder_run_duration_seconds",
			Help:        "Duration of one reminder job run",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"result"}),
	}
}

// ObserveAvailableTimes фиксирует количество свободных времен в ответе
func (m *Metrics) ObserveAvailableTimes(masterID int64, count int) {
	if m == nil {
		return
	}
	m.AvailableTimesCount.WithLabelValues(strconv.FormatInt(masterID, 10)).Observe(float64(count))
}

// ReminderSent увеличивает счетчик доставленных напоминаний
func (m *Metrics) ReminderSent(channel string) {
	if m == nil {
		return
	}
	m.RemindersSent.WithLabelValues(channel).Inc()
}

// ReminderFailed увеличивает счетчик неудачных отправок
func (m *Metrics) ReminderFailed(channel string) {
	if m == nil {
		return
	}
	m.RemindersFailed.WithLabelValues(channel).Inc()
}

// ReminderSkipped увеличивает счетчик пропущенных напоминаний
func (m *Metrics) ReminderSkipped(channel string) {
	if m == nil {
		return
	}
	m.RemindersSkipped.WithLabelValues(channel).Inc()
}

// ObserveReminderRun фиксирует длительность прогона напоминаний
func (m *Metrics) ObserveReminderRun(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ReminderRunDuration.WithLabelValues(result).Observe(duration.Seconds())
}
