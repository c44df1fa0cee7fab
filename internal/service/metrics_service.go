package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reminder email outcomes used as metric labels.
const (
	EmailOutcomeSent    = "sent"
	EmailOutcomeFailed  = "failed"
	EmailOutcomeSkipped = "skipped"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	runActivities   prometheus.Gauge
	runReminders    prometheus.Gauge
	lastRunSuccess  prometheus.Gauge
	reminderEmails  *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rsvp_reminder_run_duration_seconds",
		Help:    "Duration of RSVP reminder runs",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"status"})

	runActivities := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rsvp_reminder_last_activities_checked",
		Help: "Activities inside the window on the last successful run",
	})

	runReminders := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rsvp_reminder_last_reminders",
		Help: "Reminders computed on the last successful run",
	})

	lastRunSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rsvp_reminder_last_success_timestamp_seconds",
		Help: "Unix time of the last successful reminder run",
	})

	reminderEmails := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rsvp_reminder_emails_total",
		Help: "Reminder email deliveries by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLookups, runDuration, runActivities, runReminders, lastRunSuccess, reminderEmails, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLookups:    cacheLookups,
		runDuration:     runDuration,
		runActivities:   runActivities,
		runReminders:    runReminders,
		lastRunSuccess:  lastRunSuccess,
		reminderEmails:  reminderEmails,
	}
}

// Registry exposes the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveReminderRun records the outcome of one reminder run.
func (m *MetricsService) ObserveReminderRun(duration time.Duration, activities, reminders int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.runDuration.WithLabelValues("error").Observe(duration.Seconds())
		return
	}
	m.runDuration.WithLabelValues("ok").Observe(duration.Seconds())
	m.runActivities.Set(float64(activities))
	m.runReminders.Set(float64(reminders))
	m.lastRunSuccess.SetToCurrentTime()
}

// RecordReminderEmail counts one delivery outcome.
func (m *MetricsService) RecordReminderEmail(outcome string) {
	if m == nil {
		return
	}
	m.reminderEmails.WithLabelValues(outcome).Inc()
}
