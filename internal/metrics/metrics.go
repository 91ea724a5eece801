// Package metrics exposes Prometheus instruments for the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics holds every instrument. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	StoreDuration *prometheus.HistogramVec
	StoreFailures *prometheus.CounterVec

	Registrations *prometheus.CounterVec
	Logins        *prometheus.CounterVec
	NapfaTests    *prometheus.CounterVec
	BadgesAwarded *prometheus.CounterVec
	PointsAwarded prometheus.Counter
	Verifications *prometheus.CounterVec
	EmailsSent    *prometheus.CounterVec
}

// New registers all instruments on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "schoolfit_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "schoolfit_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: durationBuckets,
		}, []string{"route"}),
		StoreDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "schoolfit_store_operation_duration_seconds",
			Help:    "Duration of user document loads and saves",
			Buckets: durationBuckets,
		}, []string{"operation"}),
		StoreFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "schoolfit_store_failures_total",
			Help: "Failed user document loads and saves",
		}, []string{"operation"}),
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "schoolfit_registrations_total",
			Help: "Accounts created by role",
		}, []string{"role"}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "schoolfit_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		NapfaTests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "schoolfit_napfa_tests_total",
			Help: "Recorded NAPFA tests by medal",
		}, []string{"medal"}),
		BadgesAwarded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "schoolfit_badges_awarded_total",
			Help: "Badges awarded by badge key",
		}, []string{"badge"}),
		PointsAwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "schoolfit_points_awarded_total",
			Help: "Gamification points awarded",
		}),
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "schoolfit_workout_verifications_total",
			Help: "Workout form checks by verdict",
		}, []string{"verdict"}),
		EmailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "schoolfit_emails_total",
			Help: "Outgoing emails by kind and result",
		}, []string{"kind", "result"}),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, route string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// ObserveStore records a store load or save
func (m *Metrics) ObserveStore(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.StoreDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		m.StoreFailures.WithLabelValues(operation).Inc()
	}
}

// IncRegistration counts a new account
func (m *Metrics) IncRegistration(role string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(role).Inc()
}

// IncLogin counts a login attempt; result is success or failure
func (m *Metrics) IncLogin(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

// IncNapfaTest counts a recorded test
func (m *Metrics) IncNapfaTest(medal string) {
	if m == nil {
		return
	}
	m.NapfaTests.WithLabelValues(medal).Inc()
}

// AddAward counts awarded points and badges
func (m *Metrics) AddAward(points int, badgeKeys []string) {
	if m == nil {
		return
	}
	if points > 0 {
		m.PointsAwarded.Add(float64(points))
	}
	for _, key := range badgeKeys {
		m.BadgesAwarded.WithLabelValues(key).Inc()
	}
}

// IncVerification counts a form check verdict
func (m *Metrics) IncVerification(verdict string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(verdict).Inc()
}

// IncEmail counts an email send attempt
func (m *Metrics) IncEmail(kind string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.EmailsSent.WithLabelValues(kind, result).Inc()
}
