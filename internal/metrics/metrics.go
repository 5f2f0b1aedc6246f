package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LoginsTotal counts login attempts by result (success, failure).
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogfeed_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	// RegistrationsTotal counts accounts created.
	RegistrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blogfeed_registrations_total",
			Help: "Accounts registered",
		},
	)

	// BlogsCreatedTotal counts blogs created.
	BlogsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "blogfeed_blogs_created_total",
			Help: "Blogs created",
		},
	)

	// DashboardTotal counts dashboard queries by result (hit, empty).
	DashboardTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogfeed_dashboard_requests_total",
			Help: "Dashboard queries by result",
		},
		[]string{"result"},
	)
)

var (
	idPathSegment = regexp.MustCompile(`/([0-9]+|[0-9a-fA-F]{24})(/|$)`)
	initOnce      sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, LoginsTotal, RegistrationsTotal, BlogsCreatedTotal, DashboardTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric and ObjectID path segments with {id}.
// E.g. /blogs/65f1c0ffee0000000000abcd -> /blogs/{id}, /users/role/42 -> /users/role/{id}.
func NormalizePath(path string) string {
	return idPathSegment.ReplaceAllString(path, "/{id}${2}")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLogin counts a login attempt.
func RecordLogin(ok bool) {
	if ok {
		LoginsTotal.WithLabelValues("success").Inc()
		return
	}
	LoginsTotal.WithLabelValues("failure").Inc()
}

func IncRegistrations() { RegistrationsTotal.Inc() }

func IncBlogsCreated() { BlogsCreatedTotal.Inc() }

// RecordDashboard counts a dashboard query; empty means no blog matched the page.
func RecordDashboard(empty bool) {
	if empty {
		DashboardTotal.WithLabelValues("empty").Inc()
		return
	}
	DashboardTotal.WithLabelValues("hit").Inc()
}
