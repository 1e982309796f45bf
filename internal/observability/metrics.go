package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	httpErrorsTotal     *prometheus.CounterVec
	submissionsTotal    *prometheus.CounterVec
	marksRecordedTotal  prometheus.Counter
	attendanceMarkTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors exported by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lab_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lab_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lab_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lab_submissions_total",
			Help: "Practical submission attempts by outcome.",
		}, []string{"result"})

		marksRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lab_marks_recorded_total",
			Help: "Number of marks created or updated by grading.",
		})

		attendanceMarkTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lab_attendance_marked_total",
			Help: "Attendance upserts by presence.",
		}, []string{"present"})

		prometheus.MustRegister(
			httpRequestsTotal, httpLatencySeconds, httpErrorsTotal,
			submissionsTotal, marksRecordedTotal, attendanceMarkTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Submissions counts submission attempts labelled accepted, resubmitted or rejected.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// MarksRecorded counts grading upserts.
func MarksRecorded() prometheus.Counter {
	RegisterMetrics()
	return marksRecordedTotal
}

// AttendanceMarked counts attendance upserts.
func AttendanceMarked() *prometheus.CounterVec {
	RegisterMetrics()
	return attendanceMarkTotal
}
