package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "achihouse",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status.",
		},
		[]string{"endpoint", "status"},
	)

	reservationSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "achihouse",
			Name:      "reservation_submissions_total",
			Help:      "Reservation submissions by outcome (accepted, rejected, duplicate).",
		},
		[]string{"outcome"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "achihouse",
			Name:      "notifications_total",
			Help:      "Notification deliveries by channel and result.",
		},
		[]string{"channel", "result"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, reservationSubmissions, notifications)
	})
}

// IncHTTP increments the request counter for an endpoint/status pair.
func IncHTTP(endpoint, status string) {
	httpRequests.WithLabelValues(endpoint, status).Inc()
}

// IncReservation increments the submission counter for an outcome label.
func IncReservation(outcome string) {
	reservationSubmissions.WithLabelValues(outcome).Inc()
}

// IncNotification increments the delivery counter for a channel/result pair.
func IncNotification(channel, result string) {
	notifications.WithLabelValues(channel, result).Inc()
}
