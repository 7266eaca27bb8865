package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ClaimsTotal          = promauto.NewCounter(prometheus.CounterOpts{Namespace: "foodbridge", Name: "claims_total", Help: "Successful listing claims"})
	ClaimConflictsTotal  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "foodbridge", Name: "claim_conflicts_total", Help: "Claims refused because the listing was no longer available"})
	ListingsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "foodbridge", Name: "listings_expired_total", Help: "Listings moved to expired by the sweeper"})
	NotificationsTotal   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "foodbridge", Name: "notifications_total", Help: "Notification records created"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "foodbridge", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foodbridge",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
