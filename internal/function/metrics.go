package function

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts handled requests by result.
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "springs_requests_total",
		Help: "Total count-arrangements requests by result",
	}, []string{"result"})

	// recordsCounted counts records counted, by unfold factor.
	recordsCounted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "springs_records_counted_total",
		Help: "Total condition records counted by unfold factor",
	}, []string{"factor"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "springs_request_duration_seconds",
		Help:    "Count-arrangements request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 0.1ms to ~3s
	})
)
