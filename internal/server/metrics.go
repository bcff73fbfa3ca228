package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recommendRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests received",
		},
	)

	recommendRequestsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_failed_total",
			Help: "Total number of failed recommendation requests",
		},
		[]string{"reason"},
	)

	recommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "recommend_request_duration_seconds",
			Help: "Duration of recommendation request handling in seconds",
		},
	)

	recommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendations_returned",
			Help:    "Number of recommendations returned per request",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)
)
