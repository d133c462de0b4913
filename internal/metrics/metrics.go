// Package metrics defines prometheus metrics to expose
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_api_request_duration_seconds",
			Help:    "Total time taken for requests in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60, 90, 120},
		},
		[]string{"path"},
	)

	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_api_request_count_total",
			Help: "Total number of requests processed",
		},
		[]string{"path", "status"},
	)

	ResponseCodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_api_status_code",
			Help: "Status Codes",
		},
		[]string{"path", "status_code"},
	)

	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_api_upstream_error_count",
			Help: "Generation service failures by category",
		},
		[]string{"code"},
	)

	TokenExchanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_api_token_exchange_total",
			Help: "Identity token exchanges performed",
		},
	)

	InflightRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_api_inflight_requests",
			Help: "Current Inflight Requests",
		},
	)

	GeneratedChars = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_api_generated_chars_total",
			Help: "Total characters of generated text returned to clients",
		},
	)
)
