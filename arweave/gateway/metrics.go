package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var gatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arweave_gateway_requests",
	Help: "Arweave gateway requests, by endpoint and HTTP status",
}, []string{"endpoint", "status"})

var gatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "arweave_gateway_request_duration",
	Help:    "Time to complete an Arweave gateway request",
	Buckets: prometheus.ExponentialBucketsRange(0.001, 30, 20),
}, []string{"endpoint"})
