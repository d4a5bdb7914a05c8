package content

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var txResolution = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "filter_content_resolve_tx",
	Help: "Content transaction resolutions",
}, []string{"resolver", "status"})

var txResolutionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "filter_content_resolve_tx_duration",
	Help:    "Time to resolve a content transaction",
	Buckets: prometheus.ExponentialBucketsRange(0.0001, 30, 20),
}, []string{"resolver"})

var txCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "filter_content_tx_cache_hits",
	Help: "Number of cache hits for content transaction metadata",
})

var txCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "filter_content_tx_cache_misses",
	Help: "Number of cache misses for content transaction metadata",
})

var txRequestsCoalesced = promauto.NewCounter(prometheus.CounterOpts{
	Name: "filter_content_tx_requests_coalesced",
	Help: "Number of content transaction requests coalesced",
})

var dataCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "filter_content_data_cache_hits",
	Help: "Number of cache hits for content bodies",
})

var dataCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "filter_content_data_cache_misses",
	Help: "Number of cache misses for content bodies",
})
