package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	UploadsTotal      *prometheus.CounterVec
	UploadErrors      *prometheus.CounterVec
	Resolutions       prometheus.Counter
	NoRouteResolution prometheus.Counter
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	ProcessingTime    *prometheus.HistogramVec
}

// NewMetrics creates new prometheus metrics registered on reg.
// Pass prometheus.DefaultRegisterer to expose them through promhttp.Handler.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "The total number of accepted file uploads",
		}, []string{"kind"}),
		UploadErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_errors_total",
			Help:      "The total number of rejected file uploads",
		}, []string{"kind", "reason"}),
		Resolutions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "The total number of product id resolutions",
		}),
		NoRouteResolution: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_no_routes_total",
			Help:      "Resolutions whose product id matched no route",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregation_cache_hits_total",
			Help:      "Aggregations served from cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregation_cache_misses_total",
			Help:      "Aggregations computed because the cache had no entry",
		}),
		ProcessingTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "processing_time_seconds",
			Help:      "Time taken by core operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}
