package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/betahouse/listings/internal/domain/search/filter"
	"github.com/betahouse/listings/internal/domain/search/sortkey"
)

// Domain Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of listing searches",
		},
		[]string{"sort", "text", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Count plus page fetch duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"sort"},
	)

	SearchMatches = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_matches",
			Help:      "Total matches per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	SearchConstraints = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_constraints",
			Help:      "Field constraints per compiled predicate",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8},
		},
	)

	ImageUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_uploads_total",
			Help:      "Total number of image objects written",
		},
		[]string{"status"},
	)

	ImageUploadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "image_upload_duration_seconds",
			Help:      "Object store write duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ImageUploadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_upload_bytes_total",
			Help:      "Bytes written to the object store",
		},
	)

	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"driver"},
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers search, upload and rate limit metrics. Call once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		SearchRequestsTotal, SearchDuration, SearchMatches, SearchConstraints,
		ImageUploadsTotal, ImageUploadDuration, ImageUploadBytes,
		RateLimitedTotal,
	)
	domainMetricsRegistered = true
}

// SearchObserver records one sample per executed search.
type SearchObserver struct{}

// ObserveSearch implements usecase/search.Observer.
func (SearchObserver) ObserveSearch(
	pred filter.Predicate, key sortkey.Key, total int64, took time.Duration, err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}
	text := "false"
	if pred.HasText() {
		text = "true"
	}

	SearchRequestsTotal.WithLabelValues(string(key), text, status).Inc()
	SearchDuration.WithLabelValues(string(key)).Observe(took.Seconds())
	SearchConstraints.Observe(float64(len(pred.Constraints())))
	if err == nil {
		SearchMatches.Observe(float64(total))
	}
}
