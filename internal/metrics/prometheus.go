package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newslens_query_duration_seconds",
			Help:    "Answer pipeline duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"operation"},
	)

	QueryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newslens_query_total",
			Help: "Total number of questions answered",
		},
		[]string{"status"},
	)

	RetrievalResultsCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newslens_retrieval_results_count",
			Help:    "Number of evidence documents per retrieval",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		},
	)

	SynthesisFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newslens_synthesis_fallback_total",
			Help: "Total synthesis calls resolved by a fallback answer",
		},
		[]string{"reason"},
	)

	RegenerationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "newslens_regenerations_total",
			Help: "Total answer regenerations",
		},
	)

	FeedbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newslens_feedback_total",
			Help: "Total feedback submissions",
		},
		[]string{"rating"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newslens_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newslens_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)
)

func Init() {
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(QueryTotal)
	prometheus.MustRegister(RetrievalResultsCount)
	prometheus.MustRegister(SynthesisFallbackTotal)
	prometheus.MustRegister(RegenerationsTotal)
	prometheus.MustRegister(FeedbackTotal)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
