package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	AnalysisRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "item_analysis_runs_total",
			Help: "Item analysis runs by outcome",
		},
		[]string{"outcome"},
	)

	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "item_analysis_duration_seconds",
			Help:    "Duration of a single item analysis run",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	AnalyzedResponses = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "item_analysis_responses_analyzed",
			Help:    "Number of responses taken into one analysis run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AnalysisRuns)
		prometheus.MustRegister(AnalysisDuration)
		prometheus.MustRegister(AnalyzedResponses)
	})
}

// ObserveAnalysis 记录一次分析的结果
func ObserveAnalysis(outcome string, start time.Time, responses int) {
	AnalysisRuns.WithLabelValues(outcome).Inc()
	AnalysisDuration.Observe(time.Since(start).Seconds())
	if outcome == "ok" {
		AnalyzedResponses.Observe(float64(responses))
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
