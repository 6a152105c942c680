package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	optimizationCounter   *prometheus.CounterVec
	cacheEventCounter     *prometheus.CounterVec
	reductionHistogram    *prometheus.HistogramVec
	workerRunCounter      *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		optimizationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_optimizations_total",
			Help: "Settlement computations by strategy and outcome",
		}, []string{"strategy", "result"})

		cacheEventCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_cache_events_total",
			Help: "Result cache outcomes",
		}, []string{"outcome"})

		reductionHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "settlement_reduction_ratio",
			Help:    "Fraction of original debts eliminated by optimization",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}, []string{"strategy"})

		workerRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_runs_total",
			Help: "Background worker run outcomes",
		}, []string{"worker", "result"})

		prometheus.MustRegister(
			httpDurationHistogram,
			optimizationCounter,
			cacheEventCounter,
			reductionHistogram,
			workerRunCounter,
		)
	})
}

// ObserveHTTP records request latency for a route pattern.
func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

// ObserveOptimization counts one settlement computation.
func ObserveOptimization(strategy, result string) {
	if optimizationCounter == nil {
		return
	}
	optimizationCounter.WithLabelValues(strategy, result).Inc()
}

// ObserveCache counts a cache hit, miss, or degraded lookup.
func ObserveCache(outcome string) {
	if cacheEventCounter == nil {
		return
	}
	cacheEventCounter.WithLabelValues(outcome).Inc()
}

// ObserveReduction records how much of the original debt count a
// computation eliminated.
func ObserveReduction(strategy string, originalDebts, settlements int) {
	if reductionHistogram == nil || originalDebts == 0 {
		return
	}
	ratio := float64(originalDebts-settlements) / float64(originalDebts)
	reductionHistogram.WithLabelValues(strategy).Observe(ratio)
}

// ObserveWorkerRun counts a background worker run outcome.
func ObserveWorkerRun(worker, result string) {
	if workerRunCounter == nil {
		return
	}
	workerRunCounter.WithLabelValues(worker, result).Inc()
}
