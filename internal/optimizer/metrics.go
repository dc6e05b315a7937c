package optimizer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// optimizationDuration tracks the time taken for optimization calculations.
	optimizationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optimizer_calculation_duration_seconds",
		Help:    "Time taken for optimization calculation by type",
		Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1, 2, 5},
	}, []string{"type"}) // type: full, single_store, two_store

	// optimizationErrors tracks optimization errors.
	optimizationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_calculation_errors_total",
		Help: "Total number of optimization errors by type",
	}, []string{"type"})

	// basketSize tracks the distribution of basket sizes.
	basketSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_basket_items_count",
		Help:    "Number of items in optimization requests",
		Buckets: []float64{1, 5, 10, 20, 50, 100},
	})

	// candidateCount tracks the number of candidates per optimization stage.
	candidateCount = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "optimizer_candidates_count",
		Help:    "Number of candidates evaluated by stage",
		Buckets: []float64{1, 5, 10, 15, 20, 50, 100},
	}, []string{"type"}) // type: single, pair

	// coverageRatio tracks the coverage ratio of optimization results.
	coverageRatio = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_result_coverage_ratio",
		Help:    "Coverage ratio of the best single store result",
		Buckets: []float64{0.5, 0.7, 0.8, 0.9, 0.95, 1.0},
	})

	// pairGateResults tracks how often two store splits clear the savings gate.
	pairGateResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_pair_gate_total",
		Help: "Two store candidates by savings gate outcome",
	}, []string{"outcome"}) // outcome: passed, rejected

	// dealApplications tracks how often a deal beat the regular price.
	dealApplications = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optimizer_deal_applications_total",
		Help: "Total number of lines priced with a deal",
	})
)

// MetricsRecorder provides methods to record optimizer metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordOptimizationDuration records the duration of an optimization operation.
func (m *MetricsRecorder) RecordOptimizationDuration(optType string, duration time.Duration) {
	optimizationDuration.WithLabelValues(optType).Observe(duration.Seconds())
}

// RecordOptimizationError records a failed optimization operation.
func (m *MetricsRecorder) RecordOptimizationError(optType string) {
	optimizationErrors.WithLabelValues(optType).Inc()
}

// RecordBasketSize records the size of a basket.
func (m *MetricsRecorder) RecordBasketSize(size int) {
	basketSize.Observe(float64(size))
}

// RecordCandidateCount records the number of candidates for an optimization stage.
func (m *MetricsRecorder) RecordCandidateCount(optType string, count int) {
	candidateCount.WithLabelValues(optType).Observe(float64(count))
}

// RecordCoverage records the coverage ratio of the best single store result.
func (m *MetricsRecorder) RecordCoverage(ratio float64) {
	coverageRatio.Observe(ratio)
}

// RecordPairGate records whether a two store candidate cleared the savings gate.
func (m *MetricsRecorder) RecordPairGate(passed bool) {
	if passed {
		pairGateResults.WithLabelValues("passed").Inc()
	} else {
		pairGateResults.WithLabelValues("rejected").Inc()
	}
}

// RecordDealApplication records a line priced with a deal.
func (m *MetricsRecorder) RecordDealApplication() {
	dealApplications.Inc()
}
