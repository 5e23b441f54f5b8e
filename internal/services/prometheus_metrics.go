package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	pipelineBatches        *prometheus.CounterVec
	pipelineDuration       prometheus.Histogram
	normalizedTransactions *prometheus.CounterVec
	deduplicatedTotal      prometheus.Counter
	dedupCacheSize         prometheus.Gauge
	transfersDetected      *prometheus.CounterVec
	transferDuration       prometheus.Histogram
	categorizeDuration     prometheus.Histogram
	multiBankAnalyses      prometheus.Counter
	multiBankDuration      prometheus.Histogram
	fxDegradedTotal        *prometheus.CounterVec
	budgetCoverage         *prometheus.GaugeVec
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		pipelineBatches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pipeline_batches_total",
				Help: "Total number of transaction batches processed",
			},
			[]string{"status"},
		),
		pipelineDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pipeline_batch_duration_milliseconds",
				Help:    "Full pipeline batch duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		normalizedTransactions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_normalized_total",
				Help: "Total number of transactions normalized",
			},
			[]string{"status"},
		),
		deduplicatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "transactions_deduplicated_total",
				Help: "Total number of transactions flagged as duplicates",
			},
		),
		dedupCacheSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "dedup_cache_size",
				Help: "Current number of hashes held in the deduplication cache",
			},
		),
		transfersDetected: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfers_detected_total",
				Help: "Total number of transfer pairs detected",
			},
			[]string{"kind"},
		),
		transferDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transfer_detection_duration_milliseconds",
				Help:    "Transfer detection pass duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		categorizeDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "categorize_batch_duration_milliseconds",
				Help:    "Categorization pass duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		multiBankAnalyses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "multibank_analyses_total",
				Help: "Total number of multi-bank analysis passes",
			},
		),
		multiBankDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "multibank_analysis_duration_milliseconds",
				Help:    "Multi-bank analysis duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		fxDegradedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fx_conversion_degraded_total",
				Help: "Total number of conversions that fell back to an identity rate",
			},
			[]string{"currency"},
		),
		budgetCoverage: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "budget_categorization_coverage",
				Help: "Fraction of period transactions with an assigned category",
			},
			[]string{"period"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "pipeline_batches":
		status := tags["status"]
		if status == "" {
			status = "completed"
		}
		m.pipelineBatches.WithLabelValues(status).Inc()
	case "transactions_normalized":
		status := tags["status"]
		if status == "" {
			status = "accepted"
		}
		m.normalizedTransactions.WithLabelValues(status).Inc()
	case "transactions_deduplicated":
		m.deduplicatedTotal.Inc()
	case "transfers_detected":
		kind := tags["kind"]
		if kind == "" {
			kind = "same_day"
		}
		m.transfersDetected.WithLabelValues(kind).Inc()
	case "multibank_analyses":
		m.multiBankAnalyses.Inc()
	case "fx_conversion_degraded":
		if currency := tags["currency"]; currency != "" {
			m.fxDegradedTotal.WithLabelValues(currency).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "pipeline_batch":
		m.pipelineDuration.Observe(float64(duration.Milliseconds()))
	case "transfer_detection":
		m.transferDuration.Observe(float64(duration.Milliseconds()))
	case "categorize_batch", "normalize_batch":
		m.categorizeDuration.Observe(float64(duration.Milliseconds()))
	case "multibank_analysis":
		m.multiBankDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "dedup_cache_size":
		m.dedupCacheSize.Set(value)
	case "budget_coverage":
		if period := tags["period"]; period != "" {
			m.budgetCoverage.WithLabelValues(period).Set(value)
		}
	}
}
