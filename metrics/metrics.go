// Package metrics holds the Prometheus collectors for the price poller
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pricelog"

// Fetch results recorded in the result label
const (
	ResultOK           = "ok"
	ResultNetworkError = "network_error"
	ResultParseError   = "parse_error"
	ResultError        = "error"
)

// Metrics bundles the collectors registered on one registry
type Metrics struct {
	Registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	lastPrice     *prometheus.GaugeVec
	appendErrors  prometheus.Counter
	cycles        prometheus.Counter
	cycleDuration prometheus.Histogram
}

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_total",
				Help:      "Total number of price fetches by asset and result.",
			},
			[]string{"asset", "result"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of price fetches.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
			},
			[]string{"asset"},
		),
		lastPrice: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_price",
				Help:      "Most recently recorded price by asset.",
			},
			[]string{"asset"},
		),
		appendErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "append_errors_total",
				Help:      "Total number of failed writes to the price file.",
			},
		),
		cycles: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cycles_total",
				Help:      "Total number of completed poll cycles.",
			},
		),
		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cycle_duration_seconds",
				Help:      "Duration of poll cycles, excluding the sleep.",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),
	}

	m.Registry.MustRegister(
		m.fetches,
		m.fetchDuration,
		m.lastPrice,
		m.appendErrors,
		m.cycles,
		m.cycleDuration,
	)

	return m
}

// RecordFetch records the outcome of one fetch
func (m *Metrics) RecordFetch(asset, result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(asset, result).Inc()
	m.fetchDuration.WithLabelValues(asset).Observe(duration.Seconds())
}

// RecordPrice stores the latest recorded price for asset
func (m *Metrics) RecordPrice(asset string, price float64) {
	if m == nil {
		return
	}
	m.lastPrice.WithLabelValues(asset).Set(price)
}

// RecordAppendError counts a failed write to the output file
func (m *Metrics) RecordAppendError() {
	if m == nil {
		return
	}
	m.appendErrors.Inc()
}

// RecordCycle counts a completed cycle
func (m *Metrics) RecordCycle(duration time.Duration) {
	if m == nil {
		return
	}
	m.cycles.Inc()
	m.cycleDuration.Observe(duration.Seconds())
}
