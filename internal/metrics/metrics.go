package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type Metrics struct {
	Registry *prometheus.Registry

	Calculations     *prometheus.CounterVec
	CalculationTime  prometheus.Histogram
	UpstreamFetches  *prometheus.CounterVec
	UpstreamFetchDur prometheus.Histogram
	CacheLookups     *prometheus.CounterVec
	StoreFailures    *prometheus.CounterVec
	Subscribers      prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "albion",
			Name:      "attendance_calculations_total",
			Help:      "Attendance calculations by outcome.",
		}, []string{"outcome"}),
		CalculationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "albion",
			Name:      "attendance_calculation_seconds",
			Help:      "Time spent computing an attendance ranking.",
			Buckets:   prometheus.DefBuckets,
		}),
		UpstreamFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "albion",
			Name:      "upstream_fetches_total",
			Help:      "Battle-data fetches by outcome.",
		}, []string{"outcome"}),
		UpstreamFetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "albion",
			Name:      "upstream_fetch_seconds",
			Help:      "Battle-data fetch latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "albion",
			Name:      "battle_cache_lookups_total",
			Help:      "Battle cache lookups by result.",
		}, []string{"result"}),
		StoreFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "albion",
			Name:      "store_failures_total",
			Help:      "Statistics store operations that failed.",
		}, []string{"op"}),
		Subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "albion",
			Name:      "stream_subscribers",
			Help:      "Open attendance stream connections.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Calculations,
		m.CalculationTime,
		m.UpstreamFetches,
		m.UpstreamFetchDur,
		m.CacheLookups,
		m.StoreFailures,
		m.Subscribers,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

var Module = fx.Provide(New)
