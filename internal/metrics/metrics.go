// Package metrics exposes watcher counters and gauges to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vadiminshakov/obwatch/internal/domain"
)

const namespace = "obwatch"

// Metrics collectors updated once per tick.
type Metrics struct {
	TicksTotal        *prometheus.CounterVec
	TickFailuresTotal *prometheus.CounterVec
	BidPct            prometheus.Gauge
	AskPct            prometheus.Gauge
	Accumulating      prometheus.Gauge
	TickDuration      prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "ticks_total", Help: "Evaluated ticks by emitted action"},
			[]string{"action"},
		),
		TickFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "tick_failures_total", Help: "Failed ticks by error kind"},
			[]string{"kind"},
		),
		BidPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "bid_pct", Help: "Share of smoothed order book volume on the bid side",
		}),
		AskPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "ask_pct", Help: "Share of smoothed order book volume on the ask side",
		}),
		Accumulating: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "accumulating", Help: "1 when the latest history point is in an accumulation phase",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "tick_duration_seconds", Help: "Wall time of one tick",
			Buckets: prometheus.DefBuckets,
		}),
		gatherer: reg,
	}

	reg.MustRegister(m.TicksTotal, m.TickFailuresTotal, m.BidPct, m.AskPct, m.Accumulating, m.TickDuration)
	return m
}

// ObserveSignal records a successful tick.
func (m *Metrics) ObserveSignal(sig domain.Signal, took time.Duration) {
	m.TicksTotal.WithLabelValues(sig.Action.String()).Inc()
	m.BidPct.Set(sig.BidPct)
	m.AskPct.Set(sig.AskPct)
	if sig.IsAccumulating {
		m.Accumulating.Set(1)
	} else {
		m.Accumulating.Set(0)
	}
	m.TickDuration.Observe(took.Seconds())
}

// ObserveFailure records a failed tick under the kind of err.
func (m *Metrics) ObserveFailure(err error, took time.Duration) {
	m.TickFailuresTotal.WithLabelValues(domain.ErrorKind(err)).Inc()
	m.TickDuration.Observe(took.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
