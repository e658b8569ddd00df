// Package metrics exposes Prometheus instrumentation for the engine. The
// registry is optional everywhere it is accepted: a nil *Registry is a
// no-op, so the pure engine paths stay usable without instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	gridEvaluations  prometheus.Counter
	windowsProcessed prometheus.Counter
	tradesSimulated  prometheus.Counter
	searchDuration   prometheus.Histogram
	oosPassRate      prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		gridEvaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grid_evaluations_total",
			Help: "Total number of parameter combinations evaluated",
		}),
		windowsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "walkforward_windows_total",
			Help: "Total number of walk-forward windows processed",
		}),
		tradesSimulated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trades_simulated_total",
			Help: "Total number of trades produced by simulation passes",
		}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "grid_search_duration_seconds",
			Help:    "Wall-clock duration of one per-window grid search",
			Buckets: prometheus.DefBuckets,
		}),
		oosPassRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "walkforward_oos_pass_rate",
			Help: "Out-of-sample pass rate of the most recent walk-forward run",
		}),
	}

	reg.MustRegister(r.gridEvaluations)
	reg.MustRegister(r.windowsProcessed)
	reg.MustRegister(r.tradesSimulated)
	reg.MustRegister(r.searchDuration)
	reg.MustRegister(r.oosPassRate)

	return r
}

// AddGridEvaluations records completed parameter-combination evaluations.
func (r *Registry) AddGridEvaluations(n int) {
	if r == nil {
		return
	}
	r.gridEvaluations.Add(float64(n))
}

// IncWindowsProcessed records one completed walk-forward window.
func (r *Registry) IncWindowsProcessed() {
	if r == nil {
		return
	}
	r.windowsProcessed.Inc()
}

// AddTradesSimulated records trades emitted by a simulation pass.
func (r *Registry) AddTradesSimulated(n int) {
	if r == nil {
		return
	}
	r.tradesSimulated.Add(float64(n))
}

// ObserveSearchDuration records one grid search's wall-clock seconds.
func (r *Registry) ObserveSearchDuration(seconds float64) {
	if r == nil {
		return
	}
	r.searchDuration.Observe(seconds)
}

// SetOOSPassRate records the pass rate of a finished walk-forward run.
func (r *Registry) SetOOSPassRate(rate float64) {
	if r == nil {
		return
	}
	r.oosPassRate.Set(rate)
}
