// Package metrics provides Prometheus metric collectors for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics contains Prometheus metrics for the collection analysis
// pipeline.
type PipelineMetrics struct {
	cardsLoadedTotal     prometheus.Counter
	cardsClassifiedTotal prometheus.Counter
	valuableCardsTotal   prometheus.Counter
	persistErrorsTotal   prometheus.Counter
	runDuration          prometheus.Histogram
}

// NewPipelineMetrics creates pipeline metrics and registers them with the
// given registry.
func NewPipelineMetrics(registry *prometheus.Registry) (*PipelineMetrics, error) {
	m := &PipelineMetrics{
		cardsLoadedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cardscout_cards_loaded_total",
			Help: "Total number of collection cards loaded from exports",
		}),
		cardsClassifiedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cardscout_cards_classified_total",
			Help: "Total number of cards that produced a classification result",
		}),
		valuableCardsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cardscout_valuable_cards_total",
			Help: "Total number of valuable card rows persisted",
		}),
		persistErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cardscout_persist_errors_total",
			Help: "Total number of per-row persistence failures",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cardscout_pipeline_run_duration_seconds",
			Help:    "Duration of full pipeline runs",
			Buckets: prometheus.DefBuckets,
		}),
	}

	collectors := []prometheus.Collector{
		m.cardsLoadedTotal,
		m.cardsClassifiedTotal,
		m.valuableCardsTotal,
		m.persistErrorsTotal,
		m.runDuration,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddCardsLoaded records loaded collection rows.
func (m *PipelineMetrics) AddCardsLoaded(n int) {
	if m == nil {
		return
	}
	m.cardsLoadedTotal.Add(float64(n))
}

// IncCardsClassified records one classified card.
func (m *PipelineMetrics) IncCardsClassified() {
	if m == nil {
		return
	}
	m.cardsClassifiedTotal.Inc()
}

// IncValuableCards records one persisted valuable card row.
func (m *PipelineMetrics) IncValuableCards() {
	if m == nil {
		return
	}
	m.valuableCardsTotal.Inc()
}

// IncPersistErrors records one per-row persistence failure.
func (m *PipelineMetrics) IncPersistErrors() {
	if m == nil {
		return
	}
	m.persistErrorsTotal.Inc()
}

// ObserveRunDuration records the duration of a full pipeline run.
func (m *PipelineMetrics) ObserveRunDuration(seconds float64) {
	if m == nil {
		return
	}
	m.runDuration.Observe(seconds)
}
