// Package metrics defines the Prometheus collectors for the analysis pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded for an analysis.
const (
	OutcomeSuccess = "success"
	OutcomeCached  = "cached"
	OutcomeFailed  = "failed"
)

// Metrics holds the pipeline collectors. A nil *Metrics records nothing.
type Metrics struct {
	analyses        *prometheus.CounterVec
	commentsFetched prometheus.Counter
	classifications *prometheus.CounterVec
	classifyLatency prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytemotion_analyses_total",
				Help: "Total number of analyses by chart type and outcome.",
			},
			[]string{"chart_type", "outcome"},
		),
		commentsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ytemotion_comments_fetched_total",
			Help: "Total number of comments fetched from YouTube.",
		}),
		classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ytemotion_classifications_total",
				Help: "Total number of classified comments by emotion.",
			},
			[]string{"emotion"},
		),
		classifyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ytemotion_classification_batch_duration_seconds",
			Help:    "Time spent classifying the comments of one analysis.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}

	for _, c := range []prometheus.Collector{m.analyses, m.commentsFetched, m.classifications, m.classifyLatency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveAnalysis counts one analysis.
func (m *Metrics) ObserveAnalysis(chartType, outcome string) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(chartType, outcome).Inc()
}

// AddComments counts fetched comments.
func (m *Metrics) AddComments(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.commentsFetched.Add(float64(n))
}

// ObserveClassification counts one classified comment.
func (m *Metrics) ObserveClassification(emotion string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(emotion).Inc()
}

// ObserveClassifyDuration records how long a batch took.
func (m *Metrics) ObserveClassifyDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.classifyLatency.Observe(d.Seconds())
}
