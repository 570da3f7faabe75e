// Package metrics holds huddle's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "huddle"

type Metrics struct {
	MessagesIngested  prometheus.Counter
	IntentsAnalysed   *prometheus.CounterVec
	IntentConfidence  prometheus.Histogram
	MeetingsScheduled *prometheus.CounterVec
	NeedsInfo         prometheus.Counter
	StatusChanges     *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		MessagesIngested: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_ingested_total",
			Help:      "Chat messages stored.",
		}),
		IntentsAnalysed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_analysed_total",
			Help:      "Texts analysed for meeting intent, by outcome.",
		}, []string{"detected"}),
		IntentConfidence: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "intent_confidence",
			Help:      "Confidence of detected meeting intents.",
			Buckets:   []float64{0.3, 0.5, 0.6, 0.8, 1.0},
		}),
		MeetingsScheduled: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meetings_scheduled_total",
			Help:      "Meetings created from chat, by source.",
		}, []string{"source"}),
		NeedsInfo: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meetings_needs_info_total",
			Help:      "Scheduling attempts stopped for missing details.",
		}),
		StatusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meeting_status_changes_total",
			Help:      "Meeting status updates, by new status.",
		}, []string{"status"}),
	}
}

// ObserveIntent records one analysed text.
func (m *Metrics) ObserveIntent(detected bool, confidence float64) {
	if m == nil {
		return
	}
	if !detected {
		m.IntentsAnalysed.WithLabelValues("false").Inc()
		return
	}
	m.IntentsAnalysed.WithLabelValues("true").Inc()
	m.IntentConfidence.Observe(confidence)
}
