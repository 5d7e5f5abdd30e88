package orrery

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors a viewer reports to. A nil *Metrics is valid and records nothing,
// so components can be used without metrics.
type Metrics struct {
	FramesTotal           prometheus.Counter
	ApproachState         prometheus.Gauge
	LabelsVisible         *prometheus.GaugeVec
	VisibilityEvalSeconds prometheus.Histogram
	BodyLoadSeconds       *prometheus.HistogramVec
	BodyLoadFailures      *prometheus.CounterVec
}

// NewMetrics creates the viewer's collectors and registers them with the Registerer given. If reg is nil, the collectors are
// created but not registered anywhere.
func NewMetrics(reg prometheus.Registerer) *Metrics {

	m := &Metrics{
		FramesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orrery_frames_total",
			Help: "Total number of frames driven.",
		}),
		ApproachState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orrery_approach_state",
			Help: "Camera approach state (0 = approaching, 1 = arrived).",
		}),
		LabelsVisible: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orrery_labels_visible",
			Help: "Number of location labels currently visible.",
		}, []string{"body"}),
		VisibilityEvalSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "orrery_visibility_eval_seconds",
			Help:    "Time spent evaluating label visibility per frame.",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		BodyLoadSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orrery_body_load_seconds",
			Help:    "Time taken to load a body's assets.",
			Buckets: prometheus.DefBuckets,
		}, []string{"body"}),
		BodyLoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orrery_body_load_failures_total",
			Help: "Total number of failed body loads.",
		}, []string{"body"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.FramesTotal,
			m.ApproachState,
			m.LabelsVisible,
			m.VisibilityEvalSeconds,
			m.BodyLoadSeconds,
			m.BodyLoadFailures,
		)
	}

	return m

}

func (m *Metrics) observeFrame(state ApproachState) {
	if m == nil {
		return
	}
	m.FramesTotal.Inc()
	if state == Arrived {
		m.ApproachState.Set(1)
	} else {
		m.ApproachState.Set(0)
	}
}

func (m *Metrics) observeVisibility(body string, stats VisibilityStats) {
	if m == nil {
		return
	}
	m.LabelsVisible.WithLabelValues(body).Set(float64(stats.Visible))
	m.VisibilityEvalSeconds.Observe(stats.Duration.Seconds())
}

func (m *Metrics) observeLoad(body string, took time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.BodyLoadFailures.WithLabelValues(body).Inc()
		return
	}
	m.BodyLoadSeconds.WithLabelValues(body).Observe(took.Seconds())
}
