package metricsvc

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
)

// PrometheusMetrics exports business events as prometheus counters.
type PrometheusMetrics struct {
	limitChecks    *prometheus.CounterVec
	progress       *prometheus.CounterVec
	equipmentMoves *prometheus.CounterVec
}

var _ core.Metrics = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics registers the counters on reg. Pass prometheus.DefaultRegisterer to expose them
// through promhttp.Handler().
func NewPrometheusMetrics(reg prometheus.Registerer, appName string) *PrometheusMetrics {
	constLabels := prometheus.Labels{"app": appName}
	m := &PrometheusMetrics{
		limitChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "coat_limit_checks_total",
				Help:        "Annual quota checks by check and outcome",
				ConstLabels: constLabels,
			},
			[]string{"check", "exceeded"},
		),
		progress: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "coat_custom_make_progress_total",
				Help:        "Custom make progress events by resulting status",
				ConstLabels: constLabels,
			},
			[]string{"status"},
		),
		equipmentMoves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "coat_equipment_assignments_total",
				Help:        "Equipment check-out and check-in attempts by outcome",
				ConstLabels: constLabels,
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.limitChecks, m.progress, m.equipmentMoves)
	return m
}

func (m *PrometheusMetrics) LimitChecked(kind string, exceeded bool) {
	m.limitChecks.WithLabelValues(kind, strconv.FormatBool(exceeded)).Inc()
}

func (m *PrometheusMetrics) ProgressRecorded(status string) {
	m.progress.WithLabelValues(status).Inc()
}

func (m *PrometheusMetrics) EquipmentAssigned(outcome string) {
	m.equipmentMoves.WithLabelValues(outcome).Inc()
}
