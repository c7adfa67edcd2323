// Package metrics exports compliance and performance observations to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

const namespace = "fleet"

// PrometheusRecorder implements the use case MetricsRecorder port.
type PrometheusRecorder struct {
	gatherer prometheus.Gatherer

	complianceScore *prometheus.GaugeVec
	complianceRuns  prometheus.Counter
	openIssues      *prometheus.GaugeVec
	alertsGenerated *prometheus.CounterVec
}

// NewPrometheusRecorder registers the fleet collectors on reg.
func NewPrometheusRecorder(reg *prometheus.Registry) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		gatherer: reg,
		complianceScore: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "compliance",
			Name:      "score",
			Help:      "Latest compliance score per owner.",
		}, []string{"owner_id"}),
		complianceRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "compliance",
			Name:      "evaluations_total",
			Help:      "Number of completed compliance evaluations.",
		}),
		openIssues: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "compliance",
			Name:      "active_issues",
			Help:      "Open or in-progress issues per owner and severity after the latest evaluation.",
		}, []string{"owner_id", "severity"}),
		alertsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "performance",
			Name:      "alerts_total",
			Help:      "Performance alerts generated, by type and severity.",
		}, []string{"alert_type", "severity"}),
	}
}

func (r *PrometheusRecorder) ObserveComplianceEvaluation(ownerID string, score int, issues []*entity.ComplianceIssue) {
	r.complianceRuns.Inc()
	r.complianceScore.WithLabelValues(ownerID).Set(float64(score))

	counts := make(map[entity.Severity]int, len(entity.Severities))
	for _, issue := range issues {
		if issue.Status.Active() {
			counts[issue.Severity]++
		}
	}
	for _, s := range entity.Severities {
		r.openIssues.WithLabelValues(ownerID, string(s)).Set(float64(counts[s]))
	}
}

func (r *PrometheusRecorder) ObserveAlerts(alerts []*entity.PerformanceAlert) {
	for _, a := range alerts {
		r.alertsGenerated.WithLabelValues(string(a.AlertType), string(a.Severity)).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
