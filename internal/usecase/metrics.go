package usecase

import "github.com/wekeepgrowing/semo-fleet/internal/domain/entity"

// NopMetrics discards observations.
type NopMetrics struct{}

func (NopMetrics) ObserveComplianceEvaluation(string, int, []*entity.ComplianceIssue) {}
func (NopMetrics) ObserveAlerts([]*entity.PerformanceAlert) {}
