package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/usecase"
)

// RegisterRoutes mounts the fleet API on g. g is expected to be behind the JWT middleware.
func RegisterRoutes(g *echo.Group, logger *zap.Logger, uc *usecase.UseCases, now func() time.Time) {
	complianceHandler := NewComplianceHandler(logger.Named("compliance_handler"), uc.Compliance, uc.DriverHours, now)
	performanceHandler := NewPerformanceHandler(logger.Named("performance_handler"), uc.Metrics, uc.Performance, now)
	auditHandler := NewAuditHandler(logger.Named("audit_handler"), uc.Audit)

	compliance := g.Group("/compliance")
	compliance.GET("/status", complianceHandler.GetStatus)
	compliance.GET("/report", complianceHandler.GetReport)
	compliance.POST("/check", complianceHandler.RunCheck)
	compliance.GET("/issues", complianceHandler.ListIssues)
	compliance.PUT("/issues/:id", complianceHandler.UpdateIssue)
	compliance.GET("/driver-hours", complianceHandler.AllDriverHours)
	compliance.GET("/driver-hours/:driverId", complianceHandler.DriverHours)

	performance := g.Group("/performance")
	performance.GET("/driver/:driverId", performanceHandler.DriverMetrics)
	performance.GET("/driver/:driverId/trends", performanceHandler.DriverTrends)
	performance.GET("/rankings", performanceHandler.Rankings)
	performance.GET("/alerts", performanceHandler.Alerts)
	performance.GET("/team", performanceHandler.Team)
	performance.GET("/compare", performanceHandler.Compare)

	audit := g.Group("/audit")
	audit.POST("/log", auditHandler.Append)
	audit.GET("/logs", auditHandler.List)
	audit.GET("/entity/:entity/:entityId", auditHandler.History)
}
