package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/usecase"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase/interfaces"
	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

// PerformanceHandler handles /performance routes
type PerformanceHandler struct {
	logger      *zap.Logger
	metrics     interfaces.DriverMetricsUseCase
	performance interfaces.PerformanceUseCase
	now         func() time.Time
}

// NewPerformanceHandler creates a new performance handler instance
func NewPerformanceHandler(
	logger *zap.Logger,
	metrics interfaces.DriverMetricsUseCase,
	performance interfaces.PerformanceUseCase,
	now func() time.Time,
) *PerformanceHandler {
	if now == nil {
		now = time.Now
	}
	return &PerformanceHandler{
		logger:      logger,
		metrics:     metrics,
		performance: performance,
		now:         now,
	}
}

// DriverMetrics handles GET /performance/driver/:driverId
func (h *PerformanceHandler) DriverMetrics(c echo.Context) error {
	ownerID, from, to, err := h.scope(c)
	if err != nil {
		return err
	}

	metrics, err := h.metrics.Metrics(c.Request().Context(), ownerID, c.Param("driverId"), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, metrics)
}

// DriverTrends handles GET /performance/driver/:driverId/trends
func (h *PerformanceHandler) DriverTrends(c echo.Context) error {
	ownerID, from, to, err := h.scope(c)
	if err != nil {
		return err
	}

	points, err := h.performance.Trends(c.Request().Context(), ownerID, c.Param("driverId"), from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, points)
}

// Rankings handles GET /performance/rankings
func (h *PerformanceHandler) Rankings(c echo.Context) error {
	ownerID, from, to, err := h.scope(c)
	if err != nil {
		return err
	}

	limit, err := intParam(c, "limit", usecase.DefaultRankingLimit)
	if err != nil {
		return err
	}

	rankings, err := h.performance.Rankings(c.Request().Context(), ownerID, from, to, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rankings)
}

// Alerts handles GET /performance/alerts
func (h *PerformanceHandler) Alerts(c echo.Context) error {
	ownerID, from, to, err := h.scope(c)
	if err != nil {
		return err
	}

	alerts, err := h.performance.Alerts(c.Request().Context(), ownerID, from, to)
	if err != nil {
		return err
	}

	h.logger.Debug("Performance alerts generated",
		zap.String("owner_id", ownerID),
		zap.Int("alert_count", len(alerts)))

	return c.JSON(http.StatusOK, alerts)
}

// Team handles GET /performance/team
func (h *PerformanceHandler) Team(c echo.Context) error {
	ownerID, from, to, err := h.scope(c)
	if err != nil {
		return err
	}

	summary, err := h.performance.TeamSummary(c.Request().Context(), ownerID, from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// Compare handles GET /performance/compare
func (h *PerformanceHandler) Compare(c echo.Context) error {
	ownerID, from, to, err := h.scope(c)
	if err != nil {
		return err
	}

	driverA, driverB := c.QueryParam("driverA"), c.QueryParam("driverB")
	if driverA == "" || driverB == "" {
		return apperrors.InvalidArgument("driverA and driverB are required")
	}

	comparison, err := h.performance.Compare(c.Request().Context(), ownerID, driverA, driverB, from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comparison)
}

func (h *PerformanceHandler) scope(c echo.Context) (string, time.Time, time.Time, error) {
	ownerID, err := requireOwner(c)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	from, to, err := periodParams(c, h.now())
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	return ownerID, from, to, nil
}
