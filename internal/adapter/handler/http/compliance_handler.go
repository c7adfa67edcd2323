package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase/interfaces"
	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

// ComplianceHandler handles /compliance routes
type ComplianceHandler struct {
	logger     *zap.Logger
	compliance interfaces.ComplianceUseCase
	hours      interfaces.DriverHoursUseCase
	now        func() time.Time
}

// NewComplianceHandler creates a new compliance handler instance
func NewComplianceHandler(
	logger *zap.Logger,
	compliance interfaces.ComplianceUseCase,
	hours interfaces.DriverHoursUseCase,
	now func() time.Time,
) *ComplianceHandler {
	if now == nil {
		now = time.Now
	}
	return &ComplianceHandler{
		logger:     logger,
		compliance: compliance,
		hours:      hours,
		now:        now,
	}
}

// GetStatus handles GET /compliance/status
func (h *ComplianceHandler) GetStatus(c echo.Context) error {
	ownerID, err := requireOwner(c)
	if err != nil {
		return err
	}

	status, err := h.compliance.GetStatus(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

// GetReport handles GET /compliance/report
func (h *ComplianceHandler) GetReport(c echo.Context) error {
	ownerID, err := requireOwner(c)
	if err != nil {
		return err
	}

	report, err := h.compliance.Report(c.Request().Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// RunCheck handles POST /compliance/check
func (h *ComplianceHandler) RunCheck(c echo.Context) error {
	ownerID, err := requireOwner(c)
	if err != nil {
		return err
	}

	status, err := h.compliance.RunAll(c.Request().Context(), ownerID, auth.ActorFrom(c))
	if err != nil {
		return err
	}

	h.logger.Info("Compliance check completed",
		zap.String("owner_id", ownerID),
		zap.Int("score", status.Score),
		zap.Int("issue_count", len(status.Issues)))

	return c.JSON(http.StatusOK, status)
}

// ListIssues handles GET /compliance/issues
func (h *ComplianceHandler) ListIssues(c echo.Context) error {
	ownerID, err := requireOwner(c)
	if err != nil {
		return err
	}

	filter, err := issueFilterParams(c)
	if err != nil {
		return err
	}

	issues, err := h.compliance.ListIssues(c.Request().Context(), ownerID, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, issues)
}

// UpdateIssue handles PUT /compliance/issues/:id
func (h *ComplianceHandler) UpdateIssue(c echo.Context) error {
	ownerID, err := requireOwner(c)
	if err != nil {
		return err
	}

	var req interfaces.IssueStatusUpdate
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidArgument("invalid request body")
	}

	issue, err := h.compliance.UpdateIssueStatus(c.Request().Context(), ownerID, c.Param("id"), req, auth.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, issue)
}

// AllDriverHours handles GET /compliance/driver-hours
func (h *ComplianceHandler) AllDriverHours(c echo.Context) error {
	ownerID, err := requireOwner(c)
	if err != nil {
		return err
	}

	ref, err := h.referenceDate(c)
	if err != nil {
		return err
	}

	details, err := h.hours.AllDrivers(c.Request().Context(), ownerID, ref)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

// DriverHours handles GET /compliance/driver-hours/:driverId
func (h *ComplianceHandler) DriverHours(c echo.Context) error {
	ownerID, err := requireOwner(c)
	if err != nil {
		return err
	}

	ref, err := h.referenceDate(c)
	if err != nil {
		return err
	}

	detail, err := h.hours.Detail(c.Request().Context(), ownerID, c.Param("driverId"), ref)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *ComplianceHandler) referenceDate(c echo.Context) (time.Time, error) {
	date, err := optionalTime(c, "date", false)
	if err != nil {
		return time.Time{}, err
	}
	if date == nil {
		return h.now(), nil
	}
	return *date, nil
}
