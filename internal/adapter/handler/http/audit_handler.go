package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	"github.com/wekeepgrowing/semo-fleet/internal/middleware/auth"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase/interfaces"
	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

// AuditHandler handles /audit routes
type AuditHandler struct {
	logger *zap.Logger
	audit  interfaces.AuditTrailUseCase
}

// NewAuditHandler creates a new audit handler instance
func NewAuditHandler(logger *zap.Logger, audit interfaces.AuditTrailUseCase) *AuditHandler {
	return &AuditHandler{logger: logger, audit: audit}
}

// Append handles POST /audit/log
func (h *AuditHandler) Append(c echo.Context) error {
	ownerID, err := requireOwner(c)
	if err != nil {
		return err
	}

	var input entity.AuditLogInput
	if err := c.Bind(&input); err != nil {
		return apperrors.InvalidArgument("invalid request body")
	}
	// the caller is the performer unless the body names one
	if input.PerformedBy == "" {
		actor := auth.ActorFrom(c)
		input.PerformedBy = actor.ID
		if input.PerformerName == nil {
			input.PerformerName = actor.Name
		}
	}

	entry, err := h.audit.Append(c.Request().Context(), ownerID, input)
	if err != nil {
		return err
	}

	h.logger.Debug("Audit entry appended",
		zap.String("owner_id", ownerID),
		zap.String("entry_id", entry.ID),
		zap.String("action", string(entry.Action)))

	return c.JSON(http.StatusCreated, entry)
}

// List handles GET /audit/logs
func (h *AuditHandler) List(c echo.Context) error {
	ownerID, err := requireOwner(c)
	if err != nil {
		return err
	}

	filter, err := auditFilterParams(c)
	if err != nil {
		return err
	}

	page, err := h.audit.Query(c.Request().Context(), ownerID, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// History handles GET /audit/entity/:entity/:entityId
func (h *AuditHandler) History(c echo.Context) error {
	ownerID, err := requireOwner(c)
	if err != nil {
		return err
	}

	kind, err := entityKindParam(c.Param("entity"))
	if err != nil {
		return err
	}

	entries, err := h.audit.History(c.Request().Context(), ownerID, kind, c.Param("entityId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
