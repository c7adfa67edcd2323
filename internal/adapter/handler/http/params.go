package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	"github.com/wekeepgrowing/semo-fleet/internal/middleware/auth"
	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

// defaultPeriodDays is the look-back used when from/to are omitted.
const defaultPeriodDays = 30

const dateLayout = "2006-01-02"

// requireOwner reads the owner set by the JWT middleware.
func requireOwner(c echo.Context) (string, error) {
	ownerID, err := auth.OwnerID(c)
	if err != nil {
		return "", apperrors.NewAppError(apperrors.ErrUnauthenticated, "authentication required", err)
	}
	return ownerID, nil
}

// parseTime accepts RFC3339 or a plain date. A plain date as an upper bound covers the whole day.
func parseTime(raw string, upper bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func optionalTime(c echo.Context, name string, upper bool) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, err := parseTime(raw, upper)
	if err != nil {
		return nil, apperrors.InvalidArgument("invalid %s: expected RFC3339 or YYYY-MM-DD", name)
	}
	return &t, nil
}

// periodParams reads from/to, defaulting to the last 30 days ending now.
func periodParams(c echo.Context, now time.Time) (time.Time, time.Time, error) {
	from, err := optionalTime(c, "from", false)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := optionalTime(c, "to", true)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end := now
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -defaultPeriodDays)
	if from != nil {
		start = *from
	}
	return start, end, nil
}

func intParam(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidArgument("invalid %s parameter", name)
	}
	return v, nil
}

func issueFilterParams(c echo.Context) (entity.IssueFilter, error) {
	var filter entity.IssueFilter
	if raw := c.QueryParam("type"); raw != "" {
		t := entity.IssueType(strings.ToUpper(raw))
		if !t.Valid() {
			return filter, apperrors.InvalidArgument("unknown issue type %q", raw)
		}
		filter.Type = &t
	}
	if raw := c.QueryParam("severity"); raw != "" {
		s := entity.Severity(strings.ToUpper(raw))
		if !s.Valid() {
			return filter, apperrors.InvalidArgument("unknown severity %q", raw)
		}
		filter.Severity = &s
	}
	if raw := c.QueryParam("status"); raw != "" {
		s := entity.IssueStatus(strings.ToUpper(raw))
		if !s.Valid() {
			return filter, apperrors.InvalidArgument("unknown issue status %q", raw)
		}
		filter.Status = &s
	}
	return filter, nil
}

func entityKindParam(raw string) (entity.EntityKind, error) {
	kind := entity.EntityKind(strings.ToUpper(raw))
	if !kind.Valid() {
		return "", apperrors.InvalidArgument("unknown entity type %q", raw)
	}
	return kind, nil
}

func auditFilterParams(c echo.Context) (entity.AuditFilter, error) {
	var (
		filter entity.AuditFilter
		err    error
	)
	if filter.From, err = optionalTime(c, "from", false); err != nil {
		return filter, err
	}
	if filter.To, err = optionalTime(c, "to", true); err != nil {
		return filter, err
	}
	if raw := c.QueryParam("action"); raw != "" {
		action := entity.AuditAction(strings.ToUpper(raw))
		if !action.Valid() {
			return filter, apperrors.InvalidArgument("unknown action %q", raw)
		}
		filter.Action = &action
	}
	if raw := c.QueryParam("entity"); raw != "" {
		kind, err := entityKindParam(raw)
		if err != nil {
			return filter, err
		}
		filter.EntityKind = &kind
	}
	if raw := c.QueryParam("entityId"); raw != "" {
		filter.EntityID = &raw
	}
	if raw := c.QueryParam("performedBy"); raw != "" {
		filter.PerformedBy = &raw
	}
	if filter.Limit, err = intParam(c, "limit", entity.DefaultAuditLimit); err != nil {
		return filter, err
	}
	if filter.Offset, err = intParam(c, "offset", 0); err != nil {
		return filter, err
	}
	return filter, nil
}
