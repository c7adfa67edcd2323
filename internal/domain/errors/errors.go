package errors

import (
	"fmt"

	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

// Sentinels carry a pkg/errors code so handlers map them to HTTP status
// and errors.Is keeps working after Wrap.
var (
	ErrDriverNotFound = apperrors.NewAppError(apperrors.ErrNotFound, "driver not found", nil)
	ErrIssueNotFound  = apperrors.NewAppError(apperrors.ErrNotFound, "compliance issue not found", nil)

	ErrInvalidAuditEntry       = apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid audit log entry", nil)
	ErrInvalidStatusTransition = apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid status transition", nil)
	ErrResolutionRequired      = apperrors.NewAppError(apperrors.ErrInvalidArgument, "resolution is required", nil)
	ErrInvalidPeriod           = apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid period", nil)
	ErrMissingOwner            = apperrors.NewAppError(apperrors.ErrInvalidArgument, "owner id is required", nil)

	ErrOwnerLocked = apperrors.NewAppError(apperrors.ErrConflict, "compliance evaluation already running for owner", nil)
)

// Detail attaches context to a sentinel without losing its identity.
func Detail(sentinel *apperrors.AppError, format string, args ...interface{}) error {
	return apperrors.NewAppError(sentinel.Code(), sentinel.Message(), fmt.Errorf(format, args...))
}

// DriverNotFound returns ErrDriverNotFound naming the driver.
func DriverNotFound(driverID string) error {
	return Detail(ErrDriverNotFound, "driver %s", driverID)
}

func IssueNotFound(issueID string) error {
	return Detail(ErrIssueNotFound, "issue %s", issueID)
}

func InvalidTransition(from, to string) error {
	return Detail(ErrInvalidStatusTransition, "%s -> %s", from, to)
}
