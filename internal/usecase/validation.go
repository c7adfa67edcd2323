package usecase

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	domainerrors "github.com/wekeepgrowing/semo-fleet/internal/domain/errors"
	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

// newValidator registers the enum tags used on audit and issue inputs.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "audit_action", func(fl validator.FieldLevel) bool {
		return entity.AuditAction(fl.Field().String()).Valid()
	})
	mustRegister(v, "entity_kind", func(fl validator.FieldLevel) bool {
		return entity.EntityKind(fl.Field().String()).Valid()
	})
	mustRegister(v, "issue_status", func(fl validator.FieldLevel) bool {
		return entity.IssueStatus(fl.Field().String()).Valid()
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

// validationError turns validator output into a sentinel-coded error listing the failed fields.
func validationError(sentinel *apperrors.AppError, err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domainerrors.Detail(sentinel, "%v", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return domainerrors.Detail(sentinel, "invalid fields: %s", strings.Join(fields, ", "))
}
