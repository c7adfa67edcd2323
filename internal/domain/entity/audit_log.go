package entity

import "time"

type AuditAction string

const (
	AuditActionCreate          AuditAction = "CREATE"
	AuditActionUpdate          AuditAction = "UPDATE"
	AuditActionDelete          AuditAction = "DELETE"
	AuditActionStatusChange    AuditAction = "STATUS_CHANGE"
	AuditActionAssign          AuditAction = "ASSIGN"
	AuditActionComplete        AuditAction = "COMPLETE"
	AuditActionExport          AuditAction = "EXPORT"
	AuditActionComplianceCheck AuditAction = "COMPLIANCE_CHECK"
	AuditActionLogin           AuditAction = "LOGIN"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete, AuditActionStatusChange,
		AuditActionAssign, AuditActionComplete, AuditActionExport, AuditActionComplianceCheck,
		AuditActionLogin:
		return true
	}
	return false
}

type EntityKind string

const (
	EntityKindVehicle         EntityKind = "VEHICLE"
	EntityKindDriver          EntityKind = "DRIVER"
	EntityKindRoute           EntityKind = "ROUTE"
	EntityKindStop            EntityKind = "STOP"
	EntityKindFuelLog         EntityKind = "FUEL_LOG"
	EntityKindMaintenance     EntityKind = "MAINTENANCE"
	EntityKindComplianceIssue EntityKind = "COMPLIANCE_ISSUE"
	EntityKindDocument        EntityKind = "DOCUMENT"
)

func (k EntityKind) Valid() bool {
	switch k {
	case EntityKindVehicle, EntityKindDriver, EntityKindRoute, EntityKindStop,
		EntityKindFuelLog, EntityKindMaintenance, EntityKindComplianceIssue, EntityKindDocument:
		return true
	}
	return false
}

// FieldChange 변경된 필드 한 건
type FieldChange struct {
	Field    string      `json:"field" validate:"required"`
	OldValue interface{} `json:"oldValue"`
	NewValue interface{} `json:"newValue"`
}

// AuditLogEntry 운영 이벤트 한 건. 생성 후 변경되지 않습니다.
type AuditLogEntry struct {
	ID            string                 `json:"id"`
	OwnerID       string                 `json:"ownerId"`
	PerformedBy   string                 `json:"performedBy"`
	PerformerName *string                `json:"performerName,omitempty"`
	Action        AuditAction            `json:"action"`
	EntityKind    EntityKind             `json:"entityType"`
	EntityID      string                 `json:"entityId"`
	EntityName    *string                `json:"entityName,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
	Changes       []FieldChange          `json:"changes,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// Actor identifies who triggered an operation.
type Actor struct {
	ID   string
	Name *string
}

// AuditLogInput is what callers supply; ID and Timestamp are assigned on append.
type AuditLogInput struct {
	PerformedBy   string                 `json:"performedBy" validate:"required"`
	PerformerName *string                `json:"performerName,omitempty"`
	Action        AuditAction            `json:"action" validate:"required,audit_action"`
	EntityKind    EntityKind             `json:"entityType" validate:"required,entity_kind"`
	EntityID      string                 `json:"entityId" validate:"required"`
	EntityName    *string                `json:"entityName,omitempty"`
	Changes       []FieldChange          `json:"changes,omitempty" validate:"omitempty,dive"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

type AuditFilter struct {
	From        *time.Time
	To          *time.Time
	Action      *AuditAction
	EntityKind  *EntityKind
	EntityID    *string
	PerformedBy *string
	Limit       int
	Offset      int
}

const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 500
)

// SetDefaults clamps Limit to [1, MaxAuditLimit] and Offset to >= 0.
func (f *AuditFilter) SetDefaults() {
	if f.Limit <= 0 {
		f.Limit = DefaultAuditLimit
	}
	if f.Limit > MaxAuditLimit {
		f.Limit = MaxAuditLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// Matches applies every set filter field to e. Owner scoping is the caller's job.
func (f *AuditFilter) Matches(e *AuditLogEntry) bool {
	if f.From != nil && e.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && e.Timestamp.After(*f.To) {
		return false
	}
	if f.Action != nil && e.Action != *f.Action {
		return false
	}
	if f.EntityKind != nil && e.EntityKind != *f.EntityKind {
		return false
	}
	if f.EntityID != nil && e.EntityID != *f.EntityID {
		return false
	}
	if f.PerformedBy != nil && e.PerformedBy != *f.PerformedBy {
		return false
	}
	return true
}

type AuditPage struct {
	Entries []*AuditLogEntry `json:"entries"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}
