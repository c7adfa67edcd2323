package model

import (
	"time"

	"gorm.io/datatypes"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

// AuditLog 감사 로그 테이블. 행은 추가만 됩니다.
type AuditLog struct {
	ID            string                                  `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID       string                                  `gorm:"column:owner_id;not null;index:idx_fleet_audit_owner_ts,priority:1"`
	PerformedBy   string                                  `gorm:"column:performed_by;not null;size:128;index"`
	PerformerName *string                                 `gorm:"column:performer_name;size:255"`
	Action        string                                  `gorm:"column:action;not null;size:32"`
	EntityType    string                                  `gorm:"column:entity_type;not null;size:32;index:idx_fleet_audit_entity,priority:1"`
	EntityID      string                                  `gorm:"column:entity_id;not null;size:128;index:idx_fleet_audit_entity,priority:2"`
	EntityName    *string                                 `gorm:"column:entity_name;size:255"`
	Timestamp     time.Time                               `gorm:"column:occurred_at;not null;index:idx_fleet_audit_owner_ts,priority:2,sort:desc"`
	Changes       datatypes.JSONSlice[entity.FieldChange] `gorm:"column:changes;type:jsonb"`
	Metadata      datatypes.JSONMap                       `gorm:"column:metadata;type:jsonb"`
}

func (AuditLog) TableName() string {
	return "fleet_audit_logs"
}

func NewAuditLog(e *entity.AuditLogEntry) *AuditLog {
	m := &AuditLog{
		ID:            e.ID,
		OwnerID:       e.OwnerID,
		PerformedBy:   e.PerformedBy,
		PerformerName: e.PerformerName,
		Action:        string(e.Action),
		EntityType:    string(e.EntityKind),
		EntityID:      e.EntityID,
		EntityName:    e.EntityName,
		Timestamp:     e.Timestamp,
	}
	if len(e.Changes) > 0 {
		m.Changes = datatypes.JSONSlice[entity.FieldChange](e.Changes)
	}
	if len(e.Metadata) > 0 {
		m.Metadata = datatypes.JSONMap(e.Metadata)
	}
	return m
}

func (m *AuditLog) ToEntity() *entity.AuditLogEntry {
	e := &entity.AuditLogEntry{
		ID:            m.ID,
		OwnerID:       m.OwnerID,
		PerformedBy:   m.PerformedBy,
		PerformerName: m.PerformerName,
		Action:        entity.AuditAction(m.Action),
		EntityKind:    entity.EntityKind(m.EntityType),
		EntityID:      m.EntityID,
		EntityName:    m.EntityName,
		Timestamp:     m.Timestamp,
	}
	if len(m.Changes) > 0 {
		e.Changes = []entity.FieldChange(m.Changes)
	}
	if len(m.Metadata) > 0 {
		e.Metadata = map[string]interface{}(m.Metadata)
	}
	return e
}
