package model

import (
	"fmt"
	"time"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

type ComplianceIssue struct {
	ID          string     `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID     string     `gorm:"column:owner_id;not null;uniqueIndex:idx_fleet_issue_owner_key,priority:1"`
	Key         string     `gorm:"column:issue_key;not null;size:255;uniqueIndex:idx_fleet_issue_owner_key,priority:2"`
	Type        string     `gorm:"column:type;not null;size:16"`
	Severity    string     `gorm:"column:severity;not null;size:16"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description"`
	SubjectID   string     `gorm:"column:subject_id;not null;size:128"`
	SubjectName string     `gorm:"column:subject_name"`
	DueDate     *time.Time `gorm:"column:due_date"`
	Status      string     `gorm:"column:status;not null;size:16;index"`
	Resolution  *string    `gorm:"column:resolution"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null"`
}

func (ComplianceIssue) TableName() string {
	return "fleet_compliance_issues"
}

func NewComplianceIssue(i *entity.ComplianceIssue) *ComplianceIssue {
	return &ComplianceIssue{
		ID:          i.ID,
		OwnerID:     i.OwnerID,
		Key:         i.Key,
		Type:        string(i.Type),
		Severity:    string(i.Severity),
		Title:       i.Title,
		Description: i.Description,
		SubjectID:   i.SubjectID,
		SubjectName: i.SubjectName,
		DueDate:     i.DueDate,
		Status:      string(i.Status),
		Resolution:  i.Resolution,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// ToEntity rejects rows whose type, severity or status is outside the known sets.
func (m *ComplianceIssue) ToEntity() (*entity.ComplianceIssue, error) {
	issue := &entity.ComplianceIssue{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Key:         m.Key,
		Type:        entity.IssueType(m.Type),
		Severity:    entity.Severity(m.Severity),
		Title:       m.Title,
		Description: m.Description,
		SubjectID:   m.SubjectID,
		SubjectName: m.SubjectName,
		DueDate:     m.DueDate,
		Status:      entity.IssueStatus(m.Status),
		Resolution:  m.Resolution,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if !issue.Type.Valid() {
		return nil, fmt.Errorf("compliance issue %s: unknown type %q", m.ID, m.Type)
	}
	if !issue.Severity.Valid() {
		return nil, fmt.Errorf("compliance issue %s: unknown severity %q", m.ID, m.Severity)
	}
	if !issue.Status.Valid() {
		return nil, fmt.Errorf("compliance issue %s: unknown status %q", m.ID, m.Status)
	}
	return issue, nil
}
