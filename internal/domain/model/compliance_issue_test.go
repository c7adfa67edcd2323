package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

func storedIssue() ComplianceIssue {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	return ComplianceIssue{
		ID:        "i-1",
		OwnerID:   "owner-1",
		Key:       "inspection:v-1:CRITICAL",
		Type:      "VEHICLE",
		Severity:  "CRITICAL",
		Title:     "TÜV abgelaufen",
		SubjectID: "v-1",
		Status:    "OPEN",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestComplianceIssue_ToEntity(t *testing.T) {
	row := storedIssue()
	issue, err := row.ToEntity()
	require.NoError(t, err)
	assert.Equal(t, entity.SeverityCritical, issue.Severity)
	assert.Equal(t, entity.IssueStatusOpen, issue.Status)
	assert.Equal(t, 25, issue.Severity.Deduction())

	// round trip through the row form
	back, err := NewComplianceIssue(issue).ToEntity()
	require.NoError(t, err)
	assert.Equal(t, issue, back)
}

func TestComplianceIssue_ToEntityRejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *ComplianceIssue)
		message string
	}{
		{"severity", func(r *ComplianceIssue) { r.Severity = "SEVERE" }, `unknown severity "SEVERE"`},
		{"lowercase severity", func(r *ComplianceIssue) { r.Severity = "critical" }, `unknown severity "critical"`},
		{"type", func(r *ComplianceIssue) { r.Type = "TRAILER" }, `unknown type "TRAILER"`},
		{"status", func(r *ComplianceIssue) { r.Status = "" }, `unknown status ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := storedIssue()
			tt.modify(&row)

			issue, err := row.ToEntity()
			assert.Nil(t, issue)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.Contains(t, err.Error(), "i-1")
		})
	}
}
