package entity

import (
	"fmt"
	"time"
)

type IssueType string

const (
	IssueTypeVehicle   IssueType = "VEHICLE"
	IssueTypeDriver    IssueType = "DRIVER"
	IssueTypeDocument  IssueType = "DOCUMENT"
	IssueTypeOperation IssueType = "OPERATION"
)

func (t IssueType) Valid() bool {
	switch t {
	case IssueTypeVehicle, IssueTypeDriver, IssueTypeDocument, IssueTypeOperation:
		return true
	}
	return false
}

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Severities lists every severity, most severe first.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Deduction is the score penalty for one active issue of this severity.
func (s Severity) Deduction() int {
	switch s {
	case SeverityCritical:
		return 25
	case SeverityHigh:
		return 15
	case SeverityMedium:
		return 5
	case SeverityLow:
		return 2
	}
	panic(fmt.Sprintf("entity: unknown severity %q", string(s)))
}

func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "OPEN"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusResolved   IssueStatus = "RESOLVED"
	IssueStatusWaived     IssueStatus = "WAIVED"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProgress, IssueStatusResolved, IssueStatusWaived:
		return true
	}
	return false
}

// Active reports whether an issue in this status counts against the score.
func (s IssueStatus) Active() bool {
	return s == IssueStatusOpen || s == IssueStatusInProgress
}

var issueTransitions = map[IssueStatus][]IssueStatus{
	IssueStatusOpen:       {IssueStatusInProgress, IssueStatusResolved, IssueStatusWaived},
	IssueStatusInProgress: {IssueStatusOpen, IssueStatusResolved, IssueStatusWaived},
	IssueStatusResolved:   {IssueStatusOpen},
	IssueStatusWaived:     {IssueStatusOpen},
}

// CanTransitionTo reports whether a manual status change from s to next is allowed.
func (s IssueStatus) CanTransitionTo(next IssueStatus) bool {
	for _, allowed := range issueTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// RequiresResolution is true for the closing statuses.
func (s IssueStatus) RequiresResolution() bool {
	return s == IssueStatusResolved || s == IssueStatusWaived
}

// Check identifies the rule that raised an issue. Part of the reconciliation key.
type Check string

const (
	CheckInspection   Check = "inspection"
	CheckInsurance    Check = "insurance"
	CheckMaintenance  Check = "maintenance"
	CheckOutOfService Check = "out_of_service"
	CheckDriverHours  Check = "driver_hours"
)

type ComplianceIssue struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"-"`
	Key         string      `json:"key"`
	Type        IssueType   `json:"type"`
	Severity    Severity    `json:"severity"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	SubjectID   string      `json:"entityId"`
	SubjectName string      `json:"entityName"`
	DueDate     *time.Time  `json:"dueDate,omitempty"`
	Status      IssueStatus `json:"status"`
	Resolution  *string     `json:"resolution,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// IssueKey builds the reconciliation key for a rule hit.
func IssueKey(check Check, subjectID string, severity Severity) string {
	return fmt.Sprintf("%s:%s:%s", check, subjectID, severity)
}

type IssueFilter struct {
	Type     *IssueType
	Severity *Severity
	Status   *IssueStatus
}

func (f *IssueFilter) Matches(i *ComplianceIssue) bool {
	if f.Type != nil && i.Type != *f.Type {
		return false
	}
	if f.Severity != nil && i.Severity != *f.Severity {
		return false
	}
	if f.Status != nil && i.Status != *f.Status {
		return false
	}
	return true
}
