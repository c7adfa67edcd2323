package interfaces

import (
	"context"
	"time"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

type ComplianceUseCase interface {
	EvaluateVehicles(ctx context.Context, ownerID string, now time.Time) ([]*entity.ComplianceIssue, error)
	EvaluateDriverHours(ctx context.Context, ownerID string, now time.Time) ([]*entity.ComplianceIssue, error)
	EvaluateDocuments(ctx context.Context, ownerID string, now time.Time) ([]*entity.ComplianceIssue, error)

	// RunAll evaluates every check and reconciles the owner's stored issue set.
	RunAll(ctx context.Context, ownerID string, actor entity.Actor) (*entity.ComplianceStatus, error)
	GetStatus(ctx context.Context, ownerID string) (*entity.ComplianceStatus, error)
	ListIssues(ctx context.Context, ownerID string, filter entity.IssueFilter) ([]*entity.ComplianceIssue, error)
	UpdateIssueStatus(ctx context.Context, ownerID, issueID string, update IssueStatusUpdate, actor entity.Actor) (*entity.ComplianceIssue, error)
	Report(ctx context.Context, ownerID string) (*entity.ComplianceReport, error)
}

type IssueStatusUpdate struct {
	Status     entity.IssueStatus `json:"status" validate:"required,issue_status"`
	Resolution string             `json:"resolution"`
}
