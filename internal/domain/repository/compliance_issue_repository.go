package repository

import (
	"context"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

type ComplianceIssueRepository interface {
	ListByOwner(ctx context.Context, ownerID string, filter entity.IssueFilter) ([]*entity.ComplianceIssue, error)
	GetByID(ctx context.Context, ownerID, issueID string) (*entity.ComplianceIssue, error)
	// ReplaceAll swaps the owner's whole issue set atomically.
	ReplaceAll(ctx context.Context, ownerID string, issues []*entity.ComplianceIssue) error
	Update(ctx context.Context, issue *entity.ComplianceIssue) error
}
