package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/model"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/repository"
)

type complianceIssueRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewComplianceIssueRepository(db *gorm.DB, logger *zap.Logger) repository.ComplianceIssueRepository {
	return &complianceIssueRepository{db: db, logger: logger}
}

func (r *complianceIssueRepository) ListByOwner(ctx context.Context, ownerID string, filter entity.IssueFilter) ([]*entity.ComplianceIssue, error) {
	query := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.Severity != nil {
		query = query.Where("severity = ?", string(*filter.Severity))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var rows []model.ComplianceIssue
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		r.logger.Error("failed to list compliance issues", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, fmt.Errorf("failed to list compliance issues: %w", err)
	}

	issues := make([]*entity.ComplianceIssue, 0, len(rows))
	for i := range rows {
		issue, err := rows[i].ToEntity()
		if err != nil {
			r.logger.Error("invalid compliance issue row", zap.String("owner_id", ownerID), zap.Error(err))
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, nil
}

func (r *complianceIssueRepository) GetByID(ctx context.Context, ownerID, issueID string) (*entity.ComplianceIssue, error) {
	var row model.ComplianceIssue
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, issueID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("failed to get compliance issue", zap.String("issue_id", issueID), zap.Error(err))
		return nil, fmt.Errorf("failed to get compliance issue: %w", err)
	}
	issue, err := row.ToEntity()
	if err != nil {
		r.logger.Error("invalid compliance issue row", zap.String("issue_id", issueID), zap.Error(err))
		return nil, err
	}
	return issue, nil
}

// ReplaceAll deletes and reinserts the owner's issues in one transaction.
func (r *complianceIssueRepository) ReplaceAll(ctx context.Context, ownerID string, issues []*entity.ComplianceIssue) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", ownerID).Delete(&model.ComplianceIssue{}).Error; err != nil {
			return fmt.Errorf("failed to delete issues: %w", err)
		}
		if len(issues) == 0 {
			return nil
		}
		rows := make([]*model.ComplianceIssue, 0, len(issues))
		for _, issue := range issues {
			rows = append(rows, model.NewComplianceIssue(issue))
		}
		if err := tx.CreateInBatches(rows, 100).Error; err != nil {
			return fmt.Errorf("failed to insert issues: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("failed to replace compliance issues",
			zap.String("owner_id", ownerID),
			zap.Int("count", len(issues)),
			zap.Error(err))
		return err
	}
	return nil
}

func (r *complianceIssueRepository) Update(ctx context.Context, issue *entity.ComplianceIssue) error {
	result := r.db.WithContext(ctx).
		Model(&model.ComplianceIssue{}).
		Where("owner_id = ? AND id = ?", issue.OwnerID, issue.ID).
		Updates(map[string]interface{}{
			"status":     string(issue.Status),
			"resolution": issue.Resolution,
			"updated_at": issue.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("failed to update compliance issue", zap.String("issue_id", issue.ID), zap.Error(result.Error))
		return fmt.Errorf("failed to update compliance issue: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update compliance issue %s: %w", issue.ID, gorm.ErrRecordNotFound)
	}
	return nil
}
