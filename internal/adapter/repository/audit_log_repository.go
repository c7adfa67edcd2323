package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/model"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/repository"
)

// AuditLogRepositoryImpl 감사 로그 저장소 구현체
type AuditLogRepositoryImpl struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAuditLogRepository 감사 로그 저장소 생성
func NewAuditLogRepository(db *gorm.DB, logger *zap.Logger) repository.AuditLogRepository {
	return &AuditLogRepositoryImpl{db: db, logger: logger}
}

// Append 감사 로그 저장
func (r *AuditLogRepositoryImpl) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	if err := r.db.WithContext(ctx).Create(model.NewAuditLog(entry)).Error; err != nil {
		r.logger.Error("감사 로그 저장 실패",
			zap.String("owner_id", entry.OwnerID),
			zap.String("action", string(entry.Action)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	return nil
}

// Search 필터 조건으로 조회. 건수는 페이지 적용 전 기준입니다.
func (r *AuditLogRepositoryImpl) Search(ctx context.Context, ownerID string, filter entity.AuditFilter) ([]*entity.AuditLogEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.AuditLog{}).Where("owner_id = ?", ownerID)

	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}
	if filter.Action != nil {
		query = query.Where("action = ?", string(*filter.Action))
	}
	if filter.EntityKind != nil {
		query = query.Where("entity_type = ?", string(*filter.EntityKind))
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.PerformedBy != nil {
		query = query.Where("performed_by = ?", *filter.PerformedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error("감사 로그 개수 조회 실패", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var rows []model.AuditLog
	if err := query.
		Order("occurred_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error; err != nil {
		r.logger.Error("감사 로그 검색 실패", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, 0, fmt.Errorf("failed to search audit logs: %w", err)
	}

	return toAuditEntries(rows), total, nil
}

// History 엔티티 이력 조회
func (r *AuditLogRepositoryImpl) History(ctx context.Context, ownerID string, kind entity.EntityKind, entityID string) ([]*entity.AuditLogEntry, error) {
	var rows []model.AuditLog
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND entity_type = ? AND entity_id = ?", ownerID, string(kind), entityID).
		Order("occurred_at DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		r.logger.Error("엔티티 이력 조회 실패",
			zap.String("entity_type", string(kind)),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to load entity history: %w", err)
	}
	return toAuditEntries(rows), nil
}

func toAuditEntries(rows []model.AuditLog) []*entity.AuditLogEntry {
	entries := make([]*entity.AuditLogEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].ToEntity())
	}
	return entries
}
