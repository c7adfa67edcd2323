package repository

import (
	"context"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

// AuditLogRepository 감사 로그 저장소 인터페이스. 추가만 가능합니다.
type AuditLogRepository interface {
	// Append 감사 로그 저장
	Append(ctx context.Context, entry *entity.AuditLogEntry) error

	// Search 필터 조건으로 최신순 조회. total은 페이지 적용 전 건수입니다.
	Search(ctx context.Context, ownerID string, filter entity.AuditFilter) ([]*entity.AuditLogEntry, int64, error)

	// History 엔티티 하나의 전체 이력, 최신순
	History(ctx context.Context, ownerID string, kind entity.EntityKind, entityID string) ([]*entity.AuditLogEntry, error)
}
