package interfaces

import (
	"context"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

// AuditTrailUseCase 감사 로그 추가 및 조회
type AuditTrailUseCase interface {
	// Append 감사 로그 추가. ID와 시각은 추가 시점에 부여됩니다.
	Append(ctx context.Context, ownerID string, input entity.AuditLogInput) (*entity.AuditLogEntry, error)

	// Query 필터/페이지 조회, 최신순
	Query(ctx context.Context, ownerID string, filter entity.AuditFilter) (*entity.AuditPage, error)

	// History 엔티티 하나의 전체 이력, 최신순
	History(ctx context.Context, ownerID string, kind entity.EntityKind, entityID string) ([]*entity.AuditLogEntry, error)
}
