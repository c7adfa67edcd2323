package usecase

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	domainerrors "github.com/wekeepgrowing/semo-fleet/internal/domain/errors"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/repository"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase/interfaces"
	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

// DefaultAuditChannel is the pub/sub channel appended entries are published on.
const DefaultAuditChannel = "fleet.audit"

// AuditTrailUseCase 감사 로그 유스케이스 구현체
type AuditTrailUseCase struct {
	logger    *zap.Logger
	repo      repository.AuditLogRepository
	publisher interfaces.EventPublisher
	channel   string
	validate  *validator.Validate
	clock     Clock
}

// NewAuditTrailUseCase 새 감사 로그 유스케이스 생성. publisher는 nil일 수 있습니다.
func NewAuditTrailUseCase(
	logger *zap.Logger,
	repo repository.AuditLogRepository,
	publisher interfaces.EventPublisher,
	channel string,
	clock Clock,
) *AuditTrailUseCase {
	if channel == "" {
		channel = DefaultAuditChannel
	}
	return &AuditTrailUseCase{
		logger:    logger,
		repo:      repo,
		publisher: publisher,
		channel:   channel,
		validate:  newValidator(),
		clock:     clockOrNow(clock),
	}
}

// Append 감사 로그 추가. 저장 실패는 재시도 없이 그대로 반환됩니다.
func (uc *AuditTrailUseCase) Append(ctx context.Context, ownerID string, input entity.AuditLogInput) (*entity.AuditLogEntry, error) {
	if ownerID == "" {
		return nil, domainerrors.ErrMissingOwner
	}
	if err := uc.validate.StructCtx(ctx, input); err != nil {
		return nil, validationError(domainerrors.ErrInvalidAuditEntry, err)
	}

	entry := &entity.AuditLogEntry{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		PerformedBy:   input.PerformedBy,
		PerformerName: input.PerformerName,
		Action:        input.Action,
		EntityKind:    input.EntityKind,
		EntityID:      input.EntityID,
		EntityName:    input.EntityName,
		Timestamp:     uc.clock().UTC(),
		Changes:       input.Changes,
		Metadata:      input.Metadata,
	}

	if err := uc.repo.Append(ctx, entry); err != nil {
		apperrors.LogError(uc.logger, err, "감사 로그 저장 실패",
			zap.String("owner_id", ownerID),
			zap.String("action", string(entry.Action)),
			zap.String("entity_id", entry.EntityID),
		)
		return nil, apperrors.Wrap(err, "failed to append audit log")
	}

	uc.publish(ctx, entry)
	return entry, nil
}

// 발행 실패는 기록만 하고 추가 결과에는 영향을 주지 않습니다
func (uc *AuditTrailUseCase) publish(ctx context.Context, entry *entity.AuditLogEntry) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(ctx, uc.channel, entry); err != nil {
		uc.logger.Warn("감사 로그 이벤트 발행 실패",
			zap.String("channel", uc.channel),
			zap.String("entry_id", entry.ID),
			zap.Error(err),
		)
	}
}

// Query 필터/페이지 조회
func (uc *AuditTrailUseCase) Query(ctx context.Context, ownerID string, filter entity.AuditFilter) (*entity.AuditPage, error) {
	if ownerID == "" {
		return nil, domainerrors.ErrMissingOwner
	}
	filter.SetDefaults()
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, domainerrors.Detail(domainerrors.ErrInvalidPeriod, "from %s is after to %s",
			filter.From.Format(time.RFC3339), filter.To.Format(time.RFC3339))
	}

	entries, total, err := uc.repo.Search(ctx, ownerID, filter)
	if err != nil {
		apperrors.LogError(uc.logger, err, "감사 로그 조회 실패", zap.String("owner_id", ownerID))
		return nil, apperrors.Wrap(err, "failed to query audit logs")
	}
	if entries == nil {
		entries = []*entity.AuditLogEntry{}
	}

	return &entity.AuditPage{
		Entries: entries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}

// History 엔티티 이력 조회
func (uc *AuditTrailUseCase) History(ctx context.Context, ownerID string, kind entity.EntityKind, entityID string) ([]*entity.AuditLogEntry, error) {
	if ownerID == "" {
		return nil, domainerrors.ErrMissingOwner
	}
	if !kind.Valid() || entityID == "" {
		return nil, domainerrors.Detail(domainerrors.ErrInvalidAuditEntry, "entity %q/%q", kind, entityID)
	}

	entries, err := uc.repo.History(ctx, ownerID, kind, entityID)
	if err != nil {
		apperrors.LogError(uc.logger, err, "엔티티 이력 조회 실패",
			zap.String("owner_id", ownerID),
			zap.String("entity_type", string(kind)),
			zap.String("entity_id", entityID),
		)
		return nil, apperrors.Wrap(err, "failed to load entity history")
	}
	if entries == nil {
		entries = []*entity.AuditLogEntry{}
	}
	return entries, nil
}
