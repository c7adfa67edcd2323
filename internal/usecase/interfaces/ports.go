package interfaces

import (
	"context"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

// OwnerLocker serializes compliance evaluation and issue updates per owner.
type OwnerLocker interface {
	// Lock blocks until the owner's lock is held or ctx is done.
	Lock(ctx context.Context, ownerID string) (unlock func(), err error)
}

// EventPublisher fans out appended audit entries. messaging.RedisClient satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

type MetricsRecorder interface {
	ObserveComplianceEvaluation(ownerID string, score int, issues []*entity.ComplianceIssue)
	ObserveAlerts(alerts []*entity.PerformanceAlert)
}
