package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/semo-fleet/internal/adapter/repository/memory"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	domainerrors "github.com/wekeepgrowing/semo-fleet/internal/domain/errors"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase/interfaces"
	apperrors "github.com/wekeepgrowing/semo-fleet/pkg/errors"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	return m.Called(ctx, channel, message).Error(0)
}

type mockAuditRepository struct {
	mock.Mock
}

func (m *mockAuditRepository) Append(ctx context.Context, entry *entity.AuditLogEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockAuditRepository) Search(ctx context.Context, ownerID string, filter entity.AuditFilter) ([]*entity.AuditLogEntry, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	entries, _ := args.Get(0).([]*entity.AuditLogEntry)
	return entries, args.Get(1).(int64), args.Error(2)
}

func (m *mockAuditRepository) History(ctx context.Context, ownerID string, kind entity.EntityKind, entityID string) ([]*entity.AuditLogEntry, error) {
	args := m.Called(ctx, ownerID, kind, entityID)
	entries, _ := args.Get(0).([]*entity.AuditLogEntry)
	return entries, args.Error(1)
}

// tickingClock advances one minute per call.
func tickingClock(start time.Time) Clock {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * time.Minute)
		n++
		return t
	}
}

func vehicleUpdate(vehicleID string) entity.AuditLogInput {
	return entity.AuditLogInput{
		PerformedBy: "user-1",
		Action:      entity.AuditActionUpdate,
		EntityKind:  entity.EntityKindVehicle,
		EntityID:    vehicleID,
		Changes:     []entity.FieldChange{{Field: "status", OldValue: "AVAILABLE", NewValue: "IN_USE"}},
	}
}

func newAuditUseCase(publisher *mockPublisher) (*AuditTrailUseCase, *memory.Store) {
	store := memory.NewStore()
	var pub interfaces.EventPublisher
	if publisher != nil {
		pub = publisher
	}
	return NewAuditTrailUseCase(zap.NewNop(), store.Repositories().AuditLogs, pub, "", tickingClock(refNow)), store
}

func TestAuditAppend(t *testing.T) {
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, DefaultAuditChannel, mock.AnythingOfType("*entity.AuditLogEntry")).Return(nil).Once()
	uc, _ := newAuditUseCase(publisher)

	local := time.FixedZone("CET", 3600)
	uc.clock = func() time.Time { return refNow.In(local) }

	entry, err := uc.Append(context.Background(), testOwner, vehicleUpdate("v-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, testOwner, entry.OwnerID)
	assert.Equal(t, time.UTC, entry.Timestamp.Location())
	assert.True(t, entry.Timestamp.Equal(refNow))
	publisher.AssertExpectations(t)
}

func TestAuditAppend_Invalid(t *testing.T) {
	uc, _ := newAuditUseCase(nil)

	tests := []struct {
		name  string
		input func(in *entity.AuditLogInput)
	}{
		{"missing performer", func(in *entity.AuditLogInput) { in.PerformedBy = "" }},
		{"unknown action", func(in *entity.AuditLogInput) { in.Action = "ARCHIVE" }},
		{"unknown entity type", func(in *entity.AuditLogInput) { in.EntityKind = "TRAILER" }},
		{"missing entity id", func(in *entity.AuditLogInput) { in.EntityID = "" }},
		{"change without field", func(in *entity.AuditLogInput) { in.Changes[0].Field = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := vehicleUpdate("v-1")
			tt.input(&in)
			_, err := uc.Append(context.Background(), testOwner, in)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidAuditEntry)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidArgument))
		})
	}

	_, err := uc.Append(context.Background(), "", vehicleUpdate("v-1"))
	assert.ErrorIs(t, err, domainerrors.ErrMissingOwner)
}

func TestAuditAppend_PublishFailureIsIgnored(t *testing.T) {
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, DefaultAuditChannel, mock.Anything).Return(errors.New("redis down"))
	uc, _ := newAuditUseCase(publisher)

	entry, err := uc.Append(context.Background(), testOwner, vehicleUpdate("v-1"))
	require.NoError(t, err)

	history, err := uc.History(context.Background(), testOwner, entity.EntityKindVehicle, "v-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entry.ID, history[0].ID)
	publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestAuditAppend_StoreFailure(t *testing.T) {
	repo := &mockAuditRepository{}
	repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	publisher := &mockPublisher{}

	uc := NewAuditTrailUseCase(zap.NewNop(), repo, publisher, "custom.audit", nil)
	_, err := uc.Append(context.Background(), testOwner, vehicleUpdate("v-1"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInternal, apperrors.CodeOf(err))
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuditQuery(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuditUseCase(nil)

	for i := 1; i <= 5; i++ {
		_, err := uc.Append(ctx, testOwner, vehicleUpdate(fmt.Sprintf("v-%d", i)))
		require.NoError(t, err)
	}
	_, err := uc.Append(ctx, "owner-2", vehicleUpdate("v-9"))
	require.NoError(t, err)

	page, err := uc.Query(ctx, testOwner, entity.AuditFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "v-4", page.Entries[0].EntityID)
	assert.Equal(t, "v-3", page.Entries[1].EntityID)
	assert.True(t, page.Entries[0].Timestamp.After(page.Entries[1].Timestamp))

	page, err = uc.Query(ctx, testOwner, entity.AuditFilter{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.Total)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "v-1", page.Entries[0].EntityID)

	from := refNow.Add(2 * time.Minute)
	entityID := "v-3"
	page, err = uc.Query(ctx, testOwner, entity.AuditFilter{From: &from, EntityID: &entityID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestAuditQuery_Defaults(t *testing.T) {
	uc, _ := newAuditUseCase(nil)

	page, err := uc.Query(context.Background(), testOwner, entity.AuditFilter{Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultAuditLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.NotNil(t, page.Entries)

	page, err = uc.Query(context.Background(), testOwner, entity.AuditFilter{Limit: 10_000})
	require.NoError(t, err)
	assert.Equal(t, entity.MaxAuditLimit, page.Limit)

	from, to := refNow, refNow.Add(-time.Hour)
	_, err = uc.Query(context.Background(), testOwner, entity.AuditFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidPeriod)
}

func TestAuditHistory(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuditUseCase(nil)

	for i := 0; i < 3; i++ {
		_, err := uc.Append(ctx, testOwner, vehicleUpdate("v-1"))
		require.NoError(t, err)
	}
	_, err := uc.Append(ctx, testOwner, vehicleUpdate("v-2"))
	require.NoError(t, err)

	history, err := uc.History(ctx, testOwner, entity.EntityKindVehicle, "v-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[0].Timestamp.After(history[2].Timestamp))

	history, err = uc.History(ctx, testOwner, entity.EntityKindDriver, "v-1")
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = uc.History(ctx, testOwner, "TRAILER", "v-1")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidAuditEntry)
}
