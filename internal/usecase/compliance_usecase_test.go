package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	domainerrors "github.com/wekeepgrowing/semo-fleet/internal/domain/errors"
	"github.com/wekeepgrowing/semo-fleet/internal/usecase/interfaces"
)

var systemActor = entity.Actor{ID: "user-1", Name: ptr("Dispatch")}

func issuesByKey(issues []*entity.ComplianceIssue) map[string]*entity.ComplianceIssue {
	out := make(map[string]*entity.ComplianceIssue, len(issues))
	for _, i := range issues {
		out[i.Key] = i
	}
	return out
}

func TestEvaluateVehicles_ExpiredInspectionIsCritical(t *testing.T) {
	f := newFixture(t)
	f.store.AddVehicles(&entity.Vehicle{
		ID:               "v-1",
		OwnerID:          testOwner,
		LicensePlate:     "B-FL 100",
		Status:           entity.VehicleStatusAvailable,
		InspectionExpiry: ptr(refNow.AddDate(0, 0, -10)),
	})

	issues, err := f.uc.Compliance.EvaluateVehicles(context.Background(), testOwner, refNow)
	require.NoError(t, err)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, entity.SeverityCritical, issue.Severity)
	assert.Equal(t, entity.IssueTypeVehicle, issue.Type)
	assert.Equal(t, "inspection:v-1:CRITICAL", issue.Key)
	assert.Equal(t, "Inspection expired", issue.Title)
	assert.Equal(t, "Inspection for B-FL 100 expired on 2026-03-08", issue.Description)
	require.NotNil(t, issue.DueDate)
	assert.True(t, issue.DueDate.Equal(refNow.AddDate(0, 0, -10)))
}

func TestEvaluateVehicles_InsuranceExpiringSoonIsHigh(t *testing.T) {
	f := newFixture(t)
	f.store.AddVehicles(&entity.Vehicle{
		ID:              "v-2",
		OwnerID:         testOwner,
		LicensePlate:    "B-FL 200",
		Status:          entity.VehicleStatusInUse,
		InsuranceExpiry: ptr(refNow.AddDate(0, 0, 20)),
	})

	issues, err := f.uc.Compliance.EvaluateVehicles(context.Background(), testOwner, refNow)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, entity.SeverityHigh, issues[0].Severity)
	assert.Equal(t, "insurance:v-2:HIGH", issues[0].Key)
	assert.Equal(t, "Insurance expiring soon", issues[0].Title)
}

func TestEvaluateVehicles_OtherRules(t *testing.T) {
	f := newFixture(t)
	f.store.AddVehicles(
		&entity.Vehicle{
			ID:               "v-ok",
			OwnerID:          testOwner,
			LicensePlate:     "B-OK 1",
			Status:           entity.VehicleStatusAvailable,
			InspectionExpiry: ptr(refNow.AddDate(0, 2, 0)),
			InsuranceExpiry:  ptr(refNow.AddDate(1, 0, 0)),
		},
		&entity.Vehicle{ID: "v-old", OwnerID: testOwner, LicensePlate: "B-OLD 1", Status: entity.VehicleStatusAvailable},
		&entity.Vehicle{ID: "v-oos", OwnerID: testOwner, LicensePlate: "B-OOS 1", Status: entity.VehicleStatusOutOfService},
		&entity.Vehicle{ID: "v-other", OwnerID: "owner-2", LicensePlate: "X-1", Status: entity.VehicleStatusOutOfService},
	)
	f.store.AddMaintenance(
		&entity.MaintenanceLog{ID: "m-1", VehicleID: "v-ok", ServiceDate: refNow.AddDate(0, -1, 0)},
		&entity.MaintenanceLog{ID: "m-2", VehicleID: "v-old", ServiceDate: refNow.AddDate(0, 0, -200)},
		&entity.MaintenanceLog{ID: "m-3", VehicleID: "v-old", ServiceDate: refNow.AddDate(0, 0, -190)},
	)

	issues, err := f.uc.Compliance.EvaluateVehicles(context.Background(), testOwner, refNow)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	byKey := issuesByKey(issues)
	maintenance := byKey["maintenance:v-old:MEDIUM"]
	require.NotNil(t, maintenance)
	assert.Equal(t, entity.IssueTypeVehicle, maintenance.Type)
	assert.Equal(t, "Last service for B-OLD 1 was 190 days ago", maintenance.Description)

	oos := byKey["out_of_service:v-oos:MEDIUM"]
	require.NotNil(t, oos)
	assert.Equal(t, entity.IssueTypeOperation, oos.Type)
	assert.Nil(t, oos.DueDate)
}

func TestEvaluateDriverHours(t *testing.T) {
	f := newFixture(t)
	f.store.AddDrivers(newDriver("d-1", "Anna", "Becker"), newDriver("d-2", "Jonas", "Weber"), newDriver("d-3", "Lena", "Koch"))
	for day := 12; day <= 17; day++ {
		f.store.AddRoutes(
			drivenRoute("d-1", day, 9*time.Hour+36*time.Minute),
			drivenRoute("d-2", day, 8*time.Hour+45*time.Minute),
			drivenRoute("d-3", day, 8*time.Hour),
		)
	}
	// outside the seven-day window
	f.store.AddRoutes(drivenRoute("d-3", 10, 12*time.Hour))

	issues, err := f.uc.Compliance.EvaluateDriverHours(context.Background(), testOwner, refNow)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	byKey := issuesByKey(issues)
	critical := byKey["driver_hours:d-1:CRITICAL"]
	require.NotNil(t, critical)
	assert.Equal(t, entity.IssueTypeDriver, critical.Type)
	assert.Equal(t, "Anna Becker", critical.SubjectName)
	assert.Equal(t, "Anna Becker drove 57.6 hours in the last 7 days (limit 56)", critical.Description)

	high := byKey["driver_hours:d-2:HIGH"]
	require.NotNil(t, high)
	assert.Equal(t, "Driving time limit nearly reached", high.Title)
}

func TestEvaluateDriverHours_GermanLocale(t *testing.T) {
	f := newFixtureWithLocale(t, "de")
	f.store.AddDrivers(newDriver("d-1", "Anna", "Becker"))
	for day := 12; day <= 17; day++ {
		f.store.AddRoutes(drivenRoute("d-1", day, 9*time.Hour+36*time.Minute))
	}

	issues, err := f.uc.Compliance.EvaluateDriverHours(context.Background(), testOwner, refNow)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "Lenkzeit überschritten", issues[0].Title)
	assert.Contains(t, issues[0].Description, "57,6 Stunden")
}

// seedComplianceFleet raises one CRITICAL and one HIGH issue.
func seedComplianceFleet(f *fixture) (*entity.Vehicle, *entity.Vehicle) {
	expired := &entity.Vehicle{
		ID:               "v-1",
		OwnerID:          testOwner,
		LicensePlate:     "B-FL 100",
		Status:           entity.VehicleStatusAvailable,
		InspectionExpiry: ptr(refNow.AddDate(0, 0, -10)),
	}
	expiring := &entity.Vehicle{
		ID:              "v-2",
		OwnerID:         testOwner,
		LicensePlate:    "B-FL 200",
		Status:          entity.VehicleStatusAvailable,
		InsuranceExpiry: ptr(refNow.AddDate(0, 0, 20)),
	}
	f.store.AddVehicles(expired, expiring)
	return expired, expiring
}

func TestRunAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedComplianceFleet(f)

	status, err := f.uc.Compliance.RunAll(ctx, testOwner, systemActor)
	require.NoError(t, err)
	assert.Equal(t, 60, status.Score)
	assert.False(t, status.IsCompliant)
	require.Len(t, status.Issues, 2)
	assert.Equal(t, entity.SeverityCritical, status.Issues[0].Severity)
	for _, issue := range status.Issues {
		assert.NotEmpty(t, issue.ID)
		assert.Equal(t, entity.IssueStatusOpen, issue.Status)
		assert.True(t, issue.CreatedAt.Equal(refNow))
	}

	stored, err := f.uc.Compliance.GetStatus(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, status.Score, stored.Score)
	assert.Len(t, stored.Issues, 2)

	action := entity.AuditActionComplianceCheck
	page, err := f.uc.Audit.Query(ctx, testOwner, entity.AuditFilter{Action: &action})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	assert.Equal(t, "user-1", page.Entries[0].PerformedBy)
	assert.Equal(t, 60, page.Entries[0].Metadata["score"])
}

func TestRunAll_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedComplianceFleet(f)

	first, err := f.uc.Compliance.RunAll(ctx, testOwner, systemActor)
	require.NoError(t, err)
	second, err := f.uc.Compliance.RunAll(ctx, testOwner, systemActor)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	require.Len(t, second.Issues, len(first.Issues))
	for i := range first.Issues {
		assert.Equal(t, first.Issues[i].ID, second.Issues[i].ID)
		assert.Equal(t, first.Issues[i].Key, second.Issues[i].Key)
		assert.Equal(t, first.Issues[i].Status, second.Issues[i].Status)
		assert.True(t, first.Issues[i].UpdatedAt.Equal(second.Issues[i].UpdatedAt))
	}
}

func TestRunAll_KeepsManualStatusAndDropsStaleIssues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	expired, expiring := seedComplianceFleet(f)

	status, err := f.uc.Compliance.RunAll(ctx, testOwner, systemActor)
	require.NoError(t, err)
	critical := issuesByKey(status.Issues)["inspection:v-1:CRITICAL"]
	require.NotNil(t, critical)

	_, err = f.uc.Compliance.UpdateIssueStatus(ctx, testOwner, critical.ID, interfaces.IssueStatusUpdate{
		Status:     entity.IssueStatusWaived,
		Resolution: "Appointment booked",
	}, systemActor)
	require.NoError(t, err)

	// insurance renewed
	expiring.InsuranceExpiry = ptr(refNow.AddDate(1, 0, 0))

	status, err = f.uc.Compliance.RunAll(ctx, testOwner, systemActor)
	require.NoError(t, err)
	require.Len(t, status.Issues, 1)

	kept := status.Issues[0]
	assert.Equal(t, critical.ID, kept.ID)
	assert.Equal(t, entity.IssueStatusWaived, kept.Status)
	require.NotNil(t, kept.Resolution)
	assert.Equal(t, "Appointment booked", *kept.Resolution)
	assert.Equal(t, 100, status.Score)
	assert.True(t, status.IsCompliant)

	// the same vehicle now raises a different key
	expired.InspectionExpiry = ptr(refNow.AddDate(0, 0, 5))
	status, err = f.uc.Compliance.RunAll(ctx, testOwner, systemActor)
	require.NoError(t, err)
	require.Len(t, status.Issues, 1)
	assert.Equal(t, "inspection:v-1:HIGH", status.Issues[0].Key)
	assert.NotEqual(t, critical.ID, status.Issues[0].ID)
	assert.Equal(t, entity.IssueStatusOpen, status.Issues[0].Status)
}

func TestRunAll_MissingOwner(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Compliance.RunAll(context.Background(), "", systemActor)
	assert.ErrorIs(t, err, domainerrors.ErrMissingOwner)
}

func TestUpdateIssueStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedComplianceFleet(f)
	status, err := f.uc.Compliance.RunAll(ctx, testOwner, systemActor)
	require.NoError(t, err)
	issueID := status.Issues[0].ID

	t.Run("resolution required", func(t *testing.T) {
		_, err := f.uc.Compliance.UpdateIssueStatus(ctx, testOwner, issueID, interfaces.IssueStatusUpdate{
			Status:     entity.IssueStatusResolved,
			Resolution: "   ",
		}, systemActor)
		assert.ErrorIs(t, err, domainerrors.ErrResolutionRequired)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := f.uc.Compliance.UpdateIssueStatus(ctx, testOwner, issueID, interfaces.IssueStatusUpdate{Status: "DONE"}, systemActor)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)
	})

	t.Run("unknown issue", func(t *testing.T) {
		_, err := f.uc.Compliance.UpdateIssueStatus(ctx, testOwner, "missing", interfaces.IssueStatusUpdate{
			Status: entity.IssueStatusInProgress,
		}, systemActor)
		assert.ErrorIs(t, err, domainerrors.ErrIssueNotFound)
	})

	t.Run("other owner cannot see the issue", func(t *testing.T) {
		_, err := f.uc.Compliance.UpdateIssueStatus(ctx, "owner-2", issueID, interfaces.IssueStatusUpdate{
			Status: entity.IssueStatusInProgress,
		}, systemActor)
		assert.ErrorIs(t, err, domainerrors.ErrIssueNotFound)
	})

	t.Run("resolve then reopen", func(t *testing.T) {
		issue, err := f.uc.Compliance.UpdateIssueStatus(ctx, testOwner, issueID, interfaces.IssueStatusUpdate{
			Status:     entity.IssueStatusResolved,
			Resolution: " Inspection passed ",
		}, systemActor)
		require.NoError(t, err)
		assert.Equal(t, entity.IssueStatusResolved, issue.Status)
		require.NotNil(t, issue.Resolution)
		assert.Equal(t, "Inspection passed", *issue.Resolution)

		_, err = f.uc.Compliance.UpdateIssueStatus(ctx, testOwner, issueID, interfaces.IssueStatusUpdate{
			Status: entity.IssueStatusInProgress,
		}, systemActor)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidStatusTransition)

		issue, err = f.uc.Compliance.UpdateIssueStatus(ctx, testOwner, issueID, interfaces.IssueStatusUpdate{
			Status: entity.IssueStatusOpen,
		}, systemActor)
		require.NoError(t, err)
		assert.Equal(t, entity.IssueStatusOpen, issue.Status)
		assert.Nil(t, issue.Resolution)
	})

	t.Run("history records each change", func(t *testing.T) {
		history, err := f.uc.Audit.History(ctx, testOwner, entity.EntityKindComplianceIssue, issueID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		for _, entry := range history {
			assert.Equal(t, entity.AuditActionStatusChange, entry.Action)
			assert.Equal(t, "user-1", entry.PerformedBy)
		}
		assert.Equal(t, "status", history[0].Changes[0].Field)
	})
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	seedComplianceFleet(f)
	f.store.AddDrivers(newDriver("d-1", "Anna", "Becker"))
	f.store.AddRoutes(drivenRoute("d-1", 18, 10*time.Hour))

	_, err := f.uc.Compliance.RunAll(ctx, testOwner, systemActor)
	require.NoError(t, err)

	report, err := f.uc.Compliance.Report(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, 2, report.VehiclesChecked)
	assert.Equal(t, 1, report.IssuesBySeverity[entity.SeverityCritical])
	assert.Equal(t, 1, report.IssuesBySeverity[entity.SeverityHigh])
	assert.Equal(t, 0, report.IssuesBySeverity[entity.SeverityLow])
	assert.Equal(t, 2, report.IssuesByType[entity.IssueTypeVehicle])
	require.Len(t, report.DriverHours, 1)
	assert.False(t, report.DriverHours[0].IsCompliant)
}
