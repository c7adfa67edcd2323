package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
	"github.com/wekeepgrowing/semo-fleet/internal/domain/repository"
)

const (
	expiryWarningWindow    = 30 * 24 * time.Hour
	maintenanceMaxInterval = 180 * 24 * time.Hour
	driverHoursLookback    = 7 * 24 * time.Hour
)

var (
	weeklyHoursLimit   = decimal.NewFromInt(entity.MaxWeeklyDrivingHours)
	weeklyHoursWarning = weeklyHoursLimit.Mul(decimal.RequireFromString("0.9"))
)

// EvaluateVehicles applies the expiry, maintenance and status checks to every vehicle of the owner.
func (uc *ComplianceUseCase) EvaluateVehicles(ctx context.Context, ownerID string, now time.Time) ([]*entity.ComplianceIssue, error) {
	vehicles, err := uc.repos.Vehicles.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	if len(vehicles) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		ids = append(ids, v.ID)
	}
	lastService, err := uc.repos.Maintenance.LatestServiceDates(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance history: %w", err)
	}

	var issues []*entity.ComplianceIssue
	for _, v := range vehicles {
		if issue := uc.expiryIssue(v, entity.CheckInspection, v.InspectionExpiry, now); issue != nil {
			issues = append(issues, issue)
		}
		if issue := uc.expiryIssue(v, entity.CheckInsurance, v.InsuranceExpiry, now); issue != nil {
			issues = append(issues, issue)
		}
		// no maintenance record is not a violation
		if last, ok := lastService[v.ID]; ok && last.Before(now.Add(-maintenanceMaxInterval)) {
			days := int(now.Sub(last) / (24 * time.Hour))
			issues = append(issues, &entity.ComplianceIssue{
				Key:         entity.IssueKey(entity.CheckMaintenance, v.ID, entity.SeverityMedium),
				Type:        entity.IssueTypeVehicle,
				Severity:    entity.SeverityMedium,
				Title:       uc.loc.Sprintf(msgMaintenanceOverdueTitle),
				Description: uc.loc.Sprintf(msgMaintenanceOverdueDesc, v.LicensePlate, days),
				SubjectID:   v.ID,
				SubjectName: v.LicensePlate,
			})
		}
		if v.Status == entity.VehicleStatusOutOfService {
			issues = append(issues, &entity.ComplianceIssue{
				Key:         entity.IssueKey(entity.CheckOutOfService, v.ID, entity.SeverityMedium),
				Type:        entity.IssueTypeOperation,
				Severity:    entity.SeverityMedium,
				Title:       uc.loc.Sprintf(msgOutOfServiceTitle),
				Description: uc.loc.Sprintf(msgOutOfServiceDesc, v.LicensePlate),
				SubjectID:   v.ID,
				SubjectName: v.LicensePlate,
			})
		}
	}
	return issues, nil
}

// expiryIssue is the two-tier expiry rule: CRITICAL once expired, HIGH inside the warning window.
func (uc *ComplianceUseCase) expiryIssue(v *entity.Vehicle, check entity.Check, expiry *time.Time, now time.Time) *entity.ComplianceIssue {
	if expiry == nil {
		return nil
	}

	var severity entity.Severity
	var title, desc string
	switch {
	case expiry.Before(now):
		severity = entity.SeverityCritical
		title, desc = msgInspectionExpiredTitle, msgInspectionExpiredDesc
		if check == entity.CheckInsurance {
			title, desc = msgInsuranceExpiredTitle, msgInsuranceExpiredDesc
		}
	case expiry.Before(now.Add(expiryWarningWindow)):
		severity = entity.SeverityHigh
		title, desc = msgInspectionExpiringTitle, msgInspectionExpiringDesc
		if check == entity.CheckInsurance {
			title, desc = msgInsuranceExpiringTitle, msgInsuranceExpiringDesc
		}
	default:
		return nil
	}

	due := *expiry
	return &entity.ComplianceIssue{
		Key:         entity.IssueKey(check, v.ID, severity),
		Type:        entity.IssueTypeVehicle,
		Severity:    severity,
		Title:       uc.loc.Sprintf(title),
		Description: uc.loc.Sprintf(desc, v.LicensePlate, uc.loc.Date(due)),
		SubjectID:   v.ID,
		SubjectName: v.LicensePlate,
		DueDate:     &due,
	}
}

// EvaluateDriverHours sums driving time per driver over the trailing seven days.
func (uc *ComplianceUseCase) EvaluateDriverHours(ctx context.Context, ownerID string, now time.Time) ([]*entity.ComplianceIssue, error) {
	routes, err := uc.repos.Routes.Find(ctx, repository.RouteQuery{
		OwnerID:      ownerID,
		From:         now.Add(-driverHoursLookback),
		To:           now,
		OnlyDriven:   true,
		OnlyAssigned: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}

	hours := make(map[string]decimal.Decimal)
	var order []string
	for _, r := range routes {
		d, ok := r.DrivingDuration()
		if !ok || r.DriverID == nil {
			continue
		}
		id := *r.DriverID
		if _, seen := hours[id]; !seen {
			order = append(order, id)
		}
		hours[id] = hours[id].Add(hoursOf(d))
	}
	if len(order) == 0 {
		return nil, nil
	}

	names := uc.driverNames(ctx, ownerID)

	var issues []*entity.ComplianceIssue
	for _, driverID := range order {
		total := hours[driverID]
		var severity entity.Severity
		var title string
		switch {
		case total.GreaterThan(weeklyHoursLimit):
			severity, title = entity.SeverityCritical, msgDrivingTimeExceededTitle
		case total.GreaterThan(weeklyHoursWarning):
			severity, title = entity.SeverityHigh, msgDrivingTimeWarningTitle
		default:
			continue
		}

		name := names[driverID]
		if name == "" {
			name = driverID
		}
		issues = append(issues, &entity.ComplianceIssue{
			Key:         entity.IssueKey(entity.CheckDriverHours, driverID, severity),
			Type:        entity.IssueTypeDriver,
			Severity:    severity,
			Title:       uc.loc.Sprintf(title),
			Description: uc.loc.Sprintf(msgDrivingTimeDesc, name, roundTenth(total), entity.MaxWeeklyDrivingHours),
			SubjectID:   driverID,
			SubjectName: name,
		})
	}
	return issues, nil
}

// EvaluateDocuments is a placeholder; document expiry lives in the document system.
func (uc *ComplianceUseCase) EvaluateDocuments(_ context.Context, _ string, _ time.Time) ([]*entity.ComplianceIssue, error) {
	return nil, nil
}

func (uc *ComplianceUseCase) driverNames(ctx context.Context, ownerID string) map[string]string {
	return driverNameIndex(ctx, uc.logger, uc.repos.Drivers, ownerID)
}
