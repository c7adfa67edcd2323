package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
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

// ComplianceUseCase evaluates compliance rules and manages the owner's issue set.
type ComplianceUseCase struct {
	logger   *zap.Logger
	repos    repository.Repositories
	audit    interfaces.AuditTrailUseCase
	hours    interfaces.DriverHoursUseCase
	locker   interfaces.OwnerLocker
	metrics  interfaces.MetricsRecorder
	loc      *Localizer
	validate *validator.Validate
	clock    Clock
}

func NewComplianceUseCase(
	logger *zap.Logger,
	repos repository.Repositories,
	audit interfaces.AuditTrailUseCase,
	hours interfaces.DriverHoursUseCase,
	locker interfaces.OwnerLocker,
	metrics interfaces.MetricsRecorder,
	loc *Localizer,
	clock Clock,
) *ComplianceUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &ComplianceUseCase{
		logger:   logger,
		repos:    repos,
		audit:    audit,
		hours:    hours,
		locker:   locker,
		metrics:  metrics,
		loc:      loc,
		validate: newValidator(),
		clock:    clockOrNow(clock),
	}
}

// RunAll runs every check and reconciles the result with the stored issues under the owner lock.
func (uc *ComplianceUseCase) RunAll(ctx context.Context, ownerID string, actor entity.Actor) (*entity.ComplianceStatus, error) {
	if ownerID == "" {
		return nil, domainerrors.ErrMissingOwner
	}

	unlock, err := uc.locker.Lock(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := uc.clock()
	var computed []*entity.ComplianceIssue

	vehicleIssues, err := uc.EvaluateVehicles(ctx, ownerID, now)
	if err != nil {
		apperrors.LogError(uc.logger, err, "Vehicle compliance check failed", zap.String("owner_id", ownerID))
		return nil, apperrors.Wrap(err, "vehicle compliance check failed")
	}
	computed = append(computed, vehicleIssues...)

	driverIssues, err := uc.EvaluateDriverHours(ctx, ownerID, now)
	if err != nil {
		apperrors.LogError(uc.logger, err, "Driver hours check failed", zap.String("owner_id", ownerID))
		return nil, apperrors.Wrap(err, "driver hours check failed")
	}
	computed = append(computed, driverIssues...)

	documentIssues, err := uc.EvaluateDocuments(ctx, ownerID, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "document check failed")
	}
	computed = append(computed, documentIssues...)

	prior, err := uc.repos.Issues.ListByOwner(ctx, ownerID, entity.IssueFilter{})
	if err != nil {
		apperrors.LogError(uc.logger, err, "Failed to load current issues", zap.String("owner_id", ownerID))
		return nil, apperrors.Wrap(err, "failed to load current issues")
	}

	merged := reconcileIssues(ownerID, prior, computed, now)
	if err := uc.repos.Issues.ReplaceAll(ctx, ownerID, merged); err != nil {
		apperrors.LogError(uc.logger, err, "Failed to store issues", zap.String("owner_id", ownerID))
		return nil, apperrors.Wrap(err, "failed to store compliance issues")
	}

	status := entity.NewComplianceStatus(merged, now)
	uc.metrics.ObserveComplianceEvaluation(ownerID, status.Score, merged)

	if _, err := uc.audit.Append(ctx, ownerID, entity.AuditLogInput{
		PerformedBy:   actorID(actor),
		PerformerName: actor.Name,
		Action:        entity.AuditActionComplianceCheck,
		EntityKind:    entity.EntityKindComplianceIssue,
		EntityID:      ownerID,
		Metadata: map[string]interface{}{
			"score":       status.Score,
			"isCompliant": status.IsCompliant,
			"issueCount":  len(merged),
		},
	}); err != nil {
		return nil, err
	}

	uc.logger.Info("Compliance evaluation completed",
		zap.String("owner_id", ownerID),
		zap.Int("score", status.Score),
		zap.Bool("compliant", status.IsCompliant),
		zap.Int("issues", len(merged)),
	)
	return status, nil
}

// reconcileIssues merges a fresh evaluation into the stored set by issue key.
// Reproduced issues keep their id, status, resolution and creation time; the rest are dropped.
func reconcileIssues(ownerID string, prior, computed []*entity.ComplianceIssue, now time.Time) []*entity.ComplianceIssue {
	byKey := make(map[string]*entity.ComplianceIssue, len(prior))
	for _, p := range prior {
		byKey[p.Key] = p
	}

	merged := make([]*entity.ComplianceIssue, 0, len(computed))
	for _, c := range computed {
		c.OwnerID = ownerID
		p, ok := byKey[c.Key]
		if !ok {
			c.ID = uuid.NewString()
			c.Status = entity.IssueStatusOpen
			c.CreatedAt = now
			c.UpdatedAt = now
			merged = append(merged, c)
			continue
		}
		c.ID = p.ID
		c.Status = p.Status
		c.Resolution = p.Resolution
		c.CreatedAt = p.CreatedAt
		c.UpdatedAt = p.UpdatedAt
		if c.Title != p.Title || c.Description != p.Description || !sameDueDate(c.DueDate, p.DueDate) {
			c.UpdatedAt = now
		}
		merged = append(merged, c)
	}
	sortIssues(merged)
	return merged
}

func sameDueDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

var severityRank = map[entity.Severity]int{
	entity.SeverityCritical: 0,
	entity.SeverityHigh:     1,
	entity.SeverityMedium:   2,
	entity.SeverityLow:      3,
}

// sortIssues orders by severity, then subject name, then key.
func sortIssues(issues []*entity.ComplianceIssue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if severityRank[a.Severity] != severityRank[b.Severity] {
			return severityRank[a.Severity] < severityRank[b.Severity]
		}
		if a.SubjectName != b.SubjectName {
			return a.SubjectName < b.SubjectName
		}
		return a.Key < b.Key
	})
}

func actorID(actor entity.Actor) string {
	if actor.ID == "" {
		return "system"
	}
	return actor.ID
}

// GetStatus derives the status from the stored issues. Nothing is re-evaluated.
func (uc *ComplianceUseCase) GetStatus(ctx context.Context, ownerID string) (*entity.ComplianceStatus, error) {
	issues, err := uc.ListIssues(ctx, ownerID, entity.IssueFilter{})
	if err != nil {
		return nil, err
	}
	return entity.NewComplianceStatus(issues, uc.clock()), nil
}

func (uc *ComplianceUseCase) ListIssues(ctx context.Context, ownerID string, filter entity.IssueFilter) ([]*entity.ComplianceIssue, error) {
	if ownerID == "" {
		return nil, domainerrors.ErrMissingOwner
	}
	issues, err := uc.repos.Issues.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		apperrors.LogError(uc.logger, err, "Failed to list issues", zap.String("owner_id", ownerID))
		return nil, apperrors.Wrap(err, "failed to list compliance issues")
	}
	if issues == nil {
		issues = []*entity.ComplianceIssue{}
	}
	sortIssues(issues)
	return issues, nil
}

// UpdateIssueStatus applies a manual status transition and records it in the audit trail.
func (uc *ComplianceUseCase) UpdateIssueStatus(
	ctx context.Context,
	ownerID, issueID string,
	update interfaces.IssueStatusUpdate,
	actor entity.Actor,
) (*entity.ComplianceIssue, error) {
	if ownerID == "" {
		return nil, domainerrors.ErrMissingOwner
	}
	if err := uc.validate.StructCtx(ctx, update); err != nil {
		return nil, validationError(domainerrors.ErrInvalidStatusTransition, err)
	}
	resolution := strings.TrimSpace(update.Resolution)
	if update.Status.RequiresResolution() && resolution == "" {
		return nil, domainerrors.Detail(domainerrors.ErrResolutionRequired, "status %s", update.Status)
	}

	unlock, err := uc.locker.Lock(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	issue, err := uc.repos.Issues.GetByID(ctx, ownerID, issueID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load compliance issue")
	}
	if issue == nil {
		return nil, domainerrors.IssueNotFound(issueID)
	}

	previous := issue.Status
	if !previous.CanTransitionTo(update.Status) {
		return nil, domainerrors.InvalidTransition(string(previous), string(update.Status))
	}

	issue.Status = update.Status
	if update.Status.RequiresResolution() {
		issue.Resolution = &resolution
	} else {
		issue.Resolution = nil
	}
	issue.UpdatedAt = uc.clock()

	if err := uc.repos.Issues.Update(ctx, issue); err != nil {
		apperrors.LogError(uc.logger, err, "Failed to update issue", zap.String("issue_id", issueID))
		return nil, apperrors.Wrap(err, "failed to update compliance issue")
	}

	changes := []entity.FieldChange{{Field: "status", OldValue: previous, NewValue: issue.Status}}
	if issue.Resolution != nil {
		changes = append(changes, entity.FieldChange{Field: "resolution", OldValue: nil, NewValue: *issue.Resolution})
	}
	title := issue.Title
	if _, err := uc.audit.Append(ctx, ownerID, entity.AuditLogInput{
		PerformedBy:   actorID(actor),
		PerformerName: actor.Name,
		Action:        entity.AuditActionStatusChange,
		EntityKind:    entity.EntityKindComplianceIssue,
		EntityID:      issue.ID,
		EntityName:    &title,
		Changes:       changes,
	}); err != nil {
		return nil, err
	}

	return issue, nil
}

// Report summarizes the stored issues together with current driver hours.
func (uc *ComplianceUseCase) Report(ctx context.Context, ownerID string) (*entity.ComplianceReport, error) {
	status, err := uc.GetStatus(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	vehicles, err := uc.repos.Vehicles.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(fmt.Errorf("failed to list vehicles: %w", err), "compliance report failed")
	}

	hours, err := uc.hours.AllDrivers(ctx, ownerID, status.EvaluatedAt)
	if err != nil {
		return nil, err
	}

	bySeverity := make(map[entity.Severity]int, len(entity.Severities))
	for _, s := range entity.Severities {
		bySeverity[s] = 0
	}
	byType := make(map[entity.IssueType]int)
	for _, issue := range status.Issues {
		if !issue.Status.Active() {
			continue
		}
		bySeverity[issue.Severity]++
		byType[issue.Type]++
	}

	return &entity.ComplianceReport{
		Status:           status,
		IssuesBySeverity: bySeverity,
		IssuesByType:     byType,
		DriverHours:      hours,
		VehiclesChecked:  len(vehicles),
		GeneratedAt:      status.EvaluatedAt,
	}, nil
}
