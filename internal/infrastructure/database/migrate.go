package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/model"
)

// Migrate creates the tables this service owns. Record store tables are managed elsewhere.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(
		&model.AuditLog{},
		&model.ComplianceIssue{},
	); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates partial indexes that struct tags cannot express
func createCustomIndexes(db *gorm.DB) error {
	// Active issues drive the score
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_fleet_compliance_issues_active ON fleet_compliance_issues (owner_id, severity) WHERE status IN ('OPEN', 'IN_PROGRESS')`).Error; err != nil {
		return err
	}

	return nil
}
