package database

import (
	"vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// MigrationModels lists models in dependency order; parents before children.
func MigrationModels() []any {
	return []any{
		&models.User{},
		&models.UserSettings{},
		&models.Vehicle{},
		&models.Maintenance{},
		&models.Expense{},
		&models.Reminder{},
		&models.MileageRecord{},
		&models.Prediction{},
		&models.Notification{},
		&models.Report{},
	}
}

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range MigrationModels() {
		if err := db.SQL.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates partial indexes that GORM tags cannot express
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_reminders_pending_due ON reminders(due_date) WHERE completed = false",
		"CREATE INDEX IF NOT EXISTS idx_notifications_read_created ON notifications(created_at) WHERE read = true",
		"CREATE INDEX IF NOT EXISTS idx_maintenances_scheduled ON maintenances(scheduled_date) WHERE status = 'SCHEDULED'",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
