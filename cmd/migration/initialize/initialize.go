package initialize

import (
	"vehiclecare/config"
	. "vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeUserSettings(db, log); err != nil {
		return log.Err("failed to initialize user settings", err)
	}

	log.Info("Table initialization complete")
	return nil
}

// initializeUserSettings backfills default notification settings for users created
// before settings existed.
func initializeUserSettings(db *gorm.DB, log logger.Logger) error {
	var users []User
	if err := db.
		Where("NOT EXISTS (SELECT 1 FROM user_settings WHERE user_settings.user_id = users.id)").
		Find(&users).Error; err != nil {
		return log.Err("failed to find users without settings", err)
	}

	for _, user := range users {
		log.Info("Creating default settings", "userID", user.ID)
		if err := db.Create(DefaultUserSettings(user.ID)).Error; err != nil {
			return log.Err("failed to create default settings", err, "userID", user.ID)
		}
	}

	log.Info("User settings initialized", "count", len(users))
	return nil
}
