package repositories

import (
	"errors"
	"vehiclecare/internal/database"

	"gorm.io/gorm"
)

type Repository struct {
	User          UserRepository
	UserSettings  UserSettingsRepository
	Vehicle       VehicleRepository
	Maintenance   MaintenanceRepository
	Expense       ExpenseRepository
	Reminder      ReminderRepository
	Notification  NotificationRepository
	MileageRecord MileageRecordRepository
	Prediction    PredictionRepository
	Report        ReportRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:          NewUserRepository(db.Cache.User),
		UserSettings:  NewUserSettingsRepository(db.Cache.User),
		Vehicle:       NewVehicleRepository(),
		Maintenance:   NewMaintenanceRepository(),
		Expense:       NewExpenseRepository(),
		Reminder:      NewReminderRepository(),
		Notification:  NewNotificationRepository(),
		MileageRecord: NewMileageRecordRepository(),
		Prediction:    NewPredictionRepository(),
		Report:        NewReportRepository(),
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
