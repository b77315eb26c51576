package services

import (
	"vehiclecare/config"
	"vehiclecare/internal/database"
	"vehiclecare/internal/events"
	"vehiclecare/internal/repositories"
)

type Service struct {
	Transaction         *TransactionService
	Email               *EmailService
	Notification        *NotificationService
	MileageEvaluator    *MileageReminderEvaluator
	Reminder            *ReminderService
	MileageNotification *MileageNotificationService
	Maintenance         *MaintenanceService
	Expense             *ExpenseService
	Vehicle             *VehicleService
	Prediction          *PredictionService
	Cron                *CronService
	Auth                *AuthService
	Scheduler           *SchedulerService
}

func New(
	db database.DB,
	config config.Config,
	eventBus *events.EventBus,
	repos repositories.Repository,
) (Service, error) {
	transactionService := NewTransactionService(db)
	emailService := NewEmailService(config)

	var publisher EventPublisher
	if eventBus != nil {
		publisher = eventBus
	}

	notificationService := NewNotificationService(db.SQL, repos, emailService, publisher)
	evaluator := NewMileageReminderEvaluator(db.SQL, repos)
	reminderService := NewReminderService(db.SQL, repos, notificationService, evaluator)
	mileageNotificationService := NewMileageNotificationService(
		db.SQL,
		repos,
		evaluator,
		notificationService,
	)
	maintenanceService := NewMaintenanceService(db.SQL, repos, notificationService)
	expenseService := NewExpenseService(db.SQL, repos)
	vehicleService := NewVehicleService(db.SQL, repos)
	predictionService := NewPredictionService(db.SQL, repos)
	cronService := NewCronService(
		db.SQL,
		repos,
		notificationService,
		notificationService,
		predictionService,
	)
	authService := NewAuthService(db.SQL, config, repos, transactionService)
	schedulerService := NewSchedulerService(config)

	return Service{
		Transaction:         transactionService,
		Email:               emailService,
		Notification:        notificationService,
		MileageEvaluator:    evaluator,
		Reminder:            reminderService,
		MileageNotification: mileageNotificationService,
		Maintenance:         maintenanceService,
		Expense:             expenseService,
		Vehicle:             vehicleService,
		Prediction:          predictionService,
		Cron:                cronService,
		Auth:                authService,
		Scheduler:           schedulerService,
	}, nil
}
