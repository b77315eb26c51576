package controllers

import (
	"vehiclecare/internal/services"

	adminController "vehiclecare/internal/controllers/admin"
	authController "vehiclecare/internal/controllers/auth"
	expenseController "vehiclecare/internal/controllers/expenses"
	maintenanceController "vehiclecare/internal/controllers/maintenances"
	notificationController "vehiclecare/internal/controllers/notifications"
	predictionController "vehiclecare/internal/controllers/predictions"
	reminderController "vehiclecare/internal/controllers/reminders"
	userController "vehiclecare/internal/controllers/users"
	vehicleController "vehiclecare/internal/controllers/vehicles"
)

type Controllers struct {
	Auth         authController.AuthControllerInterface
	User         userController.UserControllerInterface
	Vehicle      vehicleController.VehicleControllerInterface
	Maintenance  maintenanceController.MaintenanceControllerInterface
	Expense      expenseController.ExpenseControllerInterface
	Reminder     reminderController.ReminderControllerInterface
	Notification notificationController.NotificationControllerInterface
	Prediction   predictionController.PredictionControllerInterface
	Admin        adminController.AdminControllerInterface
}

func New(services services.Service) Controllers {
	return Controllers{
		Auth:         authController.New(services),
		User:         userController.New(services),
		Vehicle:      vehicleController.New(services),
		Maintenance:  maintenanceController.New(services),
		Expense:      expenseController.New(services),
		Reminder:     reminderController.New(services),
		Notification: notificationController.New(services),
		Prediction:   predictionController.New(services),
		Admin:        adminController.New(services),
	}
}
