package services

import (
	"time"
	"vehiclecare/internal/models"
)

type smartReminderTemplate func(vehicle *models.Vehicle, now time.Time) CreateReminderInput

// Template keys accepted by CreateSmartReminder.
const (
	SmartReminderOilChange          = "oil_change"
	SmartReminderTireRotation       = "tire_rotation"
	SmartReminderBrakeCheck         = "brake_check"
	SmartReminderGeneralMaintenance = "general_maintenance"
)

var smartReminderTemplates = map[string]smartReminderTemplate{
	SmartReminderOilChange: func(vehicle *models.Vehicle, now time.Time) CreateReminderInput {
		return CreateReminderInput{
			VehicleID:       vehicle.ID,
			Description:     "Oil change",
			Type:            models.ReminderTypeHybrid,
			DueDate:         timePtr(now.AddDate(0, 0, 180)),
			DueMileage:      intPtr(vehicle.Mileage + 10000),
			IntervalDays:    intPtr(180),
			IntervalMileage: intPtr(10000),
			Recurring:       true,
		}
	},
	SmartReminderTireRotation: func(vehicle *models.Vehicle, now time.Time) CreateReminderInput {
		return CreateReminderInput{
			VehicleID:       vehicle.ID,
			Description:     "Tire rotation",
			Type:            models.ReminderTypeMileageBased,
			DueMileage:      intPtr(vehicle.Mileage + 8000),
			IntervalMileage: intPtr(8000),
			Recurring:       true,
		}
	},
	SmartReminderBrakeCheck: func(vehicle *models.Vehicle, now time.Time) CreateReminderInput {
		interval := 20000
		if vehicle.Age(now) > 5 {
			interval = 15000
		}
		return CreateReminderInput{
			VehicleID:       vehicle.ID,
			Description:     "Brake inspection",
			Type:            models.ReminderTypeHybrid,
			DueDate:         timePtr(now.AddDate(0, 0, 365)),
			DueMileage:      intPtr(vehicle.Mileage + interval),
			IntervalDays:    intPtr(365),
			IntervalMileage: intPtr(interval),
			Recurring:       true,
		}
	},
	SmartReminderGeneralMaintenance: func(vehicle *models.Vehicle, now time.Time) CreateReminderInput {
		days := 180
		if vehicle.Age(now) > 10 {
			days = 90
		}
		return CreateReminderInput{
			VehicleID:    vehicle.ID,
			Description:  "General service",
			Type:         models.ReminderTypeTimeBased,
			DueDate:      timePtr(now.AddDate(0, 0, days)),
			IntervalDays: intPtr(days),
			Recurring:    true,
		}
	},
}

// SmartReminderTypes lists the template keys in a stable order.
func SmartReminderTypes() []string {
	return []string{
		SmartReminderOilChange,
		SmartReminderTireRotation,
		SmartReminderBrakeCheck,
		SmartReminderGeneralMaintenance,
	}
}
