package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReminderType string

const (
	ReminderTypeTimeBased    ReminderType = "TIME_BASED"
	ReminderTypeMileageBased ReminderType = "MILEAGE_BASED"
	ReminderTypeHybrid       ReminderType = "HYBRID"
)

func (t ReminderType) IsValid() bool {
	switch t {
	case ReminderTypeTimeBased, ReminderTypeMileageBased, ReminderTypeHybrid:
		return true
	}
	return false
}

// UsesDate reports whether the due date is evaluated for this type.
func (t ReminderType) UsesDate() bool {
	return t == ReminderTypeTimeBased || t == ReminderTypeHybrid
}

// UsesMileage reports whether the due mileage is evaluated for this type.
func (t ReminderType) UsesMileage() bool {
	return t == ReminderTypeMileageBased || t == ReminderTypeHybrid
}

type Reminder struct {
	BaseUUIDModel
	VehicleID       uuid.UUID    `gorm:"type:uuid;not null;index:idx_reminders_vehicle_completed" json:"vehicleId"`
	MaintenanceID   *uuid.UUID   `gorm:"type:uuid;index"                                          json:"maintenanceId,omitempty"`
	Description     string       `gorm:"type:text;not null"                                       json:"description"`
	Type            ReminderType `gorm:"type:text;not null"                                       json:"type"`
	DueDate         *time.Time   `gorm:"type:timestamp;index"                                     json:"dueDate,omitempty"`
	DueMileage      *int         `gorm:"type:int"                                                 json:"dueMileage,omitempty"`
	IntervalDays    *int         `gorm:"type:int"                                                 json:"intervalDays,omitempty"`
	IntervalMileage *int         `gorm:"type:int"                                                 json:"intervalMileage,omitempty"`
	Recurring       bool         `gorm:"type:bool;not null;default:false"                         json:"recurring"`
	Completed       bool         `gorm:"type:bool;not null;default:false;index:idx_reminders_vehicle_completed" json:"completed"`
	CompletedAt     *time.Time   `gorm:"type:timestamp"                                           json:"completedAt,omitempty"`
	LastNotified    *time.Time   `gorm:"type:timestamp"                                           json:"lastNotified,omitempty"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) (err error) {
	if r.VehicleID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if !r.Type.IsValid() {
		return gorm.ErrInvalidValue
	}
	return nil
}

// MileageDue reports whether a mileage-evaluated reminder has been reached by mileage.
func (r *Reminder) MileageDue(mileage int) bool {
	return r.Type.UsesMileage() && r.DueMileage != nil && *r.DueMileage <= mileage
}
