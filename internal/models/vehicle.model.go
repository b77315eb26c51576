package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vehicle struct {
	BaseUUIDModel
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_vehicles_owner_plate" json:"ownerId"`
	Brand        string    `gorm:"type:text;not null"                                       json:"brand"`
	Model        string    `gorm:"type:text;not null"                                       json:"model"`
	Year         int       `gorm:"type:int;not null"                                        json:"year"`
	LicensePlate string    `gorm:"type:text;not null;uniqueIndex:idx_vehicles_owner_plate"  json:"licensePlate"`
	Type         string    `gorm:"type:text"                                                json:"type"`
	Color        string    `gorm:"type:text"                                                json:"color"`
	Mileage      int       `gorm:"type:int;not null;default:0"                              json:"mileage"`

	Owner          *User           `gorm:"foreignKey:OwnerID"                                json:"owner,omitempty"`
	Maintenances   []Maintenance   `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"maintenances,omitempty"`
	Expenses       []Expense       `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"expenses,omitempty"`
	Reminders      []Reminder      `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"reminders,omitempty"`
	MileageRecords []MileageRecord `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"mileageRecords,omitempty"`
	Predictions    []Prediction    `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"predictions,omitempty"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.OwnerID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if v.LicensePlate == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}

// Age is the vehicle age in whole years relative to now's calendar year.
func (v *Vehicle) Age(now time.Time) int {
	age := now.Year() - v.Year
	if age < 0 {
		return 0
	}
	return age
}

// DisplayName is used in notification titles and messages.
func (v *Vehicle) DisplayName() string {
	return v.Brand + " " + v.Model + " (" + v.LicensePlate + ")"
}
