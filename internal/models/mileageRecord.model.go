package models

import (
	"time"

	"github.com/google/uuid"
)

// MileageRecord is an append-only odometer reading.
type MileageRecord struct {
	BaseUUIDModel
	VehicleID uuid.UUID `gorm:"type:uuid;not null;index:idx_mileage_records_vehicle_date" json:"vehicleId"`
	Mileage   int       `gorm:"type:int;not null"                                         json:"mileage"`
	Date      time.Time `gorm:"type:timestamp;not null;index:idx_mileage_records_vehicle_date,sort:desc" json:"date"`
	Notes     *string   `gorm:"type:text"                                                 json:"notes,omitempty"`
}
