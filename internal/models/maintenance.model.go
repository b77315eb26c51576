package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MaintenanceType string

const (
	MaintenanceTypePreventive MaintenanceType = "PREVENTIVE"
	MaintenanceTypeCorrective MaintenanceType = "CORRECTIVE"
	MaintenanceTypeInspection MaintenanceType = "INSPECTION"
)

func (t MaintenanceType) IsValid() bool {
	switch t {
	case MaintenanceTypePreventive, MaintenanceTypeCorrective, MaintenanceTypeInspection:
		return true
	}
	return false
}

type MaintenanceStatus string

const (
	MaintenanceStatusScheduled  MaintenanceStatus = "SCHEDULED"
	MaintenanceStatusInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceStatusCompleted  MaintenanceStatus = "COMPLETED"
	MaintenanceStatusCancelled  MaintenanceStatus = "CANCELLED"
)

func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenanceStatusScheduled,
		MaintenanceStatusInProgress,
		MaintenanceStatusCompleted,
		MaintenanceStatusCancelled:
		return true
	}
	return false
}

type Maintenance struct {
	BaseUUIDModel
	VehicleID     uuid.UUID         `gorm:"type:uuid;not null;index:idx_maintenances_vehicle"                 json:"vehicleId"`
	MechanicID    *uuid.UUID        `gorm:"type:uuid;index:idx_maintenances_mechanic"                         json:"mechanicId,omitempty"`
	Type          MaintenanceType   `gorm:"type:text;not null"                                                json:"type"`
	Status        MaintenanceStatus `gorm:"type:text;not null;default:'SCHEDULED';index:idx_maintenances_due" json:"status"`
	Description   string            `gorm:"type:text;not null"                                                json:"description"`
	ScheduledDate time.Time         `gorm:"type:timestamp;not null;index:idx_maintenances_due"                json:"scheduledDate"`
	CompletedDate *time.Time        `gorm:"type:timestamp"                                                    json:"completedDate,omitempty"`
	Cost          *decimal.Decimal  `gorm:"type:numeric(12,2)"                                                json:"cost,omitempty"`
	Mileage       *int              `gorm:"type:int"                                                          json:"mileage,omitempty"`
	Notes         *string           `gorm:"type:text"                                                         json:"notes,omitempty"`

	Vehicle  *Vehicle `gorm:"foreignKey:VehicleID"  json:"vehicle,omitempty"`
	Mechanic *User    `gorm:"foreignKey:MechanicID" json:"mechanic,omitempty"`
}

func (m *Maintenance) BeforeCreate(tx *gorm.DB) (err error) {
	if m.VehicleID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if m.Type == "" {
		return gorm.ErrInvalidValue
	}
	if m.Status == "" {
		m.Status = MaintenanceStatusScheduled
	}
	return nil
}

// HasCost reports whether a positive cost has been recorded.
func (m *Maintenance) HasCost() bool {
	return m.Cost != nil && m.Cost.IsPositive()
}
