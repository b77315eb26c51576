package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PredictionType string

const (
	PredictionTypeExpense     PredictionType = "expense"
	PredictionTypeMaintenance PredictionType = "maintenance"
)

func (t PredictionType) IsValid() bool {
	return t == PredictionTypeExpense || t == PredictionTypeMaintenance
}

type Prediction struct {
	BaseUUIDModel
	VehicleID  uuid.UUID         `gorm:"type:uuid;not null;index:idx_predictions_vehicle_type" json:"vehicleId"`
	Type       PredictionType    `gorm:"type:text;not null;index:idx_predictions_vehicle_type" json:"type"`
	Prediction datatypes.JSONMap `gorm:"type:jsonb;not null"                                   json:"prediction"`
	Confidence float64           `gorm:"type:double precision;not null"                        json:"confidence"`
	ValidUntil time.Time         `gorm:"type:timestamp;not null;index"                         json:"validUntil"`
}

type ReportType string

const ReportTypeWeekly ReportType = "WEEKLY"

// Report is a persisted per-user aggregate over a period.
type Report struct {
	BaseUUIDModel
	UserID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"userId"`
	Type        ReportType        `gorm:"type:text;not null"       json:"type"`
	PeriodStart time.Time         `gorm:"type:timestamp;not null"  json:"periodStart"`
	PeriodEnd   time.Time         `gorm:"type:timestamp;not null"  json:"periodEnd"`
	Data        datatypes.JSONMap `gorm:"type:jsonb;not null"      json:"data"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
