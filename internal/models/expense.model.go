package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Well-known expense categories. The column is free-form so users can add their own.
const (
	ExpenseCategoryMaintenance = "MAINTENANCE"
	ExpenseCategoryFuel        = "FUEL"
	ExpenseCategoryInsurance   = "INSURANCE"
	ExpenseCategoryTax         = "TAX"
	ExpenseCategoryParking     = "PARKING"
	ExpenseCategoryOther       = "OTHER"
)

type Expense struct {
	BaseUUIDModel
	VehicleID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_expenses_vehicle_description" json:"vehicleId"`
	Description string          `gorm:"type:text;not null;index:idx_expenses_vehicle_description" json:"description"`
	Category    string          `gorm:"type:text;not null;index"                                   json:"category"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"                                json:"amount"`
	Date        time.Time       `gorm:"type:timestamp;not null;index"                              json:"date"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

type ExpenseSummary struct {
	Total      decimal.Decimal            `json:"total"`
	Count      int                        `json:"count"`
	ByCategory map[string]decimal.Decimal `json:"byCategory"`
	ByMonth    map[string]decimal.Decimal `json:"byMonth"`
}
