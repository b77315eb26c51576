package repositories

import (
	"context"
	"time"
	. "vehiclecare/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseFilter struct {
	OwnerID   uuid.UUID
	VehicleID *uuid.UUID
	Category  *string
	From      *time.Time
	To        *time.Time
}

type ExpenseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, expense *Expense) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Expense, error)
	List(ctx context.Context, tx *gorm.DB, filter ExpenseFilter) ([]*Expense, error)
	Update(ctx context.Context, tx *gorm.DB, expense *Expense) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	FindByVehicleAndDescription(
		ctx context.Context,
		tx *gorm.DB,
		vehicleID uuid.UUID,
		description string,
	) (*Expense, error)
	ListByVehicleSince(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID, since time.Time) ([]*Expense, error)
	SumForOwnerBetween(
		ctx context.Context,
		tx *gorm.DB,
		ownerID uuid.UUID,
		start, end time.Time,
	) (decimal.Decimal, error)
}

type expenseRepository struct {
	log logger.Logger
}

func NewExpenseRepository() ExpenseRepository {
	return &expenseRepository{
		log: logger.New("expenseRepository"),
	}
}

func (r *expenseRepository) Create(ctx context.Context, tx *gorm.DB, expense *Expense) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Omit("Vehicle").Create(expense).Error; err != nil {
		return log.Err("failed to create expense", err, "vehicleID", expense.VehicleID)
	}

	return nil
}

// GetByID preloads the vehicle and returns nil, nil when the expense does not exist.
func (r *expenseRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Expense, error) {
	log := r.log.Function("GetByID")

	var expense Expense
	if err := tx.WithContext(ctx).Preload("Vehicle").First(&expense, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, log.Err("failed to get expense", err, "expenseID", id)
	}

	return &expense, nil
}

func (r *expenseRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter ExpenseFilter,
) ([]*Expense, error) {
	log := r.log.Function("List")

	query := tx.WithContext(ctx).
		Joins("JOIN vehicles ON vehicles.id = expenses.vehicle_id").
		Where("vehicles.owner_id = ?", filter.OwnerID)

	if filter.VehicleID != nil {
		query = query.Where("expenses.vehicle_id = ?", *filter.VehicleID)
	}
	if filter.Category != nil {
		query = query.Where("expenses.category = ?", *filter.Category)
	}
	if filter.From != nil {
		query = query.Where("expenses.date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("expenses.date < ?", *filter.To)
	}

	var expenses []*Expense
	if err := query.Order("expenses.date DESC").Find(&expenses).Error; err != nil {
		return nil, log.Err("failed to list expenses", err, "ownerID", filter.OwnerID)
	}

	return expenses, nil
}

func (r *expenseRepository) Update(ctx context.Context, tx *gorm.DB, expense *Expense) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Omit("Vehicle").Save(expense).Error; err != nil {
		return log.Err("failed to update expense", err, "expenseID", expense.ID)
	}

	return nil
}

func (r *expenseRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := tx.WithContext(ctx).Delete(&Expense{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete expense", err, "expenseID", id)
	}

	return nil
}

// FindByVehicleAndDescription returns the oldest matching expense, or nil, nil.
func (r *expenseRepository) FindByVehicleAndDescription(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	description string,
) (*Expense, error) {
	log := r.log.Function("FindByVehicleAndDescription")

	var expense Expense
	err := tx.WithContext(ctx).
		Where("vehicle_id = ? AND description = ?", vehicleID, description).
		Order("created_at ASC").
		First(&expense).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, log.Err("failed to find expense by description", err, "vehicleID", vehicleID)
	}

	return &expense, nil
}

func (r *expenseRepository) ListByVehicleSince(
	ctx context.Context,
	tx *gorm.DB,
	vehicleID uuid.UUID,
	since time.Time,
) ([]*Expense, error) {
	log := r.log.Function("ListByVehicleSince")

	var expenses []*Expense
	if err := tx.WithContext(ctx).
		Where("vehicle_id = ? AND date >= ?", vehicleID, since).
		Order("date ASC").
		Find(&expenses).Error; err != nil {
		return nil, log.Err("failed to list vehicle expenses", err, "vehicleID", vehicleID)
	}

	return expenses, nil
}

func (r *expenseRepository) SumForOwnerBetween(
	ctx context.Context,
	tx *gorm.DB,
	ownerID uuid.UUID,
	start, end time.Time,
) (decimal.Decimal, error) {
	log := r.log.Function("SumForOwnerBetween")

	var result struct {
		Total decimal.NullDecimal
	}
	if err := tx.WithContext(ctx).
		Model(&Expense{}).
		Select("SUM(expenses.amount) AS total").
		Joins("JOIN vehicles ON vehicles.id = expenses.vehicle_id").
		Where("vehicles.owner_id = ?", ownerID).
		Where("expenses.date >= ? AND expenses.date < ?", start, end).
		Scan(&result).Error; err != nil {
		return decimal.Zero, log.Err("failed to sum expenses", err, "ownerID", ownerID)
	}

	if !result.Total.Valid {
		return decimal.Zero, nil
	}
	return result.Total.Decimal, nil
}
