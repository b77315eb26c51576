package services

import (
	"context"
	"strings"
	"time"
	"vehiclecare/internal/apperrors"
	"vehiclecare/internal/models"
	"vehiclecare/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateExpenseInput struct {
	VehicleID   uuid.UUID       `json:"vehicleId"   validate:"required"`
	Description string          `json:"description" validate:"required,max=500"`
	Category    string          `json:"category"    validate:"required,max=50"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"        validate:"required"`
}

type UpdateExpenseInput struct {
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Category    *string          `json:"category"    validate:"omitempty,max=50"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *time.Time       `json:"date"`
}

type ExpenseService struct {
	db       *gorm.DB
	expenses repositories.ExpenseRepository
	vehicles repositories.VehicleRepository
	now      clock
	log      logger.Logger
}

func NewExpenseService(db *gorm.DB, repos repositories.Repository) *ExpenseService {
	return &ExpenseService{
		db:       db,
		expenses: repos.Expense,
		vehicles: repos.Vehicle,
		now:      time.Now,
		log:      logger.New("expenseService"),
	}
}

func validateExpense(expense *models.Expense) error {
	if strings.TrimSpace(expense.Description) == "" {
		return apperrors.Validation("description is required")
	}
	if strings.TrimSpace(expense.Category) == "" {
		return apperrors.Validation("category is required")
	}
	if !expense.Amount.IsPositive() {
		return apperrors.Validation("amount must be greater than zero")
	}
	if expense.Date.IsZero() {
		return apperrors.Validation("date is required")
	}
	return nil
}

func (s *ExpenseService) Create(ctx context.Context, input CreateExpenseInput) (*models.Expense, error) {
	expense := &models.Expense{
		VehicleID:   input.VehicleID,
		Description: input.Description,
		Category:    strings.ToUpper(strings.TrimSpace(input.Category)),
		Amount:      input.Amount,
		Date:        input.Date,
	}
	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, s.db, input.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, apperrors.ErrVehicleNotFound
	}

	if err := s.expenses.Create(ctx, s.db, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) Get(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	expense, err := s.expenses.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, apperrors.ErrExpenseNotFound
	}
	return expense, nil
}

func (s *ExpenseService) List(
	ctx context.Context,
	filter repositories.ExpenseFilter,
) ([]*models.Expense, error) {
	return s.expenses.List(ctx, s.db, filter)
}

func (s *ExpenseService) Update(
	ctx context.Context,
	id uuid.UUID,
	input UpdateExpenseInput,
) (*models.Expense, error) {
	expense, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		expense.Description = *input.Description
	}
	if input.Category != nil {
		expense.Category = strings.ToUpper(strings.TrimSpace(*input.Category))
	}
	if input.Amount != nil {
		expense.Amount = *input.Amount
	}
	if input.Date != nil {
		expense.Date = *input.Date
	}

	if err := validateExpense(expense); err != nil {
		return nil, err
	}

	if err := s.expenses.Update(ctx, s.db, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.expenses.Delete(ctx, s.db, id)
}

// Summary aggregates the filtered expenses by category and by calendar month (YYYY-MM).
func (s *ExpenseService) Summary(
	ctx context.Context,
	filter repositories.ExpenseFilter,
) (*models.ExpenseSummary, error) {
	expenses, err := s.expenses.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	return SummarizeExpenses(expenses), nil
}

func SummarizeExpenses(expenses []*models.Expense) *models.ExpenseSummary {
	summary := &models.ExpenseSummary{
		Total:      decimal.Zero,
		Count:      len(expenses),
		ByCategory: make(map[string]decimal.Decimal),
		ByMonth:    make(map[string]decimal.Decimal),
	}

	for _, expense := range expenses {
		summary.Total = summary.Total.Add(expense.Amount)
		summary.ByCategory[expense.Category] = summary.ByCategory[expense.Category].Add(expense.Amount)
		month := expense.Date.Format("2006-01")
		summary.ByMonth[month] = summary.ByMonth[month].Add(expense.Amount)
	}

	return summary
}

// MonthlyTotalForOwner sums the owner's expenses from the first of the current month to now.
func (s *ExpenseService) MonthlyTotalForOwner(ctx context.Context, ownerID uuid.UUID) (decimal.Decimal, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return s.expenses.SumForOwnerBetween(ctx, s.db, ownerID, start, now)
}
