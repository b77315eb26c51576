package expenseController

import (
	"context"
	"strings"
	"time"
	"vehiclecare/internal/apperrors"
	. "vehiclecare/internal/models"
	"vehiclecare/internal/repositories"
	"vehiclecare/internal/services"
	"vehiclecare/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type ListQuery struct {
	VehicleID *uuid.UUID
	Category  string
	From      *time.Time
	To        *time.Time
}

type ExpenseController struct {
	expenseService *services.ExpenseService
	vehicleService *services.VehicleService
	log            logger.Logger
}

type ExpenseControllerInterface interface {
	Create(ctx context.Context, user *User, request services.CreateExpenseInput) (*Expense, error)
	Get(ctx context.Context, user *User, expenseID uuid.UUID) (*Expense, error)
	List(ctx context.Context, user *User, query ListQuery) ([]*Expense, error)
	Update(
		ctx context.Context,
		user *User,
		expenseID uuid.UUID,
		request services.UpdateExpenseInput,
	) (*Expense, error)
	Delete(ctx context.Context, user *User, expenseID uuid.UUID) error
	Summary(ctx context.Context, user *User, query ListQuery) (*ExpenseSummary, error)
}

func New(services services.Service) ExpenseControllerInterface {
	return &ExpenseController{
		expenseService: services.Expense,
		vehicleService: services.Vehicle,
		log:            logger.New("expenseController"),
	}
}

func (ec *ExpenseController) Create(
	ctx context.Context,
	user *User,
	request services.CreateExpenseInput,
) (*Expense, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if _, err := ec.vehicleService.EnsureOwnership(ctx, request.VehicleID, user.ID); err != nil {
		return nil, err
	}
	return ec.expenseService.Create(ctx, request)
}

func (ec *ExpenseController) owned(ctx context.Context, user *User, expenseID uuid.UUID) (*Expense, error) {
	expense, err := ec.expenseService.Get(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if _, err := ec.vehicleService.EnsureOwnership(ctx, expense.VehicleID, user.ID); err != nil {
		return nil, err
	}
	return expense, nil
}

func (ec *ExpenseController) Get(ctx context.Context, user *User, expenseID uuid.UUID) (*Expense, error) {
	return ec.owned(ctx, user, expenseID)
}

func (ec *ExpenseController) filter(
	ctx context.Context,
	user *User,
	query ListQuery,
) (repositories.ExpenseFilter, error) {
	filter := repositories.ExpenseFilter{OwnerID: user.ID, From: query.From, To: query.To}

	if query.From != nil && query.To != nil && query.From.After(*query.To) {
		return filter, apperrors.Validation("from must not be after to")
	}

	if query.VehicleID != nil {
		if _, err := ec.vehicleService.EnsureOwnership(ctx, *query.VehicleID, user.ID); err != nil {
			return filter, err
		}
		filter.VehicleID = query.VehicleID
	}

	if query.Category != "" {
		category := strings.ToUpper(query.Category)
		filter.Category = &category
	}

	return filter, nil
}

func (ec *ExpenseController) List(ctx context.Context, user *User, query ListQuery) ([]*Expense, error) {
	filter, err := ec.filter(ctx, user, query)
	if err != nil {
		return nil, err
	}

	expenses, err := ec.expenseService.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []*Expense{}
	}
	return expenses, nil
}

func (ec *ExpenseController) Update(
	ctx context.Context,
	user *User,
	expenseID uuid.UUID,
	request services.UpdateExpenseInput,
) (*Expense, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}
	if _, err := ec.owned(ctx, user, expenseID); err != nil {
		return nil, err
	}
	return ec.expenseService.Update(ctx, expenseID, request)
}

func (ec *ExpenseController) Delete(ctx context.Context, user *User, expenseID uuid.UUID) error {
	log := ec.log.Function("Delete")

	if _, err := ec.owned(ctx, user, expenseID); err != nil {
		return err
	}
	if err := ec.expenseService.Delete(ctx, expenseID); err != nil {
		return log.Err("failed to delete expense", err, "expenseID", expenseID)
	}
	return nil
}

func (ec *ExpenseController) Summary(
	ctx context.Context,
	user *User,
	query ListQuery,
) (*ExpenseSummary, error) {
	filter, err := ec.filter(ctx, user, query)
	if err != nil {
		return nil, err
	}
	return ec.expenseService.Summary(ctx, filter)
}
