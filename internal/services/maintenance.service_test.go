package services

import (
	"context"
	"testing"
	"time"
	"vehiclecare/internal/apperrors"
	"vehiclecare/internal/models"
	"vehiclecare/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMaintenanceService(env *testEnv) *MaintenanceService {
	service := NewMaintenanceService(nil, env.repos, env.notifier)
	service.now = fixedClock(testNow)
	return service
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func completedStatus() *models.MaintenanceStatus {
	status := models.MaintenanceStatusCompleted
	return &status
}

func TestCreateMaintenance_SideEffects(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 1000)
	scheduled := time.Date(2025, time.April, 2, 14, 45, 0, 0, time.UTC)

	maintenance, err := newMaintenanceService(env).Create(ctx, CreateMaintenanceInput{
		VehicleID:     vehicle.ID,
		Type:          models.MaintenanceTypePreventive,
		Description:   "Oil change",
		ScheduledDate: scheduled,
		Cost:          decimalPtr(120),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceStatusScheduled, maintenance.Status)

	scheduledNotes := env.notifier.ofType(models.NotificationTypeMaintenanceScheduled)
	require.Len(t, scheduledNotes, 1)
	assert.Equal(t, user.ID, scheduledNotes[0].UserID)

	reminders := env.reminders.all()
	require.Len(t, reminders, 1)
	assert.Equal(t, models.ReminderTypeTimeBased, reminders[0].Type)
	assert.Equal(t, "Maintenance: Oil change", reminders[0].Description)
	assert.Equal(t, time.Date(2025, time.April, 2, 8, 0, 0, 0, time.UTC), *reminders[0].DueDate)
	require.NotNil(t, reminders[0].MaintenanceID)
	assert.Equal(t, maintenance.ID, *reminders[0].MaintenanceID)

	require.Equal(t, 1, env.expenses.count())
	expense := env.expenses.expenses[0]
	assert.Equal(t, models.ExpenseCategoryMaintenance, expense.Category)
	assert.True(t, decimal.NewFromInt(120).Equal(expense.Amount))
	assert.Equal(t, scheduled, expense.Date)
}

func TestCreateMaintenance_WithoutCostCreatesNoExpense(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 1000)

	_, err := newMaintenanceService(env).Create(context.Background(), CreateMaintenanceInput{
		VehicleID:     vehicle.ID,
		Type:          models.MaintenanceTypeInspection,
		Description:   "Annual inspection",
		ScheduledDate: testNow.AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, env.expenses.count())
	assert.Len(t, env.reminders.all(), 1)
}

func TestCreateMaintenance_ReminderFailureIsNotAtomic(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.reminders.createErr = errFakeStore
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 1000)
	service := newMaintenanceService(env)

	maintenance, err := service.Create(ctx, CreateMaintenanceInput{
		VehicleID:     vehicle.ID,
		Type:          models.MaintenanceTypeCorrective,
		Description:   "Replace alternator",
		ScheduledDate: testNow.AddDate(0, 0, 2),
		Cost:          decimalPtr(450),
	})
	require.NoError(t, err)
	require.NotNil(t, maintenance)

	stored, err := service.Get(ctx, maintenance.ID)
	require.NoError(t, err)
	assert.Equal(t, "Replace alternator", stored.Description)

	assert.Empty(t, env.reminders.all())
	assert.Len(t, env.notifier.ofType(models.NotificationTypeMaintenanceScheduled), 1)
	assert.Equal(t, 1, env.expenses.count())
}

func TestCreateMaintenance_NotificationPanicIsContained(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 1000)
	service := NewMaintenanceService(nil, env.repos, panickingNotifier{})

	maintenance, err := service.Create(context.Background(), CreateMaintenanceInput{
		VehicleID:     vehicle.ID,
		Type:          models.MaintenanceTypePreventive,
		Description:   "Air filter",
		ScheduledDate: testNow,
	})
	require.NoError(t, err)
	assert.NotNil(t, maintenance)
	assert.Len(t, env.reminders.all(), 1)
}

type panickingNotifier struct{}

func (panickingNotifier) CreateNotification(
	ctx context.Context,
	input CreateNotificationInput,
) (*models.Notification, error) {
	panic("notifier exploded")
}

func TestCreateMaintenance_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 1000)
	service := newMaintenanceService(env)

	tests := []struct {
		name    string
		input   CreateMaintenanceInput
		wantErr error
	}{
		{
			name: "unknown type",
			input: CreateMaintenanceInput{
				VehicleID: vehicle.ID, Type: "WASH", Description: "x", ScheduledDate: testNow,
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "negative cost",
			input: CreateMaintenanceInput{
				VehicleID: vehicle.ID, Type: models.MaintenanceTypePreventive, Description: "x",
				ScheduledDate: testNow, Cost: decimalPtr(-5),
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "unknown vehicle",
			input: CreateMaintenanceInput{
				VehicleID: uuid.New(), Type: models.MaintenanceTypePreventive, Description: "x", ScheduledDate: testNow,
			},
			wantErr: apperrors.ErrVehicleNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, env.maintenances.maintenances)
}

func TestUpdateMaintenance_CompletionDoesNotDuplicateExpense(t *testing.T) {
	tests := []struct {
		name       string
		createCost *decimal.Decimal
	}{
		{name: "cost first set on completion"},
		{name: "cost set at creation", createCost: decimalPtr(500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			env := newTestEnv()
			user := env.addUser(t)
			vehicle := env.addVehicle(t, user.ID, 1000)
			service := newMaintenanceService(env)

			maintenance, err := service.Create(ctx, CreateMaintenanceInput{
				VehicleID:     vehicle.ID,
				Type:          models.MaintenanceTypePreventive,
				Description:   "Brake pads",
				ScheduledDate: testNow.AddDate(0, 0, -1),
				Cost:          tt.createCost,
			})
			require.NoError(t, err)

			for range 2 {
				_, err := service.Update(ctx, maintenance.ID, UpdateMaintenanceInput{
					Status: completedStatus(),
					Cost:   decimalPtr(500),
				})
				require.NoError(t, err)
			}

			expenses, err := env.expenses.List(ctx, nil, repositories.ExpenseFilter{OwnerID: user.ID})
			require.NoError(t, err)
			require.Len(t, expenses, 1)
			assert.Equal(t, models.ExpenseCategoryMaintenance, expenses[0].Category)
			assert.True(t, decimal.NewFromInt(500).Equal(expenses[0].Amount))

			assert.Len(t, env.notifier.ofType(models.NotificationTypeMaintenanceCompleted), 2)
		})
	}
}

func TestUpdateMaintenance_CostChangeRefreshesExpense(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 1000)
	service := newMaintenanceService(env)

	maintenance, err := service.Create(ctx, CreateMaintenanceInput{
		VehicleID:     vehicle.ID,
		Type:          models.MaintenanceTypeCorrective,
		Description:   "Clutch",
		ScheduledDate: testNow.AddDate(0, 0, -3),
		Cost:          decimalPtr(800),
	})
	require.NoError(t, err)

	updated, err := service.Update(ctx, maintenance.ID, UpdateMaintenanceInput{
		Status: completedStatus(),
		Cost:   decimalPtr(950),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedDate)
	assert.Equal(t, testNow, *updated.CompletedDate)

	require.Equal(t, 1, env.expenses.count())
	assert.True(t, decimal.NewFromInt(950).Equal(env.expenses.expenses[0].Amount))
	assert.Equal(t, testNow, env.expenses.expenses[0].Date)
}

func TestUpdateMaintenance_NonCompletionHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 1000)
	service := newMaintenanceService(env)

	maintenance, err := service.Create(ctx, CreateMaintenanceInput{
		VehicleID:     vehicle.ID,
		Type:          models.MaintenanceTypePreventive,
		Description:   "Detailing",
		ScheduledDate: testNow,
	})
	require.NoError(t, err)

	inProgress := models.MaintenanceStatusInProgress
	updated, err := service.Update(ctx, maintenance.ID, UpdateMaintenanceInput{
		Status: &inProgress,
		Cost:   decimalPtr(90),
	})
	require.NoError(t, err)
	assert.Equal(t, models.MaintenanceStatusInProgress, updated.Status)
	assert.Nil(t, updated.CompletedDate)
	assert.Equal(t, 0, env.expenses.count())
	assert.Empty(t, env.notifier.ofType(models.NotificationTypeMaintenanceCompleted))

	_, err = service.Update(ctx, uuid.New(), UpdateMaintenanceInput{Status: &inProgress})
	assert.ErrorIs(t, err, apperrors.ErrMaintenanceNotFound)
}
