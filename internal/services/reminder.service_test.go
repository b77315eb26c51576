package services

import (
	"context"
	"testing"
	"time"
	"vehiclecare/internal/apperrors"
	"vehiclecare/internal/models"
	"vehiclecare/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func newReminderService(env *testEnv, now time.Time) *ReminderService {
	evaluator := NewMileageReminderEvaluator(nil, env.repos)
	evaluator.now = fixedClock(now)
	service := NewReminderService(nil, env.repos, env.notifier, evaluator)
	service.now = fixedClock(now)
	return service
}

func TestMarkAsCompleted_RecurrenceDriftsFromCompletionTime(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 42000)

	originalDue := testNow.AddDate(0, 0, -45)
	reminder := env.addReminder(t, &models.Reminder{
		VehicleID:    vehicle.ID,
		Description:  "Cabin filter",
		Type:         models.ReminderTypeTimeBased,
		DueDate:      &originalDue,
		IntervalDays: intPtr(90),
		Recurring:    true,
	})

	service := newReminderService(env, testNow)
	completed, err := service.MarkAsCompleted(ctx, reminder.ID)
	require.NoError(t, err)
	assert.True(t, completed.Completed)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, testNow, *completed.CompletedAt)

	all := env.reminders.all()
	require.Len(t, all, 2)

	successor := all[1]
	assert.False(t, successor.Completed)
	assert.True(t, successor.Recurring)
	require.NotNil(t, successor.DueDate)
	assert.Equal(t, testNow.AddDate(0, 0, 90), *successor.DueDate)
	assert.NotEqual(t, originalDue.AddDate(0, 0, 90), *successor.DueDate)
	assert.Nil(t, successor.DueMileage)

	assert.Len(t, env.notifier.ofType(models.NotificationTypeReminderCompleted), 1)
}

func TestMarkAsCompleted_MileageSuccessorUsesCurrentOdometer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 61234)

	reminder := env.addReminder(t, &models.Reminder{
		VehicleID:       vehicle.ID,
		Description:     "Tire rotation",
		Type:            models.ReminderTypeMileageBased,
		DueMileage:      intPtr(60000),
		IntervalMileage: intPtr(8000),
		Recurring:       true,
	})

	_, err := newReminderService(env, testNow).MarkAsCompleted(ctx, reminder.ID)
	require.NoError(t, err)

	all := env.reminders.all()
	require.Len(t, all, 2)
	require.NotNil(t, all[1].DueMileage)
	assert.Equal(t, 69234, *all[1].DueMileage)
	assert.Nil(t, all[1].DueDate)
}

func TestMarkAsCompleted_EdgeCases(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 1000)
	service := newReminderService(env, testNow)

	t.Run("unknown reminder", func(t *testing.T) {
		_, err := service.MarkAsCompleted(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrReminderNotFound)
	})

	t.Run("non recurring creates no successor", func(t *testing.T) {
		due := testNow.AddDate(0, 0, 3)
		reminder := env.addReminder(t, &models.Reminder{
			VehicleID:   vehicle.ID,
			Description: "Registration renewal",
			Type:        models.ReminderTypeTimeBased,
			DueDate:     &due,
		})
		before := len(env.reminders.all())

		_, err := service.MarkAsCompleted(ctx, reminder.ID)
		require.NoError(t, err)
		assert.Len(t, env.reminders.all(), before)
	})

	t.Run("already completed is returned unchanged", func(t *testing.T) {
		due := testNow.AddDate(0, 0, 3)
		reminder := env.addReminder(t, &models.Reminder{
			VehicleID:    vehicle.ID,
			Description:  "Wipers",
			Type:         models.ReminderTypeTimeBased,
			DueDate:      &due,
			IntervalDays: intPtr(30),
			Recurring:    true,
		})

		_, err := service.MarkAsCompleted(ctx, reminder.ID)
		require.NoError(t, err)
		count := len(env.reminders.all())

		again, err := service.MarkAsCompleted(ctx, reminder.ID)
		require.NoError(t, err)
		assert.True(t, again.Completed)
		assert.Len(t, env.reminders.all(), count)
	})
}

func TestCreateReminder_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 1000)
	service := newReminderService(env, testNow)
	due := testNow.AddDate(0, 1, 0)

	tests := []struct {
		name    string
		input   CreateReminderInput
		wantErr *apperrors.AppError
	}{
		{
			name: "time based without date",
			input: CreateReminderInput{
				VehicleID: vehicle.ID, Description: "x", Type: models.ReminderTypeTimeBased,
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "mileage based without mileage",
			input: CreateReminderInput{
				VehicleID: vehicle.ID, Description: "x", Type: models.ReminderTypeMileageBased, DueDate: &due,
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "recurring without interval",
			input: CreateReminderInput{
				VehicleID: vehicle.ID, Description: "x", Type: models.ReminderTypeTimeBased, DueDate: &due, Recurring: true,
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "unknown vehicle",
			input: CreateReminderInput{
				VehicleID: uuid.New(), Description: "x", Type: models.ReminderTypeTimeBased, DueDate: &due,
			},
			wantErr: apperrors.ErrVehicleNotFound,
		},
		{
			name: "hybrid with only mileage",
			input: CreateReminderInput{
				VehicleID: vehicle.ID, Description: "x", Type: models.ReminderTypeHybrid, DueMileage: intPtr(5000),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reminder, err := service.Create(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, reminder)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, reminder.ID)
		})
	}

	created := env.notifier.ofType(models.NotificationTypeReminderCreated)
	require.Len(t, created, 1)
	assert.Equal(t, user.ID, created[0].UserID)
	assert.Equal(t, models.NotificationCategoryReminder, created[0].Category)
}

func TestCreateReminder_NotificationFailureDoesNotFailCreate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.notifier.err = errFakeStore
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 1000)

	reminder, err := newReminderService(env, testNow).Create(ctx, CreateReminderInput{
		VehicleID:   vehicle.ID,
		Description: "Battery check",
		Type:        models.ReminderTypeMileageBased,
		DueMileage:  intPtr(2000),
	})
	require.NoError(t, err)
	assert.NotNil(t, reminder)
	assert.Len(t, env.reminders.all(), 1)
}

func TestCreateSmartReminder_Templates(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		key            string
		year           int
		wantType       models.ReminderType
		wantDueDate    *time.Time
		wantDueMileage *int
	}{
		{
			name:           "oil change",
			key:            SmartReminderOilChange,
			year:           2020,
			wantType:       models.ReminderTypeHybrid,
			wantDueDate:    timePtr(testNow.AddDate(0, 0, 180)),
			wantDueMileage: intPtr(50000 + 10000),
		},
		{
			name:           "tire rotation",
			key:            SmartReminderTireRotation,
			year:           2020,
			wantType:       models.ReminderTypeMileageBased,
			wantDueMileage: intPtr(50000 + 8000),
		},
		{
			name:           "brake check on a newer vehicle",
			key:            SmartReminderBrakeCheck,
			year:           2022,
			wantType:       models.ReminderTypeHybrid,
			wantDueDate:    timePtr(testNow.AddDate(0, 0, 365)),
			wantDueMileage: intPtr(50000 + 20000),
		},
		{
			name:           "brake check on an older vehicle",
			key:            SmartReminderBrakeCheck,
			year:           2015,
			wantType:       models.ReminderTypeHybrid,
			wantDueDate:    timePtr(testNow.AddDate(0, 0, 365)),
			wantDueMileage: intPtr(50000 + 15000),
		},
		{
			name:        "general maintenance on a newer vehicle",
			key:         SmartReminderGeneralMaintenance,
			year:        2020,
			wantType:    models.ReminderTypeTimeBased,
			wantDueDate: timePtr(testNow.AddDate(0, 0, 180)),
		},
		{
			name:        "general maintenance on a vehicle over ten years old",
			key:         SmartReminderGeneralMaintenance,
			year:        2010,
			wantType:    models.ReminderTypeTimeBased,
			wantDueDate: timePtr(testNow.AddDate(0, 0, 90)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			user := env.addUser(t)
			vehicle := env.addVehicle(t, user.ID, 50000)
			vehicle.Year = tt.year
			require.NoError(t, env.vehicles.Update(ctx, nil, vehicle))

			reminder, err := newReminderService(env, testNow).CreateSmartReminder(ctx, vehicle.ID, tt.key)
			require.NoError(t, err)

			assert.Equal(t, tt.wantType, reminder.Type)
			assert.True(t, reminder.Recurring)
			assert.Equal(t, tt.wantDueDate, reminder.DueDate)
			assert.Equal(t, tt.wantDueMileage, reminder.DueMileage)
		})
	}
}

func TestCreateSmartReminder_UnknownTemplate(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 1000)

	_, err := newReminderService(env, testNow).CreateSmartReminder(context.Background(), vehicle.ID, "windshield")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownReminderTemplate)
	assert.Contains(t, err.Error(), "windshield")
	assert.Empty(t, env.reminders.all())
}

func TestGetUpcomingReminders(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 1000)

	soon := env.addReminder(t, &models.Reminder{
		VehicleID: vehicle.ID, Description: "soon", Type: models.ReminderTypeTimeBased,
		DueDate: timePtr(testNow.AddDate(0, 0, 10)),
	})
	env.addReminder(t, &models.Reminder{
		VehicleID: vehicle.ID, Description: "later", Type: models.ReminderTypeTimeBased,
		DueDate: timePtr(testNow.AddDate(0, 0, 60)),
	})
	env.addReminder(t, &models.Reminder{
		VehicleID: vehicle.ID, Description: "past", Type: models.ReminderTypeTimeBased,
		DueDate: timePtr(testNow.AddDate(0, 0, -1)),
	})
	farMileage := env.addReminder(t, &models.Reminder{
		VehicleID: vehicle.ID, Description: "far mileage", Type: models.ReminderTypeMileageBased,
		DueMileage: intPtr(500000),
	})
	env.addReminder(t, &models.Reminder{
		VehicleID: vehicle.ID, Description: "done", Type: models.ReminderTypeTimeBased,
		DueDate: timePtr(testNow.AddDate(0, 0, 5)), Completed: true,
	})

	service := newReminderService(env, testNow)

	upcoming, err := service.GetUpcomingReminders(ctx, repositories.ReminderFilter{OwnerID: &user.ID}, 0)
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(upcoming))
	for _, r := range upcoming {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{soon.ID, farMileage.ID}, ids)

	upcoming, err = service.GetUpcomingReminders(ctx, repositories.ReminderFilter{OwnerID: &user.ID}, 90)
	require.NoError(t, err)
	assert.Len(t, upcoming, 3)
}

func TestUpdateVehicleMileageAndCheckReminders_LogOnly(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 9000)

	reached := env.addReminder(t, &models.Reminder{
		VehicleID: vehicle.ID, Description: "oil", Type: models.ReminderTypeMileageBased,
		DueMileage: intPtr(10000), IntervalMileage: intPtr(10000), Recurring: true,
	})
	env.addReminder(t, &models.Reminder{
		VehicleID: vehicle.ID, Description: "belt", Type: models.ReminderTypeHybrid,
		DueMileage: intPtr(90000),
	})

	result, err := newReminderService(env, testNow).UpdateVehicleMileageAndCheckReminders(ctx, vehicle.ID, 10200, nil)
	require.NoError(t, err)

	assert.True(t, result.MileageUpdated)
	assert.Equal(t, 10200, result.NewMileage)
	assert.Equal(t, 1, result.TriggeredReminders)
	require.Len(t, result.Reminders, 1)
	assert.Equal(t, reached.ID, result.Reminders[0].ID)

	stored, err := env.reminders.GetByID(ctx, nil, reached.ID)
	require.NoError(t, err)
	assert.False(t, stored.Completed)
	assert.Nil(t, stored.LastNotified)
	assert.Len(t, env.reminders.all(), 2)
	assert.Empty(t, env.notifier.ofType(models.NotificationTypeMileageReminder))

	updated, err := env.vehicles.GetByID(ctx, nil, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 10200, updated.Mileage)
	assert.Len(t, env.mileage.records, 1)
}

func TestUpdateVehicleMileageAndCheckReminders_RejectsInvalidMileage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	user := env.addUser(t)
	vehicle := env.addVehicle(t, user.ID, 9000)
	service := newReminderService(env, testNow)

	_, err := service.UpdateVehicleMileageAndCheckReminders(ctx, vehicle.ID, -1, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = service.UpdateVehicleMileageAndCheckReminders(ctx, vehicle.ID, 8000, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = service.UpdateVehicleMileageAndCheckReminders(ctx, uuid.New(), 10000, nil)
	assert.ErrorIs(t, err, apperrors.ErrVehicleNotFound)

	assert.Empty(t, env.mileage.records)
}
