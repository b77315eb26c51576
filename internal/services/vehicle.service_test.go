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

func TestVehicleService_CreateAndOwnership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := env.addUser(t)
	stranger := env.addUser(t)
	service := NewVehicleService(nil, env.repos)

	vehicle, err := service.Create(ctx, owner.ID, CreateVehicleInput{
		Brand: "Honda", Model: "Civic", Year: 2019, LicensePlate: " ab-123 ", Mileage: 35000,
	})
	require.NoError(t, err)
	assert.Equal(t, "AB-123", vehicle.LicensePlate)
	require.Len(t, env.mileage.records, 1)
	assert.Equal(t, 35000, env.mileage.records[0].Mileage)

	_, err = service.Create(ctx, owner.ID, CreateVehicleInput{
		Brand: "Honda", Model: "Jazz", Year: 2015, LicensePlate: "AB-123",
	})
	assert.ErrorIs(t, err, apperrors.ErrLicensePlateTaken)

	_, err = service.Create(ctx, stranger.ID, CreateVehicleInput{
		Brand: "Honda", Model: "Jazz", Year: 2015, LicensePlate: "AB-123",
	})
	require.NoError(t, err, "plates are unique per owner")

	_, err = service.EnsureOwnership(ctx, vehicle.ID, owner.ID)
	require.NoError(t, err)

	_, err = service.EnsureOwnership(ctx, vehicle.ID, stranger.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = service.EnsureOwnership(ctx, uuid.New(), owner.ID)
	assert.ErrorIs(t, err, apperrors.ErrVehicleNotFound)
}

func TestVehicleService_Update(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := env.addUser(t)
	service := NewVehicleService(nil, env.repos)

	first, err := service.Create(ctx, owner.ID, CreateVehicleInput{
		Brand: "Ford", Model: "Focus", Year: 2017, LicensePlate: "ONE-1",
	})
	require.NoError(t, err)
	_, err = service.Create(ctx, owner.ID, CreateVehicleInput{
		Brand: "Ford", Model: "Fiesta", Year: 2016, LicensePlate: "TWO-2",
	})
	require.NoError(t, err)

	taken := "two-2"
	_, err = service.Update(ctx, first.ID, UpdateVehicleInput{LicensePlate: &taken})
	assert.ErrorIs(t, err, apperrors.ErrLicensePlateTaken)

	color := "red"
	updated, err := service.Update(ctx, first.ID, UpdateVehicleInput{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "red", updated.Color)
	assert.Equal(t, "ONE-1", updated.LicensePlate)

	list, err := service.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, service.Delete(ctx, first.ID))
	assert.ErrorIs(t, service.Delete(ctx, first.ID), apperrors.ErrVehicleNotFound)
}

func TestExpenseService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := env.addUser(t)
	vehicle := env.addVehicle(t, owner.ID, 0)
	service := NewExpenseService(nil, env.repos)
	service.now = fixedClock(testNow)

	_, err := service.Create(ctx, CreateExpenseInput{
		VehicleID: vehicle.ID, Description: "Free", Category: "fuel", Amount: decimal.Zero, Date: testNow,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	entries := []CreateExpenseInput{
		{Description: "Fuel up", Category: "fuel", Amount: decimal.NewFromInt(60), Date: testNow.AddDate(0, 0, -2)},
		{Description: "Fuel up", Category: "FUEL", Amount: decimal.NewFromInt(40), Date: testNow.AddDate(0, -1, 0)},
		{Description: "Insurance", Category: "insurance", Amount: decimal.NewFromInt(300), Date: testNow.AddDate(0, 0, -1)},
	}
	for _, entry := range entries {
		entry.VehicleID = vehicle.ID
		_, err := service.Create(ctx, entry)
		require.NoError(t, err)
	}

	summary, err := service.Summary(ctx, repositories.ExpenseFilter{OwnerID: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, "400", summary.Total.String())
	assert.Equal(t, "100", summary.ByCategory[models.ExpenseCategoryFuel].String())
	assert.Equal(t, "300", summary.ByCategory[models.ExpenseCategoryInsurance].String())
	assert.Equal(t, "360", summary.ByMonth["2025-03"].String())
	assert.Equal(t, "40", summary.ByMonth["2025-02"].String())

	monthly, err := service.MonthlyTotalForOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "360", monthly.String())

	_, err = service.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrExpenseNotFound)
}

func TestVehicleService_MileageHistory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	owner := env.addUser(t)
	vehicle := env.addVehicle(t, owner.ID, 0)
	service := NewVehicleService(nil, env.repos)

	for i := range 3 {
		require.NoError(t, env.mileage.Create(ctx, nil, &models.MileageRecord{
			VehicleID: vehicle.ID,
			Mileage:   (i + 1) * 100,
			Date:      testNow.Add(time.Duration(i) * time.Hour),
		}))
	}

	history, err := service.MileageHistory(ctx, vehicle.ID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 300, history[0].Mileage)
	assert.Equal(t, 200, history[1].Mileage)
}
