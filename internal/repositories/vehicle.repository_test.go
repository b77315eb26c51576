package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return gormDB, mock
}

func TestVehicleRepository_GetByID(t *testing.T) {
	id := uuid.New()
	ownerID := uuid.New()

	testCases := []struct {
		name      string
		setup     func(mock sqlmock.Sqlmock)
		wantNil   bool
		wantErr   bool
		wantPlate string
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows([]string{"id", "owner_id", "brand", "model", "license_plate", "mileage"}).
					AddRow(id.String(), ownerID.String(), "Honda", "Civic", "XYZ9876", 61000)
				mock.ExpectQuery(`SELECT \* FROM "vehicles" WHERE id = \$1`).WillReturnRows(rows)
			},
			wantPlate: "XYZ9876",
		},
		{
			name: "missing vehicle is not an error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "vehicles" WHERE id = \$1`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			wantNil: true,
		},
		{
			name: "database failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "vehicles" WHERE id = \$1`).
					WillReturnError(errors.New("connection reset"))
			},
			wantNil: true,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			tc.setup(mock)

			vehicle, err := NewVehicleRepository().GetByID(context.Background(), db, id)

			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tc.wantNil {
				assert.Nil(t, vehicle)
			} else {
				require.NotNil(t, vehicle)
				assert.Equal(t, id, vehicle.ID)
				assert.Equal(t, ownerID, vehicle.OwnerID)
				assert.Equal(t, tc.wantPlate, vehicle.LicensePlate)
				assert.Equal(t, 61000, vehicle.Mileage)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestVehicleRepository_UpdateMileage(t *testing.T) {
	db, mock := setupMockDB(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "vehicles" SET .*"mileage"=.* WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewVehicleRepository().UpdateMileage(context.Background(), db, id, 52000)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVehicleRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM "vehicles" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewVehicleRepository().Delete(context.Background(), db, id)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
