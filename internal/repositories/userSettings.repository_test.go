package repositories

import (
	"context"
	"errors"
	"testing"
	"vehiclecare/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserSettingsRepository_Create(t *testing.T) {
	const insert = `INSERT INTO "user_settings" .* ON CONFLICT \("user_id"\) DO NOTHING RETURNING "id"`

	testCases := []struct {
		name        string
		setup       func(mock sqlmock.Sqlmock)
		wantCreated bool
		wantErr     bool
	}{
		{
			name: "first insert creates the row",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(insert).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
			},
			wantCreated: true,
		},
		{
			name: "existing row is left alone",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(insert).WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			wantCreated: false,
		},
		{
			name: "database failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(insert).WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			tc.setup(mock)

			created, err := NewUserSettingsRepository(nil).
				Create(context.Background(), db, models.DefaultUserSettings(uuid.New()))

			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantCreated, created)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
