package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()

	testCases := []struct {
		name     string
		result   driver.Result
		err      error
		wantRows int64
		wantErr  bool
	}{
		{name: "owned notification", result: sqlmock.NewResult(0, 1), wantRows: 1},
		{name: "other user's notification touches nothing", result: sqlmock.NewResult(0, 0), wantRows: 0},
		{name: "database failure", err: errors.New("connection reset"), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := setupMockDB(t)

			exec := mock.ExpectExec(`UPDATE "notifications" SET "read"=\$1,"updated_at"=\$2 WHERE \(?id = \$3 AND user_id = \$4\)?`).
				WithArgs(true, sqlmock.AnyArg(), id.String(), userID.String())
			if tc.err != nil {
				exec.WillReturnError(tc.err)
			} else {
				exec.WillReturnResult(tc.result)
			}

			rows, err := NewNotificationRepository().MarkAsRead(context.Background(), db, id, userID)

			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.wantRows, rows)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationRepository_Delete(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()

	testCases := []struct {
		name     string
		affected int64
	}{
		{name: "owned notification", affected: 1},
		{name: "other user's notification touches nothing", affected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := setupMockDB(t)

			mock.ExpectExec(`DELETE FROM "notifications" WHERE \(?id = \$1 AND user_id = \$2\)?`).
				WithArgs(id.String(), userID.String()).
				WillReturnResult(sqlmock.NewResult(0, tc.affected))

			rows, err := NewNotificationRepository().Delete(context.Background(), db, id, userID)

			assert.NoError(t, err)
			assert.Equal(t, tc.affected, rows)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
