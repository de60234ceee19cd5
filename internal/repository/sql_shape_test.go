package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"nutritrack/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_LockByID_UsesForUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewStore(db).Users()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1 ORDER BY "users"."id" LIMIT \$2 FOR UPDATE`).
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "day_streak"}).AddRow(5, "a@b.c", 3))

	user, err := repo.LockByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, user.DayStreak)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID(t *testing.T) {
	tests := []struct {
		name     string
		behavior func(mock sqlmock.Sqlmock)
		code     string
	}{
		{
			name: "not found",
			behavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WithArgs(99, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			code: models.CodeNotFound,
		},
		{
			name: "connection error",
			behavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WithArgs(99, 1).
					WillReturnError(errors.New("connection timeout"))
			},
			code: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			tt.behavior(mock)

			user, err := NewStore(db).Users().GetByID(context.Background(), 99)
			assert.Nil(t, user)
			require.Error(t, err)
			assert.Equal(t, tt.code, models.ErrorCode(err))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Create_DuplicateEmailIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := NewStore(db).Users().Create(context.Background(), &models.User{Email: "dup@example.com"})
	require.Error(t, err)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRepository_Record(t *testing.T) {
	insert := regexp.QuoteMeta(`INSERT INTO "login_history" ("user_id","login_date","created_at") VALUES ($1,$2,$3) ON CONFLICT ("user_id","login_date") DO NOTHING RETURNING "id"`)

	t.Run("inserted", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(insert).
			WithArgs(1, "2024-01-02", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
		mock.ExpectCommit()

		ok, err := NewStore(db).Logins().Record(context.Background(), 1, "2024-01-02")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict skipped", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(insert).
			WithArgs(1, "2024-01-02", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectCommit()

		ok, err := NewStore(db).Logins().Record(context.Background(), 1, "2024-01-02")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation treated as already recorded", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(insert).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		ok, err := NewStore(db).Logins().Record(context.Background(), 1, "2024-01-02")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store error", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(insert).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := NewStore(db).Logins().Record(context.Background(), 1, "2024-01-02")
		require.Error(t, err)
		assert.Equal(t, models.CodeInternal, models.ErrorCode(err))
	})
}

func TestSummaryRepository_EnsureLocked_SQLShape(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "daily_summary" .* ON CONFLICT \("user_id","summary_date"\) DO NOTHING RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "daily_summary" WHERE user_id = \$1 AND summary_date = \$2 ORDER BY "daily_summary"."id" LIMIT \$3 FOR UPDATE`).
		WithArgs(2, "2024-01-02", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "summary_date"}).AddRow(8, 2, "2024-01-02"))

	row, err := NewStore(db).Summaries().EnsureLocked(context.Background(), 2, "2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, uint(8), row.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryRepository_SumDay_ErrorPropagates(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(calories), 0) AS calories`)).
		WithArgs(2, "2024-01-02").
		WillReturnRows(sqlmock.NewRows([]string{"calories", "protein", "carbs", "fat"}).AddRow(500, 20, 60, 10))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(calories), 0) FROM "exercise_logs"`)).
		WithArgs(2, "2024-01-02").
		WillReturnError(errors.New("disk I/O error"))

	_, err := NewStore(db).Summaries().SumDay(context.Background(), 2, "2024-01-02")
	require.Error(t, err)
	assert.Equal(t, models.CodeInternal, models.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.True(t, isUniqueConstraintError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.email")))
	assert.False(t, isUniqueConstraintError(errors.New("timeout")))
	assert.False(t, isUniqueConstraintError(nil))
}
