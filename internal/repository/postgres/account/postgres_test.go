package account

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "wedledger/internal/domain/account"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *PostgresRepository) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return mock, NewPostgres(db)
}

func TestGetByPhone(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE phone = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "phone", "first_name", "language", "otp_code"}).
			AddRow("00000000-0000-4000-a000-0000001449e6", "+100", "Jisoo", "ko", "123456"))

	account, err := repo.GetByPhone(context.Background(), "+100")
	require.NoError(t, err)
	assert.Equal(t, "00000000-0000-4000-a000-0000001449e6", account.ID)
	require.NotNil(t, account.OTPCode)
	assert.Equal(t, "123456", *account.OTPCode)
	assert.Equal(t, "Jisoo", account.Profile().FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), "nobody")
	assert.True(t, errors.Is(err, domain.ErrAccountNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearOTPCodeOnlyMatchingCode(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectExec(`UPDATE "accounts" SET .* WHERE id = \$\d AND otp_code = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "accounts" SET .* WHERE id = \$\d AND otp_code = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	cleared, err := repo.ClearOTPCode(context.Background(), "u1", "123456")
	require.NoError(t, err)
	assert.True(t, cleared)

	cleared, err = repo.ClearOTPCode(context.Background(), "u1", "123456")
	require.NoError(t, err)
	assert.False(t, cleared)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileMissingAccount(t *testing.T) {
	mock, repo := setupMockDB(t)
	name := "Minho"

	mock.ExpectExec(`UPDATE "accounts" SET .*"first_name"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProfile(context.Background(), "u1", domain.ProfileUpdate{FirstName: &name})
	assert.True(t, errors.Is(err, domain.ErrAccountNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountRecords(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT .* AS family_count`).
		WithArgs("u1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"family_count", "gifts_count"}).AddRow(3, 42))

	counts, err := repo.CountRecords(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.Counts{FamilyCount: 3, GiftsCount: 42}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
