package sharing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "wedledger/internal/domain/sharing"
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

var connectionColumns = []string{"id", "child_user_id", "parent_user_id", "permission", "status", "invite_token", "invite_expires_at", "created_at", "updated_at"}

func TestFindAppliesFilterAndMapsRow(t *testing.T) {
	mock, repo := setupMockDB(t)
	expires := time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "connections" WHERE invite_token = \$1 AND parent_user_id = \$2 ORDER BY created_at desc`).
		WillReturnRows(sqlmock.NewRows(connectionColumns).
			AddRow("c1", "owner", "viewer", "read", "pending", "tok", expires, expires, expires))

	connection, err := repo.Find(context.Background(), domain.Filter{Token: "tok", ViewerID: "viewer"})
	require.NoError(t, err)
	assert.Equal(t, "owner", connection.OwnerID)
	assert.Equal(t, "viewer", connection.ViewerID)
	assert.Equal(t, domain.PermissionRead, connection.Permission)
	assert.Equal(t, domain.StatusPending, connection.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindNotFound(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "connections"`).
		WillReturnRows(sqlmock.NewRows(connectionColumns))

	_, err := repo.Find(context.Background(), domain.Filter{ID: "missing"})
	assert.True(t, errors.Is(err, domain.ErrConnectionNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStatusIsConditional(t *testing.T) {
	mock, repo := setupMockDB(t)
	at := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE "connections" SET .* WHERE id = \$\d AND status = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "connections" SET .* WHERE id = \$\d AND status = \$\d`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	moved, err := repo.TransitionStatus(context.Background(), "c1", domain.StatusPending, domain.StatusAccepted, at)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = repo.TransitionStatus(context.Background(), "c1", domain.StatusPending, domain.StatusAccepted, at)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingConnection(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectExec(`DELETE FROM "connections" WHERE id = \$1`).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "c1")
	assert.True(t, errors.Is(err, domain.ErrConnectionNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePermission(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectExec(`UPDATE "connections" SET .*"permission"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePermission(context.Background(), "c1", domain.PermissionReadWrite, time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
