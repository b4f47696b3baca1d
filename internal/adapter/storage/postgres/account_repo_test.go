package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountColumns() []string {
	return []string{"id", "user_id", "balance", "created_at", "updated_at"}
}

func TestAccountRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	id, userID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, balance, created_at, updated_at")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(accountColumns()).
			AddRow(id, userID, decimal.NewFromInt(500), now, now))

	account, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, id, account.ID)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(500)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, balance")).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(accountColumns()))

	account, err := repo.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestAccountRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	id := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(accountColumns()).
			AddRow(id, uuid.New(), decimal.NewFromInt(100), now, now))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	account, err := repo.GetByIDForUpdate(context.Background(), tx, id)
	require.NoError(t, err)
	require.NotNil(t, account)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_UpdateBalance(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)
	id := uuid.New()
	balance := decimal.NewFromInt(250)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
		WithArgs(id, balance).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.UpdateBalance(context.Background(), tx, id, balance))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepo_UpdateBalance_MissingRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAccountRepo(mock)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE accounts")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.UpdateBalance(context.Background(), tx, uuid.New(), decimal.NewFromInt(1))
	assert.Error(t, err)
}
