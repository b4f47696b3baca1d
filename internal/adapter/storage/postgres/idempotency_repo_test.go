package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"custodial-ledger/internal/core/domain"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyRepo_RoundTrip(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)
	record := &domain.IdempotencyRecord{
		Key:           "caller:ref-1",
		TransactionID: uuid.New(),
		Response:      []byte(`{"id":"x"}`),
		CreatedAt:     time.Now().UTC(),
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO idempotency_records")).
		WithArgs(record.Key, record.TransactionID, record.Response, record.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tx, record))

	mock.ExpectQuery(regexp.QuoteMeta("FROM idempotency_records")).
		WithArgs(record.Key).
		WillReturnRows(pgxmock.NewRows([]string{"key", "transaction_id", "response", "created_at"}).
			AddRow(record.Key, record.TransactionID, record.Response, record.CreatedAt))

	got, err := repo.GetByKey(context.Background(), record.Key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record.TransactionID, got.TransactionID)
}

func TestIdempotencyRepo_GetByKey_Miss(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewIdempotencyRepo(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM idempotency_records")).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"key", "transaction_id", "response", "created_at"}))

	got, err := repo.GetByKey(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}
