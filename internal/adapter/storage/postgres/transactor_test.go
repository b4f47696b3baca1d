package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactor_AppliesLockTimeout(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tr := NewTransactor(mock, 3*time.Second)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL lock_timeout = '3000ms'")).
		WillReturnResult(pgxmock.NewResult("SET", 0))

	tx, err := tr.Begin(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tx)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_ZeroTimeoutSkipsSet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tr := NewTransactor(mock, 0)

	mock.ExpectBegin()

	_, err = tr.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackWhenSetFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	tr := NewTransactor(mock, time.Second)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL lock_timeout")).
		WillReturnError(errors.New("broken"))
	mock.ExpectRollback()

	_, err = tr.Begin(context.Background())
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
