package service

import (
	"context"
	"testing"

	"custodial-ledger/internal/core/domain"
	"custodial-ledger/internal/core/ports/mocks"
	"custodial-ledger/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type aliasDeps struct {
	keys     *mocks.MockAliasKeyRepository
	accounts *mocks.MockAccountRepository
}

func setupAliasService(t *testing.T) (*AliasService, aliasDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)

	d := aliasDeps{
		keys:     mocks.NewMockAliasKeyRepository(ctrl),
		accounts: mocks.NewMockAccountRepository(ctrl),
	}
	svc := NewAliasService(d.keys, d.accounts, logger.NewWithWriter("error", testWriter{t}))
	return svc, d
}

func TestAliasCreate_Email(t *testing.T) {
	svc, d := setupAliasService(t)

	userID := uuid.New()
	d.keys.EXPECT().CountByUser(gomock.Any(), userID).Return(0, nil)
	d.keys.EXPECT().GetByValue(gomock.Any(), "alice@example.com").Return(nil, nil)
	d.keys.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	key, err := svc.Create(context.Background(), userID, domain.AliasEmail, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", key.Value)
}

func TestAliasCreate_RandomGeneratesValue(t *testing.T) {
	svc, d := setupAliasService(t)

	userID := uuid.New()
	d.keys.EXPECT().CountByUser(gomock.Any(), userID).Return(1, nil)
	d.keys.EXPECT().GetByValue(gomock.Any(), gomock.Any()).Return(nil, nil)
	d.keys.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	key, err := svc.Create(context.Background(), userID, domain.AliasRandom, "")
	require.NoError(t, err)
	assert.Len(t, key.Value, 32)
}

func TestAliasCreate_LimitReached(t *testing.T) {
	svc, d := setupAliasService(t)

	userID := uuid.New()
	d.keys.EXPECT().CountByUser(gomock.Any(), userID).Return(domain.MaxAliasKeysPerUser, nil)

	_, err := svc.Create(context.Background(), userID, domain.AliasEmail, "a@example.com")
	assertAppError(t, err, "KEY_003")
}

func TestAliasCreate_Duplicate(t *testing.T) {
	svc, d := setupAliasService(t)

	userID := uuid.New()
	d.keys.EXPECT().CountByUser(gomock.Any(), userID).Return(0, nil)
	d.keys.EXPECT().GetByValue(gomock.Any(), "a@example.com").
		Return(&domain.AliasKey{ID: uuid.New()}, nil)

	_, err := svc.Create(context.Background(), userID, domain.AliasEmail, "a@example.com")
	assertAppError(t, err, "KEY_001")
}

func TestAliasDelete_NotOwned(t *testing.T) {
	svc, d := setupAliasService(t)

	userID, keyID := uuid.New(), uuid.New()
	d.keys.EXPECT().Delete(gomock.Any(), keyID, userID).Return(pgx.ErrNoRows)

	err := svc.Delete(context.Background(), userID, keyID)
	assertAppError(t, err, "KEY_002")
}

func TestAliasResolve(t *testing.T) {
	svc, d := setupAliasService(t)

	userID := uuid.New()
	account := &domain.Account{ID: uuid.New(), UserID: userID}

	d.keys.EXPECT().GetByValue(gomock.Any(), "alice@example.com").
		Return(&domain.AliasKey{UserID: userID, Value: "alice@example.com"}, nil)
	d.accounts.EXPECT().GetByUserID(gomock.Any(), userID).Return(account, nil)

	got, err := svc.Resolve(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
}

func TestAliasResolve_Unknown(t *testing.T) {
	svc, d := setupAliasService(t)

	d.keys.EXPECT().GetByValue(gomock.Any(), "nobody").Return(nil, nil)

	_, err := svc.Resolve(context.Background(), "nobody")
	assertAppError(t, err, "KEY_002")
}
