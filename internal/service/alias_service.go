package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"custodial-ledger/internal/core/domain"
	"custodial-ledger/internal/core/ports"
	"custodial-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// AliasService manages the addressing keys a user exposes for receiving
// transfers.
type AliasService struct {
	keys     ports.AliasKeyRepository
	accounts ports.AccountRepository
	log      zerolog.Logger
}

func NewAliasService(keys ports.AliasKeyRepository, accounts ports.AccountRepository, log zerolog.Logger) *AliasService {
	return &AliasService{keys: keys, accounts: accounts, log: log}
}

func (s *AliasService) Create(ctx context.Context, userID uuid.UUID, keyType domain.AliasKeyType, value string) (*domain.AliasKey, error) {
	switch keyType {
	case domain.AliasEmail, domain.AliasPhone:
		if value == "" {
			return nil, apperror.Validation("alias value is required")
		}
	case domain.AliasRandom:
		generated, err := generateRandomHex(16)
		if err != nil {
			return nil, apperror.InternalError(err)
		}
		value = generated
	default:
		return nil, apperror.Validation("unknown alias type")
	}

	count, err := s.keys.CountByUser(ctx, userID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if count >= domain.MaxAliasKeysPerUser {
		return nil, apperror.ErrAliasKeyLimit()
	}

	existing, err := s.keys.GetByValue(ctx, value)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if existing != nil {
		return nil, apperror.ErrAliasKeyExists()
	}

	key := &domain.AliasKey{
		ID:     uuid.New(),
		UserID: userID,
		Type:   keyType,
		Value:  value,
	}
	if err := s.keys.Create(ctx, key); err != nil {
		return nil, mapStorageErr(err)
	}

	s.log.Info().Str("key_id", key.ID.String()).Str("type", string(keyType)).Msg("alias key created")
	return key, nil
}

func (s *AliasService) List(ctx context.Context, userID uuid.UUID) ([]domain.AliasKey, error) {
	keys, err := s.keys.ListByUser(ctx, userID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return keys, nil
}

// Delete removes a key; only the owner may delete it.
func (s *AliasService) Delete(ctx context.Context, userID uuid.UUID, keyID uuid.UUID) error {
	if err := s.keys.Delete(ctx, keyID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.ErrAliasKeyNotFound()
		}
		return mapStorageErr(err)
	}
	return nil
}

// Resolve maps an alias value to its owner's account.
func (s *AliasService) Resolve(ctx context.Context, value string) (*domain.Account, error) {
	key, err := s.keys.GetByValue(ctx, value)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if key == nil {
		return nil, apperror.ErrAliasKeyNotFound()
	}

	account, err := s.accounts.GetByUserID(ctx, key.UserID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	return account, nil
}

func generateRandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate random value: %w", err)
	}
	return hex.EncodeToString(b), nil
}
