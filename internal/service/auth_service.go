package service

import (
	"context"
	"time"

	"custodial-ledger/internal/core/domain"
	"custodial-ledger/internal/core/ports"
	"custodial-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AuthService onboards users and issues tokens. Registration creates the
// user together with their account in one transaction.
type AuthService struct {
	transactor ports.DBTransactor
	users      ports.UserRepository
	accounts   ports.AccountRepository
	hasher     ports.HashService
	tokens     ports.TokenService
	tokenTTL   time.Duration
	log        zerolog.Logger
}

func NewAuthService(
	transactor ports.DBTransactor,
	users ports.UserRepository,
	accounts ports.AccountRepository,
	hasher ports.HashService,
	tokens ports.TokenService,
	tokenTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		transactor: transactor,
		users:      users,
		accounts:   accounts,
		hasher:     hasher,
		tokens:     tokens,
		tokenTTL:   tokenTTL,
		log:        log,
	}
}

func (s *AuthService) Register(ctx context.Context, req ports.RegisterRequest) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	pinHash, err := s.hasher.Hash(req.Pin)
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		PinHash:      pinHash,
		Role:         domain.RoleCustomer,
	}
	account := &domain.Account{
		ID:      uuid.New(),
		UserID:  user.ID,
		Balance: decimal.Zero,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.users.Create(ctx, dbTx, user); err != nil {
		return nil, mapStorageErr(err)
	}
	if err := s.accounts.Create(ctx, dbTx, account); err != nil {
		return nil, mapStorageErr(err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, mapStorageErr(err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, mapStorageErr(err)
	}
	if user == nil {
		return "", nil, apperror.ErrInvalidCredentials()
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return "", nil, apperror.InternalError(err)
	}
	if !ok {
		return "", nil, apperror.ErrInvalidCredentials()
	}

	token, err := s.tokens.Generate(user.ID, s.tokenTTL)
	if err != nil {
		return "", nil, apperror.InternalError(err)
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return token, user, nil
}
