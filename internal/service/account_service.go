package service

import (
	"context"
	"time"

	"custodial-ledger/internal/core/domain"
	"custodial-ledger/internal/core/ports"
	"custodial-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AccountService covers balance inquiries, external deposits, and
// statements.
type AccountService struct {
	transactor ports.DBTransactor
	accounts   ports.AccountRepository
	txns       ports.TransactionRepository
	log        zerolog.Logger
}

func NewAccountService(
	transactor ports.DBTransactor,
	accounts ports.AccountRepository,
	txns ports.TransactionRepository,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		transactor: transactor,
		accounts:   accounts,
		txns:       txns,
		log:        log,
	}
}

func (s *AccountService) GetBalance(ctx context.Context, callerID uuid.UUID) (*domain.Account, error) {
	account, err := s.accounts.GetByUserID(ctx, callerID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	return account, nil
}

// Deposit credits an account from an external source. The row lock keeps it
// consistent with concurrent transfers.
func (s *AccountService) Deposit(ctx context.Context, req ports.DepositRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accounts.GetByIDForUpdate(ctx, dbTx, req.AccountID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	account.Credit(req.Amount)
	if err := s.accounts.UpdateBalance(ctx, dbTx, account.ID, account.Balance); err != nil {
		return nil, mapStorageErr(err)
	}

	txn := &domain.Transaction{
		ID:                uuid.New(),
		ReceiverAccountID: account.ID,
		Amount:            req.Amount,
		Type:              domain.TypeDeposit,
		Status:            domain.StatusCompleted,
		ReferenceID:       req.ReferenceID,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.txns.Create(ctx, dbTx, txn); err != nil {
		return nil, mapStorageErr(err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, mapStorageErr(err)
	}

	s.log.Info().
		Str("transaction_id", txn.ID.String()).
		Str("account_id", account.ID.String()).
		Str("amount", req.Amount.String()).
		Msg("deposit completed")
	return txn, nil
}

func (s *AccountService) ListTransactions(ctx context.Context, callerID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	account, err := s.accounts.GetByUserID(ctx, callerID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if account == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	txns, err := s.txns.ListByAccount(ctx, account.ID, limit, offset)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	return txns, nil
}
