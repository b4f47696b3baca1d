package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"custodial-ledger/internal/core/domain"
	"custodial-ledger/internal/core/ports"
	"custodial-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// pgLockNotAvailable is SQLSTATE 55P03, raised when lock_timeout expires.
const pgLockNotAvailable = "55P03"

const idempotencyTTL = 24 * time.Hour

// TransferService moves money between accounts. One database transaction
// per Execute; both account rows are locked in canonical id order so
// opposing transfers cannot deadlock.
type TransferService struct {
	transactor ports.DBTransactor
	accounts   ports.AccountRepository
	txns       ports.TransactionRepository
	users      ports.UserRepository
	idemRepo   ports.IdempotencyRepository
	idemCache  ports.IdempotencyCache
	hasher     ports.HashService
	publisher  ports.EventPublisher
	log        zerolog.Logger
}

func NewTransferService(
	transactor ports.DBTransactor,
	accounts ports.AccountRepository,
	txns ports.TransactionRepository,
	users ports.UserRepository,
	idemRepo ports.IdempotencyRepository,
	idemCache ports.IdempotencyCache,
	hasher ports.HashService,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *TransferService {
	return &TransferService{
		transactor: transactor,
		accounts:   accounts,
		txns:       txns,
		users:      users,
		idemRepo:   idemRepo,
		idemCache:  idemCache,
		hasher:     hasher,
		publisher:  publisher,
		log:        log,
	}
}

func (s *TransferService) Execute(ctx context.Context, req ports.TransferRequest) (*domain.Transaction, error) {
	if req.SenderAccountID == req.ReceiverAccountID {
		return nil, apperror.ErrSelfTransfer()
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	if req.ReferenceID == "" {
		return nil, apperror.Validation("reference_id is required")
	}

	idemKey := domain.IdempotencyKey(req.CallerID, req.ReferenceID)
	if txn, found := s.replay(ctx, idemKey); found {
		return txn, nil
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock both rows in canonical id order, then work out which is which.
	firstID, secondID := domain.OrderIDs(req.SenderAccountID, req.ReceiverAccountID)

	first, err := s.accounts.GetByIDForUpdate(ctx, dbTx, firstID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	second, err := s.accounts.GetByIDForUpdate(ctx, dbTx, secondID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if first == nil || second == nil {
		return nil, apperror.ErrAccountNotFound()
	}

	sender, receiver := first, second
	if sender.ID != req.SenderAccountID {
		sender, receiver = second, first
	}

	if sender.UserID != req.CallerID {
		return nil, apperror.ErrNotAccountOwner()
	}

	// Verify the PIN against the freshly loaded owner record, after the
	// locks are held.
	owner, err := s.users.GetByID(ctx, sender.UserID)
	if err != nil {
		return nil, mapStorageErr(err)
	}
	if owner == nil {
		return nil, apperror.ErrAccountNotFound()
	}
	ok, err := s.hasher.Verify(req.Pin, owner.PinHash)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if !ok {
		return nil, apperror.ErrPinInvalid()
	}

	if !sender.Debit(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}
	receiver.Credit(req.Amount)

	if err := s.accounts.UpdateBalance(ctx, dbTx, sender.ID, sender.Balance); err != nil {
		return nil, mapStorageErr(err)
	}
	if err := s.accounts.UpdateBalance(ctx, dbTx, receiver.ID, receiver.Balance); err != nil {
		return nil, mapStorageErr(err)
	}

	senderID := sender.ID
	txn := &domain.Transaction{
		ID:                uuid.New(),
		SenderAccountID:   &senderID,
		ReceiverAccountID: receiver.ID,
		Amount:            req.Amount,
		Type:              domain.TypeTransfer,
		Status:            domain.StatusCompleted,
		ReferenceID:       req.ReferenceID,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.txns.Create(ctx, dbTx, txn); err != nil {
		return nil, mapStorageErr(err)
	}

	record, err := buildIdempotencyRecord(idemKey, txn)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if err := s.idemRepo.Create(ctx, dbTx, record); err != nil {
		return nil, mapStorageErr(err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, mapStorageErr(err)
	}

	s.log.Info().
		Str("transaction_id", txn.ID.String()).
		Str("sender_account", sender.ID.String()).
		Str("receiver_account", receiver.ID.String()).
		Str("amount", req.Amount.String()).
		Msg("transfer completed")

	s.afterCommit(ctx, record, txn, owner, receiver)

	return txn, nil
}

// replay returns the previously committed outcome for a retried request.
// Cache first, then the durable record; lookup failures fall through to a
// fresh execution attempt, the unique key constraint is the backstop.
func (s *TransferService) replay(ctx context.Context, key string) (*domain.Transaction, bool) {
	rec, err := s.idemCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("idempotency cache lookup failed")
	}
	if rec == nil {
		rec, err = s.idemRepo.GetByKey(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("idempotency record lookup failed")
		}
	}
	if rec == nil {
		return nil, false
	}

	var txn domain.Transaction
	if err := json.Unmarshal(rec.Response, &txn); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("stored response unreadable")
		return nil, false
	}

	s.log.Info().Str("key", key).Str("transaction_id", txn.ID.String()).Msg("idempotent replay")
	return &txn, true
}

// afterCommit runs the best-effort side effects. Failures here never fail
// the transfer; it is already committed.
func (s *TransferService) afterCommit(ctx context.Context, record *domain.IdempotencyRecord, txn *domain.Transaction, sender *domain.User, receiverAccount *domain.Account) {
	if err := s.idemCache.Set(ctx, record, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", record.Key).Msg("idempotency cache write failed")
	}

	receiverContact := ""
	if recvOwner, err := s.users.GetByID(ctx, receiverAccount.UserID); err != nil {
		s.log.Warn().Err(err).Msg("receiver contact lookup failed")
	} else if recvOwner != nil {
		receiverContact = recvOwner.Email
	}

	event := domain.TransferCompletedEvent{
		TransactionID:   txn.ID,
		Amount:          txn.Amount,
		SenderContact:   sender.Email,
		ReceiverContact: receiverContact,
		Timestamp:       txn.CreatedAt,
	}
	if err := s.publisher.PublishTransferCompleted(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("transaction_id", txn.ID.String()).Msg("event publish failed")
	}
}

func buildIdempotencyRecord(key string, txn *domain.Transaction) (*domain.IdempotencyRecord, error) {
	response, err := json.Marshal(txn)
	if err != nil {
		return nil, err
	}
	return &domain.IdempotencyRecord{
		Key:           key,
		TransactionID: txn.ID,
		Response:      response,
		CreatedAt:     txn.CreatedAt,
	}, nil
}

// mapStorageErr classifies persistence failures. Lock-wait expiry is the
// only retryable kind the caller can act on differently.
func mapStorageErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
		return apperror.ErrLockTimeout(err)
	}
	return apperror.InternalError(err)
}
