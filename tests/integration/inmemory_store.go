package integration

import (
	"context"
	"sync"
	"time"

	"custodial-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// memStore backs the engine with real mutex-per-account locking, so the
// concurrency tests exercise the same blocking behavior row locks give.
// A transfer that locks accounts out of order will deadlock here exactly as
// it would against the database.
type memStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*domain.Account
	users    map[uuid.UUID]*domain.User
	txns     []domain.Transaction
	idem     map[string]*domain.IdempotencyRecord
	rowLocks map[uuid.UUID]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[uuid.UUID]*domain.Account),
		users:    make(map[uuid.UUID]*domain.User),
		idem:     make(map[string]*domain.IdempotencyRecord),
		rowLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *memStore) addUser(email, pinHash string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &domain.User{ID: uuid.New(), Email: email, PinHash: pinHash}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addAccount(userID uuid.UUID, balance decimal.Decimal) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &domain.Account{ID: uuid.New(), UserID: userID, Balance: balance}
	s.accounts[a.ID] = a
	s.rowLocks[a.ID] = &sync.Mutex{}
	return a
}

func (s *memStore) lockFor(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowLocks[id]
}

func (s *memStore) balance(id uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[id].Balance
}

func (s *memStore) ledger() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

// memTx buffers writes until Commit, then applies them under the store lock
// and releases the row locks it holds. Rollback discards the buffer.
type memTx struct {
	pgx.Tx

	store         *memStore
	held          []uuid.UUID
	balanceWrites map[uuid.UUID]decimal.Decimal
	txnInserts    []domain.Transaction
	idemInserts   []*domain.IdempotencyRecord
	done          bool
}

func (t *memTx) Commit(_ context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.store.mu.Lock()
	for id, balance := range t.balanceWrites {
		t.store.accounts[id].Balance = balance
		t.store.accounts[id].UpdatedAt = time.Now()
	}
	t.store.txns = append(t.store.txns, t.txnInserts...)
	for _, rec := range t.idemInserts {
		t.store.idem[rec.Key] = rec
	}
	t.store.mu.Unlock()

	t.release()
	t.done = true
	return nil
}

func (t *memTx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.release()
	t.done = true
	return nil
}

func (t *memTx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.store.lockFor(t.held[i]).Unlock()
	}
	t.held = nil
}

// memTransactor implements ports.DBTransactor.
type memTransactor struct {
	store *memStore
}

func (m *memTransactor) Begin(_ context.Context) (pgx.Tx, error) {
	return &memTx{
		store:         m.store,
		balanceWrites: make(map[uuid.UUID]decimal.Decimal),
	}, nil
}

// memAccountRepo implements ports.AccountRepository against the store.
type memAccountRepo struct {
	store *memStore
}

func (r *memAccountRepo) Create(_ context.Context, _ pgx.Tx, account *domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *account
	r.store.accounts[cp.ID] = &cp
	r.store.rowLocks[cp.ID] = &sync.Mutex{}
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memAccountRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.accounts {
		if a.UserID == userID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByIDForUpdate blocks on the account's row lock, exactly like
// SELECT ... FOR UPDATE queueing behind a held lock.
func (r *memAccountRepo) GetByIDForUpdate(_ context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error) {
	mtx := tx.(*memTx)

	lock := r.store.lockFor(id)
	if lock == nil {
		return nil, nil
	}
	lock.Lock()
	mtx.held = append(mtx.held, id)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memAccountRepo) UpdateBalance(_ context.Context, tx pgx.Tx, id uuid.UUID, balance decimal.Decimal) error {
	mtx := tx.(*memTx)
	mtx.balanceWrites[id] = balance
	return nil
}

// memTransactionRepo implements ports.TransactionRepository.
type memTransactionRepo struct {
	store *memStore
}

func (r *memTransactionRepo) Create(_ context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	mtx := tx.(*memTx)
	mtx.txnInserts = append(mtx.txnInserts, *txn)
	return nil
}

func (r *memTransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.txns {
		if r.store.txns[i].ID == id {
			cp := r.store.txns[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memTransactionRepo) ListByAccount(_ context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.Transaction
	for i := range r.store.txns {
		t := r.store.txns[i]
		if t.ReceiverAccountID == accountID ||
			(t.SenderAccountID != nil && *t.SenderAccountID == accountID) {
			out = append(out, t)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// memUserRepo implements ports.UserRepository.
type memUserRepo struct {
	store *memStore
}

func (r *memUserRepo) Create(_ context.Context, _ pgx.Tx, user *domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *user
	r.store.users[cp.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// memIdemRepo implements ports.IdempotencyRepository.
type memIdemRepo struct {
	store *memStore
}

func (r *memIdemRepo) Create(_ context.Context, tx pgx.Tx, record *domain.IdempotencyRecord) error {
	mtx := tx.(*memTx)
	mtx.idemInserts = append(mtx.idemInserts, record)
	return nil
}

func (r *memIdemRepo) GetByKey(_ context.Context, key string) (*domain.IdempotencyRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rec, ok := r.store.idem[key]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

// memIdemCache implements ports.IdempotencyCache.
type memIdemCache struct {
	mu    sync.Mutex
	items map[string]*domain.IdempotencyRecord
}

func newMemIdemCache() *memIdemCache {
	return &memIdemCache{items: make(map[string]*domain.IdempotencyRecord)}
}

func (c *memIdemCache) Get(_ context.Context, key string) (*domain.IdempotencyRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.items[key]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (c *memIdemCache) Set(_ context.Context, record *domain.IdempotencyRecord, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *record
	c.items[cp.Key] = &cp
	return nil
}

// collectPublisher implements ports.EventPublisher and records every event.
type collectPublisher struct {
	mu     sync.Mutex
	events []domain.TransferCompletedEvent
}

func (p *collectPublisher) PublishTransferCompleted(_ context.Context, event domain.TransferCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *collectPublisher) published() []domain.TransferCompletedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.TransferCompletedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// plainHasher implements ports.HashService without Argon2 cost; credential
// strength is not what these tests measure.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) {
	return "h:" + plain, nil
}

func (plainHasher) Verify(plain, encoded string) (bool, error) {
	return encoded == "h:"+plain, nil
}
