package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"custodial-ledger/internal/core/domain"
	"custodial-ledger/internal/core/ports"
	"custodial-ledger/internal/service"
	"custodial-ledger/pkg/apperror"
	"custodial-ledger/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	store     *memStore
	publisher *collectPublisher
	engine    *service.TransferService
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func newHarness() *harness {
	store := newMemStore()
	publisher := &collectPublisher{}

	engine := service.NewTransferService(
		&memTransactor{store: store},
		&memAccountRepo{store: store},
		&memTransactionRepo{store: store},
		&memUserRepo{store: store},
		&memIdemRepo{store: store},
		newMemIdemCache(),
		plainHasher{},
		publisher,
		logger.NewWithWriter("error", discard{}),
	)
	return &harness{store: store, publisher: publisher, engine: engine}
}

func (h *harness) seed(email string, balance int64) (*domain.User, *domain.Account) {
	user := h.store.addUser(email, "h:1234")
	account := h.store.addAccount(user.ID, decimal.NewFromInt(balance))
	return user, account
}

func transferReq(caller *domain.User, from, to *domain.Account, amount int64, ref string) ports.TransferRequest {
	return ports.TransferRequest{
		CallerID:          caller.ID,
		SenderAccountID:   from.ID,
		ReceiverAccountID: to.ID,
		Amount:            decimal.NewFromInt(amount),
		Pin:               "1234",
		ReferenceID:       ref,
	}
}

// runWithDeadline fails the test if fn does not return in time; a deadlock
// in the engine shows up here instead of hanging the suite.
func runWithDeadline(t *testing.T, d time.Duration, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatal("deadline exceeded, likely deadlock")
	}
}

func TestConcurrentDrainToZero(t *testing.T) {
	h := newHarness()
	alice, source := h.seed("alice@example.com", 1000)
	_, sink := h.seed("bob@example.com", 0)

	// Ten concurrent transfers of 100 each against a balance of exactly
	// 1000. All must succeed and the source must land on zero.
	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)

	runWithDeadline(t, 30*time.Second, func() {
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = h.engine.Execute(context.Background(),
					transferReq(alice, source, sink, 100, fmt.Sprintf("drain-%d", i)))
			}(i)
		}
		wg.Wait()
	})

	for i, err := range errs {
		assert.NoError(t, err, "transfer %d", i)
	}
	assert.True(t, h.store.balance(source.ID).IsZero(), "source drained to zero")
	assert.True(t, h.store.balance(sink.ID).Equal(decimal.NewFromInt(1000)))
	assert.Len(t, h.store.ledger(), workers)
}

func TestConcurrentConservation(t *testing.T) {
	h := newHarness()

	users := make([]*domain.User, 4)
	accounts := make([]*domain.Account, 4)
	for i := range users {
		users[i], accounts[i] = h.seed(fmt.Sprintf("user%d@example.com", i), 1000)
	}
	total := decimal.NewFromInt(4000)

	const workers = 8
	const perWorker = 50
	var wg sync.WaitGroup

	runWithDeadline(t, 60*time.Second, func() {
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					from := (w + i) % len(accounts)
					to := (from + 1 + i%3) % len(accounts)
					if from == to {
						continue
					}
					// Failures (insufficient funds) are fine; lost money is not.
					_, _ = h.engine.Execute(context.Background(),
						transferReq(users[from], accounts[from], accounts[to], 7,
							fmt.Sprintf("c-%d-%d", w, i)))
				}
			}(w)
		}
		wg.Wait()
	})

	sum := decimal.Zero
	for _, a := range accounts {
		balance := h.store.balance(a.ID)
		assert.False(t, balance.IsNegative(), "account %s went negative", a.ID)
		sum = sum.Add(balance)
	}
	assert.True(t, sum.Equal(total), "money conserved: want %s got %s", total, sum)
}

func TestOpposingTransfersDoNotDeadlock(t *testing.T) {
	h := newHarness()
	alice, accA := h.seed("alice@example.com", 10000)
	bob, accB := h.seed("bob@example.com", 10000)

	const rounds = 200
	var wg sync.WaitGroup

	runWithDeadline(t, 60*time.Second, func() {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				_, err := h.engine.Execute(context.Background(),
					transferReq(alice, accA, accB, 1, fmt.Sprintf("ab-%d", i)))
				assert.NoError(t, err)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				_, err := h.engine.Execute(context.Background(),
					transferReq(bob, accB, accA, 1, fmt.Sprintf("ba-%d", i)))
				assert.NoError(t, err)
			}
		}()
		wg.Wait()
	})

	// Equal opposing volumes leave both balances where they started.
	assert.True(t, h.store.balance(accA.ID).Equal(decimal.NewFromInt(10000)))
	assert.True(t, h.store.balance(accB.ID).Equal(decimal.NewFromInt(10000)))
	assert.Len(t, h.store.ledger(), 2*rounds)
}

func TestAuditTrailMatchesOutcomes(t *testing.T) {
	h := newHarness()
	alice, accA := h.seed("alice@example.com", 100)
	_, accB := h.seed("bob@example.com", 0)

	ctx := context.Background()

	_, err := h.engine.Execute(ctx, transferReq(alice, accA, accB, 60, "ok-1"))
	require.NoError(t, err)

	_, err = h.engine.Execute(ctx, transferReq(alice, accA, accB, 60, "fail-1"))
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "TRF_005", appErr.Code)

	_, err = h.engine.Execute(ctx, transferReq(alice, accA, accB, 40, "ok-2"))
	require.NoError(t, err)

	// Exactly one COMPLETED entry per successful transfer, nothing for the
	// failed attempt.
	ledger := h.store.ledger()
	require.Len(t, ledger, 2)
	for _, txn := range ledger {
		assert.Equal(t, domain.StatusCompleted, txn.Status)
		assert.Equal(t, domain.TypeTransfer, txn.Type)
	}

	// One event per committed transfer.
	assert.Len(t, h.publisher.published(), 2)
}

func TestIdempotentRetryDoesNotDoubleSpend(t *testing.T) {
	h := newHarness()
	alice, accA := h.seed("alice@example.com", 100)
	_, accB := h.seed("bob@example.com", 0)

	ctx := context.Background()
	req := transferReq(alice, accA, accB, 100, "once")

	first, err := h.engine.Execute(ctx, req)
	require.NoError(t, err)

	// Same reference again: replayed, not re-executed.
	second, err := h.engine.Execute(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	assert.True(t, h.store.balance(accA.ID).IsZero())
	assert.True(t, h.store.balance(accB.ID).Equal(decimal.NewFromInt(100)))
	assert.Len(t, h.store.ledger(), 1)
}

func TestFailedTransferLeavesBalancesUntouched(t *testing.T) {
	h := newHarness()
	alice, accA := h.seed("alice@example.com", 50)
	_, accB := h.seed("bob@example.com", 50)

	ctx := context.Background()

	cases := []struct {
		name string
		req  ports.TransferRequest
		code string
	}{
		{"insufficient funds", transferReq(alice, accA, accB, 51, "r1"), "TRF_005"},
		{"wrong pin", func() ports.TransferRequest {
			r := transferReq(alice, accA, accB, 10, "r2")
			r.Pin = "0000"
			return r
		}(), "TRF_004"},
		{"not owner", func() ports.TransferRequest {
			r := transferReq(alice, accB, accA, 10, "r3")
			return r
		}(), "TRF_006"},
	}

	for _, tc := range cases {
		_, err := h.engine.Execute(ctx, tc.req)
		require.Error(t, err, tc.name)
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr), tc.name)
		assert.Equal(t, tc.code, appErr.Code, tc.name)
	}

	assert.True(t, h.store.balance(accA.ID).Equal(decimal.NewFromInt(50)))
	assert.True(t, h.store.balance(accB.ID).Equal(decimal.NewFromInt(50)))
	assert.Empty(t, h.store.ledger())
	assert.Empty(t, h.publisher.published())
}
