// Package accountrepo manages repository layer of accounts.
//
// Accounts live in a process-wide map guarded by a read-write mutex; every
// account additionally carries its own mutex so that operations on disjoint
// accounts run fully in parallel while operations on the same account are
// linearizable.
package accountrepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/d-morgun/proto-bank/internal/domain"
)

// account is the mutable ledger record. mu serializes balance changes; the
// remaining fields are immutable after creation.
type account struct {
	mu        sync.Mutex
	id        string
	name      string
	balance   int64
	createdAt time.Time
}

// snapshot copies the record into the domain type. Callers must hold mu or
// otherwise have exclusive access.
func (a *account) snapshot() domain.Account {
	return domain.Account{
		ID:        a.id,
		Name:      a.name,
		Balance:   a.balance,
		CreatedAt: a.createdAt,
	}
}

// RepoMem facilitates account repository layer logic.
type RepoMem struct {
	mu       sync.RWMutex // guards accounts and lastID
	accounts map[string]*account
	lastID   int64
}

// NewRepoMem returns an empty account RepoMem.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		accounts: make(map[string]*account),
	}
}

// Create creates an account with a zero balance and then returns it.
func (r *RepoMem) Create(ctx context.Context, name string) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++

	a := &account{
		id:        fmt.Sprintf("user-%d", r.lastID),
		name:      name,
		createdAt: time.Now(),
	}

	r.accounts[a.id] = a

	return a.snapshot(), nil
}

// get resolves the id to the live record.
func (r *RepoMem) get(ctx context.Context, id string) (*account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		l := zerolog.Ctx(ctx)
		l.Info().Str("account_id", id).Err(domain.ErrAccountNotFound).Send()

		return nil, domain.ErrAccountNotFound
	}

	return a, nil
}

// Get returns the account for the given id.
func (r *RepoMem) Get(ctx context.Context, id string) (domain.Account, error) {
	a, err := r.get(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.snapshot(), nil
}

// AddBalance changes the account's balance by delta and returns the changed
// account. A delta that would drive the balance below zero leaves the
// account untouched and returns domain.ErrInsufficientBalance.
func (r *RepoMem) AddBalance(ctx context.Context, id string, delta int64) (domain.Account, error) {
	a, err := r.get(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.balance+delta < 0 {
		return domain.Account{}, domain.ErrInsufficientBalance
	}

	a.balance += delta

	return a.snapshot(), nil
}

// TransferTx moves amount from one account to the other as a single atomic
// unit: both balances change together or neither does.
//
// Both accounts are resolved before any mutation and locked in id order, so
// two opposite transfers between the same pair cannot deadlock. A transfer
// from an account to itself is a no-op on the balance but still requires
// sufficient funds.
func (r *RepoMem) TransferTx(ctx context.Context, fromID, toID string, amount int64) (domain.TransferTxResult, error) {
	from, err := r.get(ctx, fromID)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	to, err := r.get(ctx, toID)
	if err != nil {
		return domain.TransferTxResult{}, err
	}

	if from == to {
		from.mu.Lock()
		defer from.mu.Unlock()

		if from.balance < amount {
			return domain.TransferTxResult{}, domain.ErrInsufficientBalance
		}

		snap := from.snapshot()

		return domain.TransferTxResult{FromAccount: snap, ToAccount: snap}, nil
	}

	first, second := from, to
	if second.id < first.id {
		first, second = second, first
	}

	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if from.balance < amount {
		return domain.TransferTxResult{}, domain.ErrInsufficientBalance
	}

	from.balance -= amount
	to.balance += amount

	return domain.TransferTxResult{
		FromAccount: from.snapshot(),
		ToAccount:   to.snapshot(),
	}, nil
}
