package accountrepo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/d-morgun/proto-bank/internal/domain"
)

func ignoreCreatedAt() cmp.Option {
	return cmpopts.IgnoreFields(domain.Account{}, "CreatedAt")
}

func TestCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRepoMem()

	got, err := repo.Create(ctx, "Alice")
	if err != nil {
		t.Fatalf("Create(ctx, Alice) returned error: %v", err)
	}

	want := domain.Account{ID: "user-1", Name: "Alice", Balance: 0}
	if diff := cmp.Diff(want, got, ignoreCreatedAt()); diff != "" {
		t.Errorf("Create(ctx, Alice) mismatch (-want +got):\n%s", diff)
	}

	if got.CreatedAt.IsZero() {
		t.Error("Create(ctx, Alice) returned zero CreatedAt")
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRepoMem()

	first, err := repo.Create(ctx, "Alice")
	if err != nil {
		t.Fatalf("Create(ctx, Alice) returned error: %v", err)
	}

	second, err := repo.Create(ctx, "Alice")
	if err != nil {
		t.Fatalf("Create(ctx, Alice) returned error: %v", err)
	}

	if first.ID == second.ID {
		t.Errorf("accounts with the same name share the id %q", first.ID)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRepoMem()

	created, err := repo.Create(ctx, "Bob")
	if err != nil {
		t.Fatalf("Create(ctx, Bob) returned error: %v", err)
	}

	if _, err = repo.AddBalance(ctx, created.ID, 500); err != nil {
		t.Fatalf("AddBalance(ctx, %v, 500) returned error: %v", created.ID, err)
	}

	// Repeated reads with no intervening mutation return the same value.
	for i := 0; i < 3; i++ {
		got, err := repo.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get(ctx, %v) returned error: %v", created.ID, err)
		}

		if got.Balance != 500 {
			t.Errorf("Get(ctx, %v).Balance = %d, want 500", created.ID, got.Balance)
		}
	}

	if _, err := repo.Get(ctx, "user-404"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Get(ctx, user-404) returned %v, want %v", err, domain.ErrAccountNotFound)
	}
}

func TestAddBalance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRepoMem()

	created, err := repo.Create(ctx, "Bob")
	if err != nil {
		t.Fatalf("Create(ctx, Bob) returned error: %v", err)
	}

	testCases := []struct {
		name        string
		id          string
		delta       int64
		wantBalance int64
		wantErr     error
	}{
		{name: "Deposit", id: created.ID, delta: 500, wantBalance: 500},
		{name: "WithdrawExceedingBalance", id: created.ID, delta: -600, wantErr: domain.ErrInsufficientBalance},
		{name: "Withdraw", id: created.ID, delta: -200, wantBalance: 300},
		{name: "NotFound", id: "user-404", delta: 100, wantErr: domain.ErrAccountNotFound},
	}

	for _, tc := range testCases {
		got, err := repo.AddBalance(ctx, tc.id, tc.delta)
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("%v: AddBalance(ctx, %v, %v) returned %v, want %v",
				tc.name, tc.id, tc.delta, err, tc.wantErr)
		}

		if tc.wantErr != nil {
			continue
		}

		if got.Balance != tc.wantBalance {
			t.Errorf("%v: AddBalance(ctx, %v, %v).Balance = %d, want %d",
				tc.name, tc.id, tc.delta, got.Balance, tc.wantBalance)
		}
	}

	// The failed withdrawal above must not have touched the balance.
	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get(ctx, %v) returned error: %v", created.ID, err)
	}

	if got.Balance != 300 {
		t.Errorf("Get(ctx, %v).Balance = %d, want 300", created.ID, got.Balance)
	}
}

func TestTransferTx(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRepoMem()

	carol, err := repo.Create(ctx, "Carol")
	if err != nil {
		t.Fatalf("Create(ctx, Carol) returned error: %v", err)
	}

	dave, err := repo.Create(ctx, "Dave")
	if err != nil {
		t.Fatalf("Create(ctx, Dave) returned error: %v", err)
	}

	if _, err = repo.AddBalance(ctx, carol.ID, 1000); err != nil {
		t.Fatalf("AddBalance(ctx, %v, 1000) returned error: %v", carol.ID, err)
	}

	result, err := repo.TransferTx(ctx, carol.ID, dave.ID, 300)
	if err != nil {
		t.Fatalf("TransferTx(ctx, %v, %v, 300) returned error: %v", carol.ID, dave.ID, err)
	}

	if result.FromAccount.Balance != 700 {
		t.Errorf("FromAccount.Balance = %d, want 700", result.FromAccount.Balance)
	}

	if result.ToAccount.Balance != 300 {
		t.Errorf("ToAccount.Balance = %d, want 300", result.ToAccount.Balance)
	}

	// Conservation: the pair's total is unchanged.
	if total := result.FromAccount.Balance + result.ToAccount.Balance; total != 1000 {
		t.Errorf("total balance after transfer = %d, want 1000", total)
	}
}

func TestTransferTxInsufficientBalance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRepoMem()

	carol, err := repo.Create(ctx, "Carol")
	if err != nil {
		t.Fatalf("Create(ctx, Carol) returned error: %v", err)
	}

	dave, err := repo.Create(ctx, "Dave")
	if err != nil {
		t.Fatalf("Create(ctx, Dave) returned error: %v", err)
	}

	if _, err = repo.AddBalance(ctx, carol.ID, 100); err != nil {
		t.Fatalf("AddBalance(ctx, %v, 100) returned error: %v", carol.ID, err)
	}

	_, err = repo.TransferTx(ctx, carol.ID, dave.ID, 300)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("TransferTx(ctx, %v, %v, 300) returned %v, want %v",
			carol.ID, dave.ID, err, domain.ErrInsufficientBalance)
	}

	// Both balances are exactly as before the call.
	gotCarol, err := repo.Get(ctx, carol.ID)
	if err != nil {
		t.Fatalf("Get(ctx, %v) returned error: %v", carol.ID, err)
	}

	gotDave, err := repo.Get(ctx, dave.ID)
	if err != nil {
		t.Fatalf("Get(ctx, %v) returned error: %v", dave.ID, err)
	}

	if gotCarol.Balance != 100 || gotDave.Balance != 0 {
		t.Errorf("balances after failed transfer = (%d, %d), want (100, 0)",
			gotCarol.Balance, gotDave.Balance)
	}
}

func TestTransferTxNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRepoMem()

	created, err := repo.Create(ctx, "Carol")
	if err != nil {
		t.Fatalf("Create(ctx, Carol) returned error: %v", err)
	}

	if _, err = repo.AddBalance(ctx, created.ID, 100); err != nil {
		t.Fatalf("AddBalance(ctx, %v, 100) returned error: %v", created.ID, err)
	}

	if _, err := repo.TransferTx(ctx, created.ID, "user-404", 50); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("TransferTx to unknown account returned %v, want %v", err, domain.ErrAccountNotFound)
	}

	if _, err := repo.TransferTx(ctx, "user-404", created.ID, 50); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("TransferTx from unknown account returned %v, want %v", err, domain.ErrAccountNotFound)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get(ctx, %v) returned error: %v", created.ID, err)
	}

	if got.Balance != 100 {
		t.Errorf("Get(ctx, %v).Balance = %d, want 100", created.ID, got.Balance)
	}
}

func TestTransferTxSelf(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRepoMem()

	created, err := repo.Create(ctx, "Carol")
	if err != nil {
		t.Fatalf("Create(ctx, Carol) returned error: %v", err)
	}

	if _, err = repo.AddBalance(ctx, created.ID, 100); err != nil {
		t.Fatalf("AddBalance(ctx, %v, 100) returned error: %v", created.ID, err)
	}

	result, err := repo.TransferTx(ctx, created.ID, created.ID, 50)
	if err != nil {
		t.Fatalf("self TransferTx returned error: %v", err)
	}

	if result.FromAccount.Balance != 100 {
		t.Errorf("balance after self transfer = %d, want 100", result.FromAccount.Balance)
	}

	// The funds check still applies even though the balance stays put.
	if _, err := repo.TransferTx(ctx, created.ID, created.ID, 200); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Errorf("self TransferTx above balance returned %v, want %v", err, domain.ErrInsufficientBalance)
	}
}

func TestConcurrentDeposits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRepoMem()

	created, err := repo.Create(ctx, "Alice")
	if err != nil {
		t.Fatalf("Create(ctx, Alice) returned error: %v", err)
	}

	const (
		n      = 100
		amount = 100
	)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := repo.AddBalance(ctx, created.ID, amount); err != nil {
				t.Errorf("AddBalance(ctx, %v, %v) returned error: %v", created.ID, amount, err)
			}
		}()
	}

	wg.Wait()

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get(ctx, %v) returned error: %v", created.ID, err)
	}

	if got.Balance != n*amount {
		t.Errorf("balance after %d concurrent deposits = %d, want %d", n, got.Balance, n*amount)
	}
}

func TestConcurrentOppositeTransfers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRepoMem()

	alice, err := repo.Create(ctx, "Alice")
	if err != nil {
		t.Fatalf("Create(ctx, Alice) returned error: %v", err)
	}

	bob, err := repo.Create(ctx, "Bob")
	if err != nil {
		t.Fatalf("Create(ctx, Bob) returned error: %v", err)
	}

	const initial = 1000

	if _, err = repo.AddBalance(ctx, alice.ID, initial); err != nil {
		t.Fatalf("AddBalance(ctx, %v, %v) returned error: %v", alice.ID, initial, err)
	}

	if _, err = repo.AddBalance(ctx, bob.ID, initial); err != nil {
		t.Fatalf("AddBalance(ctx, %v, %v) returned error: %v", bob.ID, initial, err)
	}

	// Transfers in both directions between the same pair must neither
	// deadlock nor lose an update.
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()

			if _, err := repo.TransferTx(ctx, alice.ID, bob.ID, 1); err != nil {
				t.Errorf("TransferTx(ctx, %v, %v, 1) returned error: %v", alice.ID, bob.ID, err)
			}
		}()

		go func() {
			defer wg.Done()

			if _, err := repo.TransferTx(ctx, bob.ID, alice.ID, 1); err != nil {
				t.Errorf("TransferTx(ctx, %v, %v, 1) returned error: %v", bob.ID, alice.ID, err)
			}
		}()
	}

	wg.Wait()

	gotAlice, err := repo.Get(ctx, alice.ID)
	if err != nil {
		t.Fatalf("Get(ctx, %v) returned error: %v", alice.ID, err)
	}

	gotBob, err := repo.Get(ctx, bob.ID)
	if err != nil {
		t.Fatalf("Get(ctx, %v) returned error: %v", bob.ID, err)
	}

	if gotAlice.Balance < 0 || gotBob.Balance < 0 {
		t.Errorf("negative balance after transfers: alice=%d bob=%d", gotAlice.Balance, gotBob.Balance)
	}

	if total := gotAlice.Balance + gotBob.Balance; total != 2*initial {
		t.Errorf("total balance after transfers = %d, want %d", total, 2*initial)
	}
}
