// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/d-morgun/proto-bank/internal/domain"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, name string) (domain.Account, error)
	Get(ctx context.Context, id string) (domain.Account, error)
	AddBalance(ctx context.Context, id string, delta int64) (domain.Account, error)
	TransferTx(ctx context.Context, fromID, toID string, amount int64) (domain.TransferTxResult, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Create creates and returns a zero-balance account for the given name.
func (s *Service) Create(ctx context.Context, name string) (domain.Account, error) {
	if strings.TrimSpace(name) == "" {
		l := zerolog.Ctx(ctx)
		l.Info().Err(domain.ErrNameRequired).Send()

		return domain.Account{}, domain.ErrNameRequired
	}

	account, err := s.repo.Create(ctx, name)
	if err != nil {
		return account, err
	}

	return account, nil
}

// Get returns the account for the given account ID.
func (s *Service) Get(ctx context.Context, id string) (domain.Account, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return account, err
	}

	return account, nil
}

// Deposit credits the account and returns it with the updated balance.
func (s *Service) Deposit(ctx context.Context, id string, amount int64) (domain.Account, error) {
	if err := validAmount(ctx, amount); err != nil {
		return domain.Account{}, err
	}

	account, err := s.repo.AddBalance(ctx, id, amount)
	if err != nil {
		return account, err
	}

	return account, nil
}

// Withdraw debits the account and returns it with the updated balance.
func (s *Service) Withdraw(ctx context.Context, id string, amount int64) (domain.Account, error) {
	if err := validAmount(ctx, amount); err != nil {
		return domain.Account{}, err
	}

	account, err := s.repo.AddBalance(ctx, id, -amount)
	if err != nil {
		return account, err
	}

	return account, nil
}

// Transfer moves amount between the two accounts and returns both with their
// updated balances.
func (s *Service) Transfer(ctx context.Context, fromID, toID string, amount int64) (domain.TransferTxResult, error) {
	if err := validAmount(ctx, amount); err != nil {
		return domain.TransferTxResult{}, err
	}

	result, err := s.repo.TransferTx(ctx, fromID, toID, amount)
	if err != nil {
		return result, err
	}

	return result, nil
}

// validAmount rejects zero and negative amounts. Accepting them would let a
// deposit act as an unchecked withdrawal and break the non-negative balance
// invariant.
func validAmount(ctx context.Context, amount int64) error {
	if amount <= 0 {
		l := zerolog.Ctx(ctx)
		l.Info().Int64("amount", amount).Err(domain.ErrInvalidAmount).Send()

		return domain.ErrInvalidAmount
	}

	return nil
}
