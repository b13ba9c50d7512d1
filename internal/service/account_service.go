package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/recharge-store-backend/internal/domain/account"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
	logger      *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(logger *slog.Logger, accountRepo account.Repository) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Create registers a new account with a zero balance
func (s *AccountServiceImpl) Create(ctx context.Context, email, firstName, lastName, phone string) (*account.Account, error) {
	acc, err := account.NewAccount(email, firstName, lastName, phone, decimal.Zero)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("Account created", "account_id", acc.ID.String())
	return acc, nil
}

// Get returns an account by id
func (s *AccountServiceImpl) Get(ctx context.Context, accountID uuid.UUID) (*account.Account, error) {
	return s.accountRepo.GetByID(ctx, accountID)
}
