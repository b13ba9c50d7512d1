package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/recharge-store-backend/internal/domain/account"
	"github.com/recharge-store-backend/internal/domain/ledger"
)

// BalanceServiceImpl implements the BalanceService interface. Mutations and
// their ledger records commit in one storage transaction, so "every non-zero
// mutation produces exactly one entry" holds even across failures.
type BalanceServiceImpl struct {
	txRunner    TxRunner
	accountRepo account.Repository
	ledgerRepo  ledger.Repository
	ledgerSvc   LedgerService
	logger      *slog.Logger
}

// NewBalanceService creates a new balance service
func NewBalanceService(
	logger *slog.Logger,
	txRunner TxRunner,
	accountRepo account.Repository,
	ledgerRepo ledger.Repository,
	ledgerSvc LedgerService,
) BalanceService {
	return &BalanceServiceImpl{
		txRunner:    txRunner,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		ledgerSvc:   ledgerSvc,
		logger:      logger,
	}
}

// Get returns the account balance, zero for an unknown account
func (s *BalanceServiceImpl) Get(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return acc.Balance, nil
}

// Set overwrites the balance, recording the delta as an adjustment entry
func (s *BalanceServiceImpl) Set(ctx context.Context, accountID uuid.UUID, value decimal.Decimal) error {
	if value.IsNegative() || value.GreaterThan(account.MaxBalance) {
		return account.ErrBalanceRange
	}

	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	delta := value.Sub(acc.Balance)
	if delta.IsZero() {
		return nil
	}

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.accountRepo.WithTx(tx).SetBalance(ctx, accountID, value); err != nil {
			return err
		}
		entry := &ledger.Entry{
			ID:        uuid.New(),
			AccountID: accountID,
			Amount:    delta,
			Reference: ledger.NewReference(ledger.RefPrefixAdjustment, accountID),
			Status:    ledger.StatusFinalized,
			CreatedAt: time.Now(),
		}
		return s.ledgerRepo.WithTx(tx).Create(ctx, entry)
	})
	if err != nil {
		return fmt.Errorf("failed to set balance: %w", err)
	}

	s.ledgerSvc.Prune(ctx, accountID)

	s.logger.Info("Balance set", "account_id", accountID.String(), "delta", delta.StringFixed(2))
	return nil
}

// Credit atomically increments the balance and records a credit entry
func (s *BalanceServiceImpl) Credit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, account.ErrInvalidAmount
	}

	var balance decimal.Decimal
	err := s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		var err error
		balance, err = s.accountRepo.WithTx(tx).AdjustBalance(ctx, accountID, amount)
		if err != nil {
			return err
		}
		entry := &ledger.Entry{
			ID:        uuid.New(),
			AccountID: accountID,
			Amount:    amount,
			Reference: ledger.NewReference(ledger.RefPrefixCredit, accountID),
			Status:    ledger.StatusFinalized,
			CreatedAt: time.Now(),
		}
		return s.ledgerRepo.WithTx(tx).Create(ctx, entry)
	})
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("failed to credit balance: %w", err)
	}

	s.ledgerSvc.Prune(ctx, accountID)

	s.logger.Info("Balance credited", "account_id", accountID.String(), "amount", amount.StringFixed(2))
	return balance, nil
}
