package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/recharge-store-backend/internal/domain/account"
	"github.com/recharge-store-backend/internal/domain/ledger"
)

// ReviewServiceImpl implements the ReviewService interface. The status change
// and, on rejection, the refund commit in one storage transaction; the
// conditional update makes a repeated transition a no-op instead of a second
// refund.
type ReviewServiceImpl struct {
	txRunner    TxRunner
	accountRepo account.Repository
	ledgerRepo  ledger.Repository
	ledgerSvc   LedgerService
	logger      *slog.Logger
}

// NewReviewService creates a new review service
func NewReviewService(
	logger *slog.Logger,
	txRunner TxRunner,
	accountRepo account.Repository,
	ledgerRepo ledger.Repository,
	ledgerSvc LedgerService,
) ReviewService {
	return &ReviewServiceImpl{
		txRunner:    txRunner,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		ledgerSvc:   ledgerSvc,
		logger:      logger,
	}
}

// Transition moves a pending entry to approved or rejected. Rejection refunds
// the debited amount to the buyer in the same transaction.
func (s *ReviewServiceImpl) Transition(ctx context.Context, entryID uuid.UUID, target ledger.Status) (*ledger.Entry, error) {
	if target != ledger.StatusApproved && target != ledger.StatusRejected {
		return nil, ledger.ErrInvalidTransition{EntryID: entryID, From: ledger.StatusPending, To: target}
	}

	entry, err := s.ledgerRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != ledger.StatusPending {
		return nil, ledger.ErrInvalidTransition{EntryID: entryID, From: entry.Status, To: target}
	}

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		// The conditional update is the authority: if another operator got
		// here first, nothing below must take effect.
		ok, err := s.ledgerRepo.WithTx(tx).UpdateStatusIfPending(ctx, entryID, target)
		if err != nil {
			return err
		}
		if !ok {
			return ledger.ErrInvalidTransition{EntryID: entryID, From: target, To: target}
		}

		if target == ledger.StatusRejected && entry.Amount.IsNegative() {
			refund := entry.Amount.Abs()
			if _, err := s.accountRepo.WithTx(tx).AdjustBalance(ctx, entry.AccountID, refund); err != nil {
				return err
			}
			refundEntry := &ledger.Entry{
				ID:            uuid.New(),
				AccountID:     entry.AccountID,
				Amount:        refund,
				Reference:     ledger.NewReference(ledger.RefPrefixRefund, entry.AccountID),
				CorrelationID: entry.CorrelationID,
				Status:        ledger.StatusFinalized,
				Game:          entry.Game,
				Denomination:  entry.Denomination,
				CreatedAt:     time.Now(),
			}
			if err := s.ledgerRepo.WithTx(tx).Create(ctx, refundEntry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var transition ledger.ErrInvalidTransition
		if errors.As(err, &transition) {
			return nil, transition
		}
		return nil, fmt.Errorf("failed to transition entry %s: %w", entryID, err)
	}

	s.ledgerSvc.Prune(ctx, entry.AccountID)

	entry.Status = target
	s.logger.Info("Review transition applied",
		"entry_id", entryID.String(),
		"account_id", entry.AccountID.String(),
		"status", string(target),
	)
	return entry, nil
}
