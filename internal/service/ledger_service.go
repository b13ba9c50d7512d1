package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/recharge-store-backend/internal/domain/ledger"
)

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	ledgerRepo  ledger.Repository
	adminLookup AdminLookup
	retention   int
	logger      *slog.Logger
}

// NewLedgerService creates a new ledger service. retention is the hard cap on
// entries kept per account.
func NewLedgerService(logger *slog.Logger, ledgerRepo ledger.Repository, adminLookup AdminLookup, retention int) LedgerService {
	return &LedgerServiceImpl{
		ledgerRepo:  ledgerRepo,
		adminLookup: adminLookup,
		retention:   retention,
		logger:      logger,
	}
}

// List returns the requester's history, or the global feed for the
// administrative account
func (s *LedgerServiceImpl) List(ctx context.Context, requesterID uuid.UUID, limit, offset int) ([]*ledger.Entry, error) {
	isAdmin, err := s.adminLookup.IsAdmin(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	if isAdmin {
		return s.ledgerRepo.ListAll(ctx, limit, offset)
	}
	return s.ledgerRepo.ListByAccount(ctx, requesterID, limit, offset)
}

// Prune discards an account's history beyond the retention cap. Runs after
// every append; a failed prune only delays enforcement until the next one.
func (s *LedgerServiceImpl) Prune(ctx context.Context, accountID uuid.UUID) {
	pruned, err := s.ledgerRepo.PruneToLimit(ctx, accountID, s.retention)
	if err != nil {
		s.logger.Error("Failed to prune ledger", "account_id", accountID.String(), "error", err)
		return
	}
	if pruned > 0 {
		s.logger.Debug("Pruned ledger entries", "account_id", accountID.String(), "pruned", pruned)
	}
}
