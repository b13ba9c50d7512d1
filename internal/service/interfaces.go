package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/recharge-store-backend/internal/domain/account"
	"github.com/recharge-store-backend/internal/domain/game"
	"github.com/recharge-store-backend/internal/domain/inventory"
	"github.com/recharge-store-backend/internal/domain/ledger"
	"github.com/recharge-store-backend/internal/domain/pricing"
)

// TxRunner executes a function within a storage transaction, rolling back on
// error or panic. Satisfied by persistence.PostgresDB.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// AccountService manages store accounts
type AccountService interface {
	// Create registers a new account with a zero balance
	Create(ctx context.Context, email, firstName, lastName, phone string) (*account.Account, error)

	// Get returns an account by id
	Get(ctx context.Context, accountID uuid.UUID) (*account.Account, error)
}

// BalanceService exposes the per-account balance. Every non-zero mutation
// through this service records exactly one ledger entry.
type BalanceService interface {
	// Get returns the balance, zero for an unknown account
	Get(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)

	// Set overwrites the balance; the delta against the prior value is
	// recorded as an adjustment entry when non-zero
	Set(ctx context.Context, accountID uuid.UUID, value decimal.Decimal) error

	// Credit atomically increments the balance and records a credit entry,
	// returning the resulting balance
	Credit(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
}

// LedgerService exposes transaction history with the per-account retention cap
type LedgerService interface {
	// List returns the requester's entries; for the administrative account it
	// returns the global feed joined with display names. Pending entries sort
	// first, then recency.
	List(ctx context.Context, requesterID uuid.UUID, limit, offset int) ([]*ledger.Entry, error)

	// Prune enforces the retention cap after an append. Failures are logged,
	// not propagated: pruning is maintenance, not part of the request.
	Prune(ctx context.Context, accountID uuid.UUID)
}

// InventoryService manages the pool of unused redemption codes
type InventoryService interface {
	// Allocate picks the oldest available code for a bucket, nil on stock-out
	Allocate(ctx context.Context, g game.Type, denomination int) (*inventory.Code, error)

	// Create adds a code after normalization and system-wide duplicate checks
	Create(ctx context.Context, raw string, g game.Type, denomination int) (*inventory.Code, error)

	// Stock reports the remaining count for a bucket
	Stock(ctx context.Context, g game.Type, denomination int) (int64, error)

	// List returns a bucket's codes in FIFO order
	List(ctx context.Context, g game.Type, denomination int, limit, offset int) ([]*inventory.Code, error)
}

// PriceService exposes the TTL-cached price configuration
type PriceService interface {
	// Get returns the denomination to price table for a game, reloading and
	// seeding the cache when cold or expired
	Get(ctx context.Context, g game.Type) (pricing.Table, error)

	// Set validates and atomically replaces a game's table, then invalidates
	// the cache so the next Get is fresh
	Set(ctx context.Context, g game.Type, table pricing.Table) error

	// Invalidate drops the cached snapshot
	Invalidate()
}

// PurchaseService drives the purchase flow end to end
type PurchaseService interface {
	Execute(ctx context.Context, req *PurchaseRequest) (*Receipt, error)
}

// ReviewService moves pending entries through the manual review state machine
type ReviewService interface {
	// Transition applies pending -> approved or pending -> rejected.
	// Rejection refunds the debited amount before the status change commits.
	Transition(ctx context.Context, entryID uuid.UUID, target ledger.Status) (*ledger.Entry, error)
}
