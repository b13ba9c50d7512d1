package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages ledger entry persistence. Listing orders pending entries
// first, then by recency, for both the per-account and the global feed.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Entry, error)

	// ListAll returns the global feed across all accounts, joined with
	// account display names
	ListAll(ctx context.Context, limit, offset int) ([]*Entry, error)

	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)

	// PruneToLimit deletes an account's oldest entries beyond keep and
	// returns how many were discarded
	PruneToLimit(ctx context.Context, accountID uuid.UUID, keep int) (int64, error)

	// UpdateStatusIfPending conditionally moves a pending entry to the given
	// status. It reports false when the entry was not pending, so a repeated
	// transition can never apply twice.
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status Status) (bool, error)

	WithTx(tx pgx.Tx) Repository
}
