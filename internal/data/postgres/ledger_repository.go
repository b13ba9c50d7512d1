package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/recharge-store-backend/internal/domain/ledger"
	"github.com/recharge-store-backend/internal/platform/persistence"
)

// Entries are listed with pending rows first so operators see open reviews at
// the top, then by recency.
const ledgerOrderClause = `ORDER BY (t.status = 'pending') DESC, t.created_at DESC, t.id DESC`

// LedgerRepository implements the ledger.Repository interface for PostgreSQL
type LedgerRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *LedgerRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &LedgerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create appends a new entry to the ledger
func (r *LedgerRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (id, account_id, amount, reference, correlation_id, status, game, denomination, player_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.Amount,
		entry.Reference,
		entry.CorrelationID,
		entry.Status,
		entry.Game,
		entry.Denomination,
		entry.PlayerID,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create ledger entry", "reference", entry.Reference, "error", err)
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

// GetByID retrieves a ledger entry by its ID
func (r *LedgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	query := `
		SELECT id, account_id, amount, reference, correlation_id, status, game, denomination, player_id, created_at
		FROM ledger_entries
		WHERE id = $1
	`

	var entry ledger.Entry
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.Amount,
		&entry.Reference,
		&entry.CorrelationID,
		&entry.Status,
		&entry.Game,
		&entry.Denomination,
		&entry.PlayerID,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrEntryNotFound{EntryID: id}
		}
		r.logger.Error("Failed to get ledger entry", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return &entry, nil
}

// ListByAccount retrieves one account's entries, pending first then newest
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*ledger.Entry, error) {
	query := `
		SELECT t.id, t.account_id, t.amount, t.reference, t.correlation_id, t.status, t.game, t.denomination, t.player_id, t.created_at
		FROM ledger_entries t
		WHERE t.account_id = $1
		` + ledgerOrderClause + `
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list ledger entries", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows, false)
}

// ListAll retrieves the global feed joined with account display names
func (r *LedgerRepository) ListAll(ctx context.Context, limit, offset int) ([]*ledger.Entry, error) {
	query := `
		SELECT t.id, t.account_id, t.amount, t.reference, t.correlation_id, t.status, t.game, t.denomination, t.player_id, t.created_at,
		       TRIM(a.first_name || ' ' || a.last_name) AS account_name
		FROM ledger_entries t
		JOIN accounts a ON a.id = t.account_id
		` + ledgerOrderClause + `
		LIMIT $1 OFFSET $2
	`

	rows, err := r.querier.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list global ledger feed", "error", err)
		return nil, fmt.Errorf("failed to list global ledger feed: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows, true)
}

func scanEntries(rows pgx.Rows, withAccountName bool) ([]*ledger.Entry, error) {
	var entries []*ledger.Entry
	for rows.Next() {
		var entry ledger.Entry
		dest := []interface{}{
			&entry.ID,
			&entry.AccountID,
			&entry.Amount,
			&entry.Reference,
			&entry.CorrelationID,
			&entry.Status,
			&entry.Game,
			&entry.Denomination,
			&entry.PlayerID,
			&entry.CreatedAt,
		}
		if withAccountName {
			dest = append(dest, &entry.AccountName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger entries: %w", err)
	}
	return entries, nil
}

// CountByAccount returns the number of entries recorded for an account
func (r *LedgerRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM ledger_entries WHERE account_id = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		r.logger.Error("Failed to count ledger entries", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	return count, nil
}

// PruneToLimit hard-deletes the oldest entries beyond the retention cap.
// Discarded history is gone for good; only the most recent keep rows survive.
func (r *LedgerRepository) PruneToLimit(ctx context.Context, accountID uuid.UUID, keep int) (int64, error) {
	query := `
		DELETE FROM ledger_entries
		WHERE account_id = $1
		AND id NOT IN (
			SELECT id FROM ledger_entries
			WHERE account_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		)
	`

	result, err := r.querier.Exec(ctx, query, accountID, keep)
	if err != nil {
		r.logger.Error("Failed to prune ledger entries", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to prune ledger entries: %w", err)
	}

	return result.RowsAffected(), nil
}

// UpdateStatusIfPending conditionally finishes a pending entry. The WHERE
// guard makes repeated transitions lose: a terminal entry is never updated.
func (r *LedgerRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status ledger.Status) (bool, error) {
	query := `
		UPDATE ledger_entries
		SET status = $1
		WHERE id = $2 AND status = 'pending'
	`

	result, err := r.querier.Exec(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update ledger entry status", "id", id.String(), "status", string(status), "error", err)
		return false, fmt.Errorf("failed to update ledger entry status: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
