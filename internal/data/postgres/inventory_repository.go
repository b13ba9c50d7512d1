package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/recharge-store-backend/internal/domain/game"
	"github.com/recharge-store-backend/internal/domain/inventory"
	"github.com/recharge-store-backend/internal/platform/persistence"
)

// InventoryRepository implements the inventory.Repository interface for PostgreSQL
type InventoryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewInventoryRepository creates a new PostgreSQL inventory repository
func NewInventoryRepository(logger *slog.Logger, db *persistence.PostgresDB) inventory.Repository {
	return &InventoryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *InventoryRepository) WithTx(tx pgx.Tx) inventory.Repository {
	return &InventoryRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new code. The unique index on the code column spans all
// games, so the same string can never be sold twice anywhere.
func (r *InventoryRepository) Create(ctx context.Context, code *inventory.Code) error {
	query := `
		INSERT INTO inventory_codes (id, code, game, denomination, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.querier.Exec(ctx, query,
		code.ID,
		code.Code,
		code.Game,
		code.Denomination,
		code.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return inventory.ErrDuplicateCode{Code: code.Code}
		}
		r.logger.Error("Failed to create inventory code", "error", err)
		return fmt.Errorf("failed to create inventory code: %w", err)
	}

	return nil
}

// OldestInBucket returns the FIFO head of a bucket so old stock is sold first,
// or (nil, nil) when the bucket is empty
func (r *InventoryRepository) OldestInBucket(ctx context.Context, g game.Type, denomination int) (*inventory.Code, error) {
	query := `
		SELECT id, code, game, denomination, created_at
		FROM inventory_codes
		WHERE game = $1 AND denomination = $2
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`

	var code inventory.Code
	err := r.querier.QueryRow(ctx, query, g, denomination).Scan(
		&code.ID,
		&code.Code,
		&code.Game,
		&code.Denomination,
		&code.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get oldest inventory code", "game", string(g), "denomination", denomination, "error", err)
		return nil, fmt.Errorf("failed to get oldest inventory code: %w", err)
	}

	return &code, nil
}

// ConsumeByID deletes the row iff it still exists. The single conditional
// delete is what keeps two racing allocations from both succeeding.
func (r *InventoryRepository) ConsumeByID(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM inventory_codes WHERE id = $1`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to consume inventory code", "id", id.String(), "error", err)
		return false, fmt.Errorf("failed to consume inventory code: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ExistsByCode reports whether a normalized code string exists in any game
func (r *InventoryRepository) ExistsByCode(ctx context.Context, normalized string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM inventory_codes WHERE code = $1)`

	var exists bool
	if err := r.querier.QueryRow(ctx, query, normalized).Scan(&exists); err != nil {
		r.logger.Error("Failed to check inventory code existence", "error", err)
		return false, fmt.Errorf("failed to check inventory code existence: %w", err)
	}

	return exists, nil
}

// CountBucket returns the remaining stock of a bucket
func (r *InventoryRepository) CountBucket(ctx context.Context, g game.Type, denomination int) (int64, error) {
	query := `SELECT COUNT(*) FROM inventory_codes WHERE game = $1 AND denomination = $2`

	var count int64
	if err := r.querier.QueryRow(ctx, query, g, denomination).Scan(&count); err != nil {
		r.logger.Error("Failed to count inventory bucket", "game", string(g), "denomination", denomination, "error", err)
		return 0, fmt.Errorf("failed to count inventory bucket: %w", err)
	}

	return count, nil
}

// ListBucket retrieves a bucket's codes in FIFO order
func (r *InventoryRepository) ListBucket(ctx context.Context, g game.Type, denomination int, limit, offset int) ([]*inventory.Code, error) {
	query := `
		SELECT id, code, game, denomination, created_at
		FROM inventory_codes
		WHERE game = $1 AND denomination = $2
		ORDER BY created_at ASC, id ASC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.querier.Query(ctx, query, g, denomination, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list inventory bucket", "game", string(g), "denomination", denomination, "error", err)
		return nil, fmt.Errorf("failed to list inventory bucket: %w", err)
	}
	defer rows.Close()

	var codes []*inventory.Code
	for rows.Next() {
		var code inventory.Code
		if err := rows.Scan(&code.ID, &code.Code, &code.Game, &code.Denomination, &code.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory code: %w", err)
		}
		codes = append(codes, &code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inventory codes: %w", err)
	}

	return codes, nil
}
