package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/recharge-store-backend/internal/domain/game"
	"github.com/recharge-store-backend/internal/domain/pricing"
	"github.com/recharge-store-backend/internal/platform/persistence"
)

// PriceRepository implements the pricing.Repository interface for PostgreSQL
type PriceRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPriceRepository creates a new PostgreSQL price repository
func NewPriceRepository(logger *slog.Logger, db *persistence.PostgresDB) pricing.Repository {
	return &PriceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction
func (r *PriceRepository) WithTx(tx pgx.Tx) pricing.Repository {
	return &PriceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// GetAll loads every stored game's full price table in one pass
func (r *PriceRepository) GetAll(ctx context.Context) (map[game.Type]pricing.Table, error) {
	query := `SELECT game, denomination, price FROM price_configs`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to load price configs", "error", err)
		return nil, fmt.Errorf("failed to load price configs: %w", err)
	}
	defer rows.Close()

	tables := make(map[game.Type]pricing.Table)
	for rows.Next() {
		var (
			g            game.Type
			denomination int
			price        decimal.Decimal
		)
		if err := rows.Scan(&g, &denomination, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price config: %w", err)
		}
		if tables[g] == nil {
			tables[g] = make(pricing.Table)
		}
		tables[g][denomination] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read price configs: %w", err)
	}

	return tables, nil
}

// ReplaceGame swaps all rows for one game. Callers wrap this in a transaction
// via WithTx so readers never observe the gap between delete and insert.
func (r *PriceRepository) ReplaceGame(ctx context.Context, g game.Type, table pricing.Table) error {
	deleteQuery := `DELETE FROM price_configs WHERE game = $1`
	if _, err := r.querier.Exec(ctx, deleteQuery, g); err != nil {
		r.logger.Error("Failed to delete price configs", "game", string(g), "error", err)
		return fmt.Errorf("failed to delete price configs: %w", err)
	}

	insertQuery := `INSERT INTO price_configs (game, denomination, price) VALUES ($1, $2, $3)`
	for denomination, price := range table {
		if _, err := r.querier.Exec(ctx, insertQuery, g, denomination, price); err != nil {
			r.logger.Error("Failed to insert price config", "game", string(g), "denomination", denomination, "error", err)
			return fmt.Errorf("failed to insert price config: %w", err)
		}
	}

	return nil
}
