package pricing

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/recharge-store-backend/internal/domain/game"
)

// Repository defines price configuration persistence operations
type Repository interface {
	// GetAll loads every stored game's full table in one pass
	GetAll(ctx context.Context) (map[game.Type]Table, error)

	// ReplaceGame atomically swaps all rows for one game (delete-then-insert)
	ReplaceGame(ctx context.Context, g game.Type, table Table) error

	WithTx(tx pgx.Tx) Repository
}
