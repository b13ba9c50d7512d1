package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/recharge-store-backend/internal/domain/game"
)

// Repository defines inventory persistence operations
type Repository interface {
	// Create stores a new code; the code string is unique across all games
	Create(ctx context.Context, code *Code) error

	// OldestInBucket returns the FIFO head of a bucket, or (nil, nil) when
	// the bucket is empty
	OldestInBucket(ctx context.Context, g game.Type, denomination int) (*Code, error)

	// ConsumeByID deletes the row iff it still exists. Exactly one of any
	// number of concurrent callers observes true.
	ConsumeByID(ctx context.Context, id uuid.UUID) (bool, error)

	ExistsByCode(ctx context.Context, normalized string) (bool, error)
	CountBucket(ctx context.Context, g game.Type, denomination int) (int64, error)
	ListBucket(ctx context.Context, g game.Type, denomination int, limit, offset int) ([]*Code, error)

	WithTx(tx pgx.Tx) Repository
}
