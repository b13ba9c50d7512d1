package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetByEmail returns (nil, nil) when no account carries the email
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// AdjustBalance atomically applies balance = balance + delta and returns
	// the resulting balance
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)

	// SetBalance overwrites the balance with the given value
	SetBalance(ctx context.Context, id uuid.UUID, value decimal.Decimal) error

	WithTx(tx pgx.Tx) Repository
}
