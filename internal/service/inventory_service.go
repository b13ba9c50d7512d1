package service

import (
	"context"
	"log/slog"

	"github.com/recharge-store-backend/internal/domain/game"
	"github.com/recharge-store-backend/internal/domain/inventory"
)

// InventoryServiceImpl implements the InventoryService interface
type InventoryServiceImpl struct {
	inventoryRepo inventory.Repository
	logger        *slog.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(logger *slog.Logger, inventoryRepo inventory.Repository) InventoryService {
	return &InventoryServiceImpl{
		inventoryRepo: inventoryRepo,
		logger:        logger,
	}
}

// Allocate picks the oldest available code for the bucket, nil on stock-out
func (s *InventoryServiceImpl) Allocate(ctx context.Context, g game.Type, denomination int) (*inventory.Code, error) {
	if _, err := game.Lookup(g); err != nil {
		return nil, err
	}
	return s.inventoryRepo.OldestInBucket(ctx, g, denomination)
}

// Create adds a code to a bucket. The normalized string must not exist
// anywhere in the system, across all games.
func (s *InventoryServiceImpl) Create(ctx context.Context, raw string, g game.Type, denomination int) (*inventory.Code, error) {
	variant, err := game.Lookup(g)
	if err != nil {
		return nil, err
	}
	if _, ok := variant.Denomination(denomination); !ok {
		return nil, game.ErrInvalidDenomination{Game: g, Key: denomination}
	}

	code, err := inventory.NewCode(raw, g, denomination)
	if err != nil {
		return nil, err
	}

	// The pre-check gives a friendly error; the unique index catches the
	// insert race regardless.
	exists, err := s.inventoryRepo.ExistsByCode(ctx, code.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, inventory.ErrDuplicateCode{Code: code.Code}
	}

	if err := s.inventoryRepo.Create(ctx, code); err != nil {
		return nil, err
	}

	s.logger.Info("Inventory code created", "game", string(g), "denomination", denomination)
	return code, nil
}

// Stock reports the remaining count for a bucket
func (s *InventoryServiceImpl) Stock(ctx context.Context, g game.Type, denomination int) (int64, error) {
	if _, err := game.Lookup(g); err != nil {
		return 0, err
	}
	return s.inventoryRepo.CountBucket(ctx, g, denomination)
}

// List returns a bucket's codes in FIFO order
func (s *InventoryServiceImpl) List(ctx context.Context, g game.Type, denomination int, limit, offset int) ([]*inventory.Code, error) {
	if _, err := game.Lookup(g); err != nil {
		return nil, err
	}
	return s.inventoryRepo.ListBucket(ctx, g, denomination, limit, offset)
}
