package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/recharge-store-backend/internal/domain/game"
	"github.com/recharge-store-backend/internal/domain/pricing"
)

// priceSnapshot is one immutable view of every game's price table. Readers
// either see the whole snapshot or the whole replacement, never a mix.
type priceSnapshot struct {
	tables    map[game.Type]pricing.Table
	fetchedAt time.Time
}

// PriceServiceImpl implements the PriceService interface. The persistent rows
// are the source of truth; the snapshot held here is a derived, time-bounded
// copy swapped atomically and dropped on every write.
type PriceServiceImpl struct {
	priceRepo pricing.Repository
	txRunner  TxRunner
	ttl       time.Duration
	logger    *slog.Logger

	snapshot atomic.Pointer[priceSnapshot]
	reloadMu sync.Mutex
}

// NewPriceService creates a new price service with the given cache TTL
func NewPriceService(logger *slog.Logger, txRunner TxRunner, priceRepo pricing.Repository, ttl time.Duration) *PriceServiceImpl {
	return &PriceServiceImpl{
		priceRepo: priceRepo,
		txRunner:  txRunner,
		ttl:       ttl,
		logger:    logger,
	}
}

// Get returns the denomination to price table for a game. A cold or expired
// cache triggers one full reload of every known game; games with no stored
// rows are seeded from their hand-authored default tables and persisted.
func (s *PriceServiceImpl) Get(ctx context.Context, g game.Type) (pricing.Table, error) {
	if _, err := game.Lookup(g); err != nil {
		return nil, err
	}

	snap := s.snapshot.Load()
	if snap == nil || time.Since(snap.fetchedAt) >= s.ttl {
		var err error
		snap, err = s.reload(ctx)
		if err != nil {
			return nil, err
		}
	}

	table, ok := snap.tables[g]
	if !ok {
		return pricing.Table{}, nil
	}
	return table.Clone(), nil
}

// Set validates and atomically replaces a game's table, then invalidates the
// cache so the next Get observes the new prices
func (s *PriceServiceImpl) Set(ctx context.Context, g game.Type, table pricing.Table) error {
	if _, err := game.Lookup(g); err != nil {
		return err
	}
	if err := table.Validate(g); err != nil {
		return err
	}

	err := s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		return s.priceRepo.WithTx(tx).ReplaceGame(ctx, g, table)
	})
	if err != nil {
		return fmt.Errorf("failed to replace price table: %w", err)
	}

	s.Invalidate()
	s.logger.Info("Price table replaced", "game", string(g), "denominations", len(table))
	return nil
}

// Invalidate drops the cached snapshot
func (s *PriceServiceImpl) Invalidate() {
	s.snapshot.Store(nil)
}

// reload rebuilds the snapshot from the persistent store, seeding defaults
// for any cataloged game without stored rows
func (s *PriceServiceImpl) reload(ctx context.Context) (*priceSnapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	// Another worker may have reloaded while this one waited for the lock
	if snap := s.snapshot.Load(); snap != nil && time.Since(snap.fetchedAt) < s.ttl {
		return snap, nil
	}

	tables, err := s.priceRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, variant := range game.All() {
		if len(tables[variant.Type]) > 0 {
			continue
		}
		seed := pricing.Table(variant.DefaultPrices())
		err := s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
			return s.priceRepo.WithTx(tx).ReplaceGame(ctx, variant.Type, seed)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed default prices for %s: %w", variant.Type, err)
		}
		tables[variant.Type] = seed
		s.logger.Info("Seeded default price table", "game", string(variant.Type), "denominations", len(seed))
	}

	snap := &priceSnapshot{tables: tables, fetchedAt: time.Now()}
	s.snapshot.Store(snap)
	return snap, nil
}
