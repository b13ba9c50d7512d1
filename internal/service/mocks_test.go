package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/recharge-store-backend/internal/domain/account"
	"github.com/recharge-store-backend/internal/domain/game"
	"github.com/recharge-store-backend/internal/domain/inventory"
	"github.com/recharge-store-backend/internal/domain/ledger"
	"github.com/recharge-store-backend/internal/domain/pricing"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// fakeTxRunner runs the transactional function directly against a nil tx. The
// repository mocks return themselves from WithTx, so the function body runs
// exactly as it would inside a real transaction.
type fakeTxRunner struct {
	err error
}

func (f *fakeTxRunner) ExecuteTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

// Mock implementations of the dependencies

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, acc *account.Account) error {
	args := m.Called(ctx, acc)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) SetBalance(ctx context.Context, id uuid.UUID, value decimal.Decimal) error {
	args := m.Called(ctx, id, value)
	return args.Error(0)
}

func (m *MockAccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return m
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepository) ListAll(ctx context.Context, limit, offset int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockLedgerRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) PruneToLimit(ctx context.Context, accountID uuid.UUID, keep int) (int64, error) {
	args := m.Called(ctx, accountID, keep)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status ledger.Status) (bool, error) {
	args := m.Called(ctx, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return m
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, code *inventory.Code) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockInventoryRepository) OldestInBucket(ctx context.Context, g game.Type, denomination int) (*inventory.Code, error) {
	args := m.Called(ctx, g, denomination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Code), args.Error(1)
}

func (m *MockInventoryRepository) ConsumeByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryRepository) CountBucket(ctx context.Context, g game.Type, denomination int) (int64, error) {
	args := m.Called(ctx, g, denomination)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryRepository) ListBucket(ctx context.Context, g game.Type, denomination int, limit, offset int) ([]*inventory.Code, error) {
	args := m.Called(ctx, g, denomination, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.Code), args.Error(1)
}

func (m *MockInventoryRepository) WithTx(tx pgx.Tx) inventory.Repository {
	return m
}

type MockPriceRepository struct {
	mock.Mock
}

func (m *MockPriceRepository) GetAll(ctx context.Context) (map[game.Type]pricing.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[game.Type]pricing.Table), args.Error(1)
}

func (m *MockPriceRepository) ReplaceGame(ctx context.Context, g game.Type, table pricing.Table) error {
	args := m.Called(ctx, g, table)
	return args.Error(0)
}

func (m *MockPriceRepository) WithTx(tx pgx.Tx) pricing.Repository {
	return m
}

type MockPriceService struct {
	mock.Mock
}

func (m *MockPriceService) Get(ctx context.Context, g game.Type) (pricing.Table, error) {
	args := m.Called(ctx, g)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pricing.Table), args.Error(1)
}

func (m *MockPriceService) Set(ctx context.Context, g game.Type, table pricing.Table) error {
	args := m.Called(ctx, g, table)
	return args.Error(0)
}

func (m *MockPriceService) Invalidate() {
	m.Called()
}

type MockProviderClient struct {
	mock.Mock
}

func (m *MockProviderClient) FetchCode(ctx context.Context, denomination int) (string, error) {
	args := m.Called(ctx, denomination)
	return args.String(0), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) List(ctx context.Context, requesterID uuid.UUID, limit, offset int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, requesterID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockLedgerService) Prune(ctx context.Context, accountID uuid.UUID) {
	m.Called(ctx, accountID)
}
