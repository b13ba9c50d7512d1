package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/recharge-store-backend/internal/domain/account"
	"github.com/recharge-store-backend/internal/domain/ledger"
)

func newBalanceFixture() (*MockAccountRepository, *MockLedgerRepository, *MockLedgerService, BalanceService) {
	accountRepo := new(MockAccountRepository)
	ledgerRepo := new(MockLedgerRepository)
	ledgerSvc := new(MockLedgerService)
	svc := NewBalanceService(newTestLogger(), &fakeTxRunner{}, accountRepo, ledgerRepo, ledgerSvc)
	return accountRepo, ledgerRepo, ledgerSvc, svc
}

func TestBalanceService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("existing account", func(t *testing.T) {
		accountRepo, _, _, svc := newBalanceFixture()
		acc := testAccount("buyer@example.com", "12.34")
		accountRepo.On("GetByID", ctx, acc.ID).Return(acc, nil)

		balance, err := svc.Get(ctx, acc.ID)
		require.NoError(t, err)
		assert.Equal(t, "12.34", balance.StringFixed(2))
	})

	t.Run("unknown account reads as zero", func(t *testing.T) {
		accountRepo, _, _, svc := newBalanceFixture()
		id := uuid.New()
		accountRepo.On("GetByID", ctx, id).Return(nil, account.ErrAccountNotFound{AccountID: id})

		balance, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})
}

func TestBalanceService_Set(t *testing.T) {
	ctx := context.Background()

	t.Run("records delta as adjustment", func(t *testing.T) {
		accountRepo, ledgerRepo, ledgerSvc, svc := newBalanceFixture()
		acc := testAccount("buyer@example.com", "5.00")

		accountRepo.On("GetByID", ctx, acc.ID).Return(acc, nil)
		accountRepo.On("SetBalance", ctx, acc.ID, decimal.RequireFromString("20.00")).Return(nil)
		ledgerRepo.On("Create", ctx, mock.MatchedBy(func(e *ledger.Entry) bool {
			return e.AccountID == acc.ID &&
				e.Amount.Equal(decimal.RequireFromString("15.00")) &&
				e.Status == ledger.StatusFinalized
		})).Return(nil)
		ledgerSvc.On("Prune", ctx, acc.ID).Return()

		err := svc.Set(ctx, acc.ID, decimal.RequireFromString("20.00"))
		require.NoError(t, err)
		accountRepo.AssertExpectations(t)
		ledgerRepo.AssertExpectations(t)
	})

	t.Run("zero delta is a no-op", func(t *testing.T) {
		accountRepo, ledgerRepo, _, svc := newBalanceFixture()
		acc := testAccount("buyer@example.com", "5.00")
		accountRepo.On("GetByID", ctx, acc.ID).Return(acc, nil)

		err := svc.Set(ctx, acc.ID, decimal.RequireFromString("5.00"))
		require.NoError(t, err)
		accountRepo.AssertNotCalled(t, "SetBalance", mock.Anything, mock.Anything, mock.Anything)
		ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects values outside the balance range", func(t *testing.T) {
		_, _, _, svc := newBalanceFixture()

		err := svc.Set(ctx, uuid.New(), decimal.RequireFromString("-1.00"))
		assert.ErrorIs(t, err, account.ErrBalanceRange)

		err = svc.Set(ctx, uuid.New(), decimal.RequireFromString("1000000.00"))
		assert.ErrorIs(t, err, account.ErrBalanceRange)
	})
}

func TestBalanceService_Credit(t *testing.T) {
	ctx := context.Background()

	t.Run("increments and records entry", func(t *testing.T) {
		accountRepo, ledgerRepo, ledgerSvc, svc := newBalanceFixture()
		id := uuid.New()

		accountRepo.On("AdjustBalance", ctx, id, decimal.RequireFromString("2.50")).
			Return(decimal.RequireFromString("7.50"), nil)
		ledgerRepo.On("Create", ctx, mock.MatchedBy(func(e *ledger.Entry) bool {
			return e.Amount.Equal(decimal.RequireFromString("2.50")) && e.Status == ledger.StatusFinalized
		})).Return(nil)
		ledgerSvc.On("Prune", ctx, id).Return()

		balance, err := svc.Credit(ctx, id, decimal.RequireFromString("2.50"))
		require.NoError(t, err)
		assert.Equal(t, "7.50", balance.StringFixed(2))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, _, _, svc := newBalanceFixture()

		_, err := svc.Credit(ctx, uuid.New(), decimal.Zero)
		assert.ErrorIs(t, err, account.ErrInvalidAmount)
	})

	t.Run("unknown account", func(t *testing.T) {
		accountRepo, _, _, svc := newBalanceFixture()
		id := uuid.New()
		accountRepo.On("AdjustBalance", ctx, id, mock.Anything).
			Return(decimal.Zero, account.ErrAccountNotFound{AccountID: id})

		_, err := svc.Credit(ctx, id, decimal.RequireFromString("1.00"))
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
	})
}
