package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/recharge-store-backend/internal/domain/account"
	"github.com/recharge-store-backend/internal/domain/game"
	"github.com/recharge-store-backend/internal/domain/inventory"
	"github.com/recharge-store-backend/internal/domain/ledger"
	"github.com/recharge-store-backend/internal/provider"
)

// Source tags on a receipt identify where the code came from
const (
	SourceInventory = "inventory"
	SourceProvider  = "provider"
	SourceReview    = "review"
)

// PurchaseRequest carries one purchase attempt
type PurchaseRequest struct {
	AccountID     uuid.UUID
	Game          game.Type
	Denomination  int
	QuotedPrice   decimal.Decimal
	PlayerID      string // Required by manual-review games
	CorrelationID string
}

// Receipt is the synchronous outcome of a successful purchase
type Receipt struct {
	Code             string          `json:"code,omitempty"`
	Reference        string          `json:"reference"`
	DebitedAmount    decimal.Decimal `json:"debited_amount"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	Source           string          `json:"source"`
	Status           ledger.Status   `json:"status"`
}

// ErrAccountInactive indicates a purchase attempt on a deactivated account
var ErrAccountInactive = errors.New("account is not active")

// ErrPlayerIDRequired indicates a manual-review purchase without a player id
var ErrPlayerIDRequired = errors.New("player id is required for this game")

// ErrGameDisabled indicates the game is switched off by configuration
type ErrGameDisabled struct {
	Game game.Type
}

func (e ErrGameDisabled) Error() string {
	return "game is disabled: " + string(e.Game)
}

// Is implements the errors.Is interface for ErrGameDisabled
func (e ErrGameDisabled) Is(target error) bool {
	_, ok := target.(ErrGameDisabled)
	return ok
}

// ErrPriceMismatch indicates the client-quoted price disagrees with the
// authoritative cached price beyond tolerance
type ErrPriceMismatch struct {
	Quoted decimal.Decimal
	Actual decimal.Decimal
}

func (e ErrPriceMismatch) Error() string {
	return "quoted price " + e.Quoted.StringFixed(2) + " does not match current price " + e.Actual.StringFixed(2)
}

// Is implements the errors.Is interface for ErrPriceMismatch
func (e ErrPriceMismatch) Is(target error) bool {
	_, ok := target.(ErrPriceMismatch)
	return ok
}

// ErrStockOut indicates no code is available, locally or from a fallback
type ErrStockOut struct {
	Game         game.Type
	Denomination int
}

func (e ErrStockOut) Error() string {
	return fmt.Sprintf("no codes available for %s denomination %d", e.Game, e.Denomination)
}

// Is implements the errors.Is interface for ErrStockOut
func (e ErrStockOut) Is(target error) bool {
	_, ok := target.(ErrStockOut)
	return ok
}

// errCodeTaken signals inside the settlement transaction that the allocated
// code was consumed by a racing purchase; the rollback leaves no debit behind
var errCodeTaken = errors.New("allocated code was consumed concurrently")

// PurchaseServiceImpl implements the PurchaseService interface. Settlement
// (debit, code consumption, ledger append) runs in one storage transaction:
// any failure rolls the whole step back, so the end state of a failed
// purchase is always "no code, no debit".
type PurchaseServiceImpl struct {
	txRunner      TxRunner
	accountRepo   account.Repository
	ledgerRepo    ledger.Repository
	inventoryRepo inventory.Repository
	prices        PriceService
	providers     *provider.Registry
	ledgerSvc     LedgerService
	enabledGames  map[game.Type]bool
	adminEmail    string
	tolerance     decimal.Decimal
	logger        *slog.Logger
}

// NewPurchaseService creates a new purchase orchestrator
func NewPurchaseService(
	logger *slog.Logger,
	txRunner TxRunner,
	accountRepo account.Repository,
	ledgerRepo ledger.Repository,
	inventoryRepo inventory.Repository,
	prices PriceService,
	providers *provider.Registry,
	ledgerSvc LedgerService,
	enabledGames map[game.Type]bool,
	adminEmail string,
	tolerance decimal.Decimal,
) PurchaseService {
	return &PurchaseServiceImpl{
		txRunner:      txRunner,
		accountRepo:   accountRepo,
		ledgerRepo:    ledgerRepo,
		inventoryRepo: inventoryRepo,
		prices:        prices,
		providers:     providers,
		ledgerSvc:     ledgerSvc,
		enabledGames:  enabledGames,
		adminEmail:    adminEmail,
		tolerance:     tolerance,
		logger:        logger,
	}
}

// Execute drives one purchase: validation, balance check, code acquisition,
// settlement and recording
func (s *PurchaseServiceImpl) Execute(ctx context.Context, req *PurchaseRequest) (*Receipt, error) {
	logger := s.logger
	if req.CorrelationID != "" {
		logger = s.logger.With("correlation_id", req.CorrelationID)
	}

	variant, err := game.Lookup(req.Game)
	if err != nil {
		return nil, err
	}
	if !s.enabledGames[req.Game] {
		return nil, ErrGameDisabled{Game: req.Game}
	}
	if _, ok := variant.Denomination(req.Denomination); !ok {
		return nil, game.ErrInvalidDenomination{Game: req.Game, Key: req.Denomination}
	}

	// The client-supplied quote is never trusted outright: it must agree with
	// the authoritative cached price within tolerance.
	table, err := s.prices.Get(ctx, req.Game)
	if err != nil {
		return nil, err
	}
	price, ok := table[req.Denomination]
	if !ok {
		return nil, game.ErrInvalidDenomination{Game: req.Game, Key: req.Denomination}
	}
	if req.QuotedPrice.Sub(price).Abs().GreaterThan(s.tolerance) {
		return nil, ErrPriceMismatch{Quoted: req.QuotedPrice, Actual: price}
	}

	acc, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if !acc.Active {
		return nil, ErrAccountInactive
	}

	isAdmin := strings.EqualFold(acc.Email, s.adminEmail)
	if !isAdmin && !acc.CanSpend(price) {
		return nil, account.ErrInsufficientFunds{Required: price, Available: acc.Balance}
	}

	if variant.Fulfillment == game.FulfillmentManualReview {
		return s.executeManualReview(ctx, logger, acc, variant, req, price, isAdmin)
	}
	return s.executeCodePurchase(ctx, logger, acc, variant, req, price, isAdmin)
}

// executeCodePurchase acquires a code (inventory first, provider fallback
// second) and settles it atomically
func (s *PurchaseServiceImpl) executeCodePurchase(
	ctx context.Context,
	logger *slog.Logger,
	acc *account.Account,
	variant *game.Variant,
	req *PurchaseRequest,
	price decimal.Decimal,
	isAdmin bool,
) (*Receipt, error) {
	local, err := s.inventoryRepo.OldestInBucket(ctx, req.Game, req.Denomination)
	if err != nil {
		return nil, err
	}

	codeStr := ""
	source := SourceInventory
	if local != nil {
		codeStr = local.Code
	} else {
		client, configured := s.providers.Lookup(req.Game)
		if !variant.SupportsFallback || !configured {
			return nil, ErrStockOut{Game: req.Game, Denomination: req.Denomination}
		}

		fetched, err := client.FetchCode(ctx, req.Denomination)
		if err != nil {
			// Provider trouble is the operator's concern; the buyer just
			// sees that no code is available.
			logger.Warn("Provider fallback failed", "game", string(req.Game), "denomination", req.Denomination, "error", err)
			return nil, ErrStockOut{Game: req.Game, Denomination: req.Denomination}
		}
		codeStr = fetched
		source = SourceProvider
	}

	resulting := acc.Balance
	debited := decimal.Zero
	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if !isAdmin {
			var err error
			resulting, err = s.accountRepo.WithTx(tx).AdjustBalance(ctx, acc.ID, price.Neg())
			if err != nil {
				return err
			}
			if resulting.IsNegative() {
				return account.ErrInsufficientFunds{Required: price, Available: resulting.Add(price)}
			}
			debited = price
		}

		if source == SourceInventory {
			consumed, err := s.inventoryRepo.WithTx(tx).ConsumeByID(ctx, local.ID)
			if err != nil {
				return err
			}
			if !consumed {
				return errCodeTaken
			}
		}

		// The entry records the money that actually moved, so an admin
		// purchase (never debited) carries a zero amount.
		entry := &ledger.Entry{
			ID:            uuid.New(),
			AccountID:     acc.ID,
			Amount:        debited.Neg(),
			Reference:     codeStr,
			CorrelationID: req.CorrelationID,
			Status:        ledger.StatusFinalized,
			Game:          req.Game,
			Denomination:  req.Denomination,
			CreatedAt:     time.Now(),
		}
		return s.ledgerRepo.WithTx(tx).Create(ctx, entry)
	})
	if err != nil {
		if errors.Is(err, errCodeTaken) {
			// A racing purchase won the code; the rollback undid the debit
			logger.Info("Lost inventory race", "game", string(req.Game), "denomination", req.Denomination)
			return nil, ErrStockOut{Game: req.Game, Denomination: req.Denomination}
		}
		if errors.Is(err, account.ErrInsufficientFunds{}) {
			return nil, err
		}
		return nil, fmt.Errorf("purchase settlement failed: %w", err)
	}

	s.ledgerSvc.Prune(ctx, acc.ID)

	logger.Info("Purchase completed",
		"account_id", acc.ID.String(),
		"game", string(req.Game),
		"denomination", req.Denomination,
		"source", source,
		"amount", price.StringFixed(2),
	)

	return &Receipt{
		Code:             codeStr,
		Reference:        codeStr,
		DebitedAmount:    debited,
		ResultingBalance: resulting,
		Source:           source,
		Status:           ledger.StatusFinalized,
	}, nil
}

// executeManualReview settles a no-code purchase: the debit applies now and a
// pending entry waits for the operator; fulfillment happens out-of-band
func (s *PurchaseServiceImpl) executeManualReview(
	ctx context.Context,
	logger *slog.Logger,
	acc *account.Account,
	variant *game.Variant,
	req *PurchaseRequest,
	price decimal.Decimal,
	isAdmin bool,
) (*Receipt, error) {
	playerID := strings.TrimSpace(req.PlayerID)
	if playerID == "" {
		return nil, ErrPlayerIDRequired
	}

	reference := ledger.NewReference(ledger.RefPrefixPurchase, acc.ID)
	resulting := acc.Balance
	debited := decimal.Zero
	err := s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if !isAdmin {
			var err error
			resulting, err = s.accountRepo.WithTx(tx).AdjustBalance(ctx, acc.ID, price.Neg())
			if err != nil {
				return err
			}
			if resulting.IsNegative() {
				return account.ErrInsufficientFunds{Required: price, Available: resulting.Add(price)}
			}
			debited = price
		}

		// Amount mirrors the actual debit: zero for the admin account, so a
		// later rejection has nothing to refund.
		entry := &ledger.Entry{
			ID:            uuid.New(),
			AccountID:     acc.ID,
			Amount:        debited.Neg(),
			Reference:     reference,
			CorrelationID: req.CorrelationID,
			Status:        ledger.StatusPending,
			Game:          req.Game,
			Denomination:  req.Denomination,
			PlayerID:      playerID,
			CreatedAt:     time.Now(),
		}
		return s.ledgerRepo.WithTx(tx).Create(ctx, entry)
	})
	if err != nil {
		if errors.Is(err, account.ErrInsufficientFunds{}) {
			return nil, err
		}
		return nil, fmt.Errorf("purchase settlement failed: %w", err)
	}

	s.ledgerSvc.Prune(ctx, acc.ID)

	logger.Info("Manual-review purchase recorded",
		"account_id", acc.ID.String(),
		"game", string(req.Game),
		"denomination", req.Denomination,
		"reference", reference,
	)

	return &Receipt{
		Reference:        reference,
		DebitedAmount:    debited,
		ResultingBalance: resulting,
		Source:           SourceReview,
		Status:           ledger.StatusPending,
	}, nil
}
