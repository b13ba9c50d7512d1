package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/recharge-store-backend/internal/api/middleware"
	"github.com/recharge-store-backend/internal/domain/account"
	"github.com/recharge-store-backend/internal/domain/game"
	"github.com/recharge-store-backend/internal/domain/ledger"
	"github.com/recharge-store-backend/internal/service"
)

// PurchaseHandler handles HTTP requests for purchases and the manual review
// workflow
type PurchaseHandler struct {
	purchaseService service.PurchaseService
	reviewService   service.ReviewService
	logger          *slog.Logger
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(
	logger *slog.Logger,
	purchaseService service.PurchaseService,
	reviewService service.ReviewService,
) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
		reviewService:   reviewService,
		logger:          logger,
	}
}

// Create handles one purchase attempt end to end and returns the receipt
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	quoted, err := decimal.NewFromString(req.QuotedPrice)
	if err != nil {
		RespondBadRequest(c, "Invalid quoted price")
		return
	}

	receipt, err := h.purchaseService.Execute(c.Request.Context(), &service.PurchaseRequest{
		AccountID:     accountID,
		Game:          game.Type(req.Game),
		Denomination:  req.Denomination,
		QuotedPrice:   quoted,
		PlayerID:      req.PlayerID,
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		h.respondPurchaseError(c, err)
		return
	}

	RespondCreated(c, PurchaseResponse{
		Code:             receipt.Code,
		Reference:        receipt.Reference,
		DebitedAmount:    receipt.DebitedAmount.StringFixed(2),
		ResultingBalance: receipt.ResultingBalance.StringFixed(2),
		Source:           receipt.Source,
		Status:           string(receipt.Status),
	})
}

// Transition applies an operator decision to a pending entry. Rejection
// refunds the buyer before the status change commits.
func (h *PurchaseHandler) Transition(c *gin.Context) {
	idParam := c.Param("id")
	entryID, err := uuid.Parse(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid entry ID")
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.reviewService.Transition(c.Request.Context(), entryID, ledger.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrEntryNotFound{}):
			RespondNotFound(c, "Ledger entry not found")
		case errors.Is(err, ledger.ErrInvalidTransition{}):
			RespondConflict(c, "Entry is not pending")
		default:
			h.logger.Error("Failed to transition entry", "id", idParam, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapEntryToResponse(entry))
}

// respondPurchaseError maps the purchase error taxonomy onto HTTP statuses
func (h *PurchaseHandler) respondPurchaseError(c *gin.Context, err error) {
	var (
		unknownGame   game.ErrUnknownGame
		invalidDenom  game.ErrInvalidDenomination
		priceMismatch service.ErrPriceMismatch
		stockOut      service.ErrStockOut
		gameDisabled  service.ErrGameDisabled
		insufficient  account.ErrInsufficientFunds
	)
	switch {
	case errors.As(err, &unknownGame):
		RespondBadRequest(c, unknownGame.Error())
	case errors.As(err, &invalidDenom):
		RespondBadRequest(c, invalidDenom.Error())
	case errors.Is(err, service.ErrPlayerIDRequired):
		RespondBadRequest(c, err.Error())
	case errors.As(err, &gameDisabled):
		RespondUnprocessable(c, "GAME_DISABLED", gameDisabled.Error())
	case errors.As(err, &priceMismatch):
		RespondConflict(c, priceMismatch.Error())
	case errors.As(err, &insufficient):
		RespondPaymentRequired(c, insufficient.Error())
	case errors.As(err, &stockOut):
		RespondUnprocessable(c, "STOCK_OUT", stockOut.Error())
	case errors.Is(err, account.ErrAccountNotFound{}):
		RespondNotFound(c, "Account not found")
	case errors.Is(err, service.ErrAccountInactive):
		RespondUnprocessable(c, "ACCOUNT_INACTIVE", err.Error())
	default:
		h.logger.Error("Purchase failed", "error", err)
		RespondInternalError(c)
	}
}
