package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/recharge-store-backend/internal/domain/account"
	"github.com/recharge-store-backend/internal/service"
)

// AccountHandler handles HTTP requests for account, balance and ledger
// operations
type AccountHandler struct {
	accountService service.AccountService
	balanceService service.BalanceService
	ledgerService  service.LedgerService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(
	logger *slog.Logger,
	accountService service.AccountService,
	balanceService service.BalanceService,
	ledgerService service.LedgerService,
) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		balanceService: balanceService,
		ledgerService:  ledgerService,
		logger:         logger,
	}
}

// Create handles registration of a new account, checking for duplicate emails
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.Create(c.Request.Context(), req.Email, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		var duplicateEmailErr account.ErrDuplicateEmail
		if errors.As(err, &duplicateEmailErr) {
			h.logger.Warn("Attempt to create account with duplicate email", "email", duplicateEmailErr.Email)
			RespondConflict(c, "Account with this email already exists")
			return
		}
		if errors.Is(err, account.ErrInvalidEmail) {
			RespondBadRequest(c, "Email address is malformed")
			return
		}
		h.logger.Error("Failed to create account", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := h.parseAccountID(c)
	if !ok {
		return
	}

	acc, err := h.accountService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// GetBalance returns the account balance, zero for unknown accounts
func (h *AccountHandler) GetBalance(c *gin.Context) {
	id, ok := h.parseAccountID(c)
	if !ok {
		return
	}

	balance, err := h.balanceService.Get(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get balance", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, BalanceResponse{AccountID: id.String(), Balance: balance.StringFixed(2)})
}

// SetBalance overwrites the account balance, recording the delta as an
// adjustment entry
func (h *AccountHandler) SetBalance(c *gin.Context) {
	id, ok := h.parseAccountID(c)
	if !ok {
		return
	}

	var req SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	value, err := decimal.NewFromString(req.Balance)
	if err != nil {
		RespondBadRequest(c, "Invalid balance value")
		return
	}

	if err := h.balanceService.Set(c.Request.Context(), id, value); err != nil {
		switch {
		case errors.Is(err, account.ErrBalanceRange):
			RespondUnprocessable(c, "BALANCE_RANGE", err.Error())
		case errors.Is(err, account.ErrAccountNotFound{}):
			RespondNotFound(c, "Account not found")
		default:
			h.logger.Error("Failed to set balance", "id", id.String(), "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, BalanceResponse{AccountID: id.String(), Balance: value.StringFixed(2)})
}

// Credit adds funds to the account and records a credit entry
func (h *AccountHandler) Credit(c *gin.Context) {
	id, ok := h.parseAccountID(c)
	if !ok {
		return
	}

	var req CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		RespondBadRequest(c, "Invalid credit amount")
		return
	}

	balance, err := h.balanceService.Credit(c.Request.Context(), id, amount)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInvalidAmount):
			RespondUnprocessable(c, "INVALID_AMOUNT", err.Error())
		case errors.Is(err, account.ErrAccountNotFound{}):
			RespondNotFound(c, "Account not found")
		default:
			h.logger.Error("Failed to credit balance", "id", id.String(), "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, BalanceResponse{AccountID: id.String(), Balance: balance.StringFixed(2)})
}

// GetTransactions returns the requester's ledger history. The administrative
// account sees the global feed with display names.
func (h *AccountHandler) GetTransactions(c *gin.Context) {
	id, ok := h.parseAccountID(c)
	if !ok {
		return
	}

	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	offset := (params.Page - 1) * params.PerPage
	entries, err := h.ledgerService.List(c.Request.Context(), id, params.PerPage, offset)
	if err != nil {
		h.logger.Error("Failed to list transactions", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, mapEntryToResponse(entry))
	}
	RespondOK(c, responses)
}

func (h *AccountHandler) parseAccountID(c *gin.Context) (uuid.UUID, bool) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid account ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid account ID")
		return uuid.Nil, false
	}
	return id, true
}
