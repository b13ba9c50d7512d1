package handler

import (
	"time"

	"github.com/recharge-store-backend/internal/domain/account"
	"github.com/recharge-store-backend/internal/domain/inventory"
	"github.com/recharge-store-backend/internal/domain/ledger"
)

// CreateAccountRequest represents a request to register a new account
type CreateAccountRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone,omitempty"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Balance   string `json:"balance"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// SetBalanceRequest represents a request to overwrite an account balance
type SetBalanceRequest struct {
	Balance string `json:"balance" binding:"required"`
}

// CreditRequest represents a request to add funds to an account
type CreditRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// BalanceResponse represents an account balance in API responses
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

// PurchaseRequest represents a request to buy one denomination of a game
type PurchaseRequest struct {
	AccountID    string `json:"account_id" binding:"required,uuid"`
	Game         string `json:"game" binding:"required"`
	Denomination int    `json:"denomination" binding:"required,min=1"`
	QuotedPrice  string `json:"quoted_price" binding:"required"`
	PlayerID     string `json:"player_id,omitempty"`
}

// PurchaseResponse represents the synchronous outcome of a purchase
type PurchaseResponse struct {
	Code             string `json:"code,omitempty"`
	Reference        string `json:"reference"`
	DebitedAmount    string `json:"debited_amount"`
	ResultingBalance string `json:"resulting_balance"`
	Source           string `json:"source"`
	Status           string `json:"status"`
}

// TransitionRequest represents an operator decision on a pending entry
type TransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID            string `json:"id"`
	AccountID     string `json:"account_id"`
	AccountName   string `json:"account_name,omitempty"`
	Amount        string `json:"amount"`
	Reference     string `json:"reference"`
	CorrelationID string `json:"correlation_id,omitempty"`
	Status        string `json:"status"`
	Game          string `json:"game,omitempty"`
	Denomination  int    `json:"denomination,omitempty"`
	PlayerID      string `json:"player_id,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// PriceTableRequest represents a full replacement price table for one game
type PriceTableRequest struct {
	Prices map[int]string `json:"prices" binding:"required"`
}

// PriceTableResponse represents a game's price table in API responses
type PriceTableResponse struct {
	Game   string         `json:"game"`
	Prices map[int]string `json:"prices"`
}

// CreateCodeRequest represents a request to add a redemption code to inventory
type CreateCodeRequest struct {
	Code         string `json:"code" binding:"required"`
	Game         string `json:"game" binding:"required"`
	Denomination int    `json:"denomination" binding:"required,min=1"`
}

// CodeResponse represents an inventory code in API responses
type CodeResponse struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Game         string `json:"game"`
	Denomination int    `json:"denomination"`
	CreatedAt    string `json:"created_at"`
}

// StockResponse represents a bucket's remaining stock
type StockResponse struct {
	Game         string         `json:"game"`
	Denomination int            `json:"denomination"`
	Count        int64          `json:"count"`
	Codes        []CodeResponse `json:"codes,omitempty"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// mapAccountToResponse maps an account entity to an account response DTO
func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:        acc.ID.String(),
		Email:     acc.Email,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
		Phone:     acc.Phone,
		Balance:   acc.Balance.StringFixed(2),
		Active:    acc.Active,
		CreatedAt: acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt: acc.UpdatedAt.Format(time.RFC3339),
	}
}

// mapEntryToResponse maps a ledger entry to a response DTO
func mapEntryToResponse(e *ledger.Entry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:            e.ID.String(),
		AccountID:     e.AccountID.String(),
		AccountName:   e.AccountName,
		Amount:        e.Amount.StringFixed(2),
		Reference:     e.Reference,
		CorrelationID: e.CorrelationID,
		Status:        string(e.Status),
		Game:          string(e.Game),
		Denomination:  e.Denomination,
		PlayerID:      e.PlayerID,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

// mapCodeToResponse maps an inventory code to a response DTO
func mapCodeToResponse(code *inventory.Code) CodeResponse {
	return CodeResponse{
		ID:           code.ID.String(),
		Code:         code.Code,
		Game:         string(code.Game),
		Denomination: code.Denomination,
		CreatedAt:    code.CreatedAt.Format(time.RFC3339),
	}
}
