package account

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidEmail  = errors.New("email address is malformed")
	ErrBalanceRange  = errors.New("balance must be between 0 and 999999.99")
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// MaxBalance caps any account balance
	MaxBalance = decimal.RequireFromString("999999.99")
)

// Account represents a store customer with a spendable balance.
// The balance is mutated only through operations that also record a
// ledger entry; it never goes negative.
type Account struct {
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Phone     string          `json:"phone,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewAccount creates a new active account with the given profile
func NewAccount(email, firstName, lastName, phone string, initialBalance decimal.Decimal) (*Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if initialBalance.IsNegative() || initialBalance.GreaterThan(MaxBalance) {
		return nil, ErrBalanceRange
	}

	now := time.Now()
	return &Account{
		ID:        uuid.New(),
		Email:     email,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Phone:     strings.TrimSpace(phone),
		Balance:   initialBalance,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// DisplayName returns the customer-facing name used in the admin feed
func (a *Account) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Email
	}
	return name
}

// CanSpend checks whether the balance covers the given price
func (a *Account) CanSpend(price decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(price)
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrDuplicateEmail indicates email uniqueness violation
type ErrDuplicateEmail struct {
	Email string
}

func (e ErrDuplicateEmail) Error() string {
	return "account with email already exists: " + e.Email
}

// ErrInsufficientFunds reports required versus available amounts
type ErrInsufficientFunds struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e ErrInsufficientFunds) Error() string {
	return "insufficient funds: required " + e.Required.StringFixed(2) + ", available " + e.Available.StringFixed(2)
}

// Is implements the errors.Is interface for ErrInsufficientFunds
func (e ErrInsufficientFunds) Is(target error) bool {
	_, ok := target.(ErrInsufficientFunds)
	return ok
}
