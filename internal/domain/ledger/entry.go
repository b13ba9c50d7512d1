// Package ledger defines the per-account transaction log. Entries record every
// balance-affecting or status-tracked event; once written only the status may
// change, and only through the review workflow's pending transitions.
package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/recharge-store-backend/internal/domain/game"
)

// Status tracks an entry through its lifecycle
type Status string

const (
	// StatusFinalized marks an immediately settled purchase or adjustment
	StatusFinalized Status = "finalized"

	// StatusPending marks a purchase fulfilled out-of-band, awaiting review
	StatusPending Status = "pending"

	// StatusApproved and StatusRejected are the terminal review outcomes
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further transition is valid from s
func (s Status) Terminal() bool {
	return s != StatusPending
}

// Entry is one record in the transaction ledger. Amount is signed: debits are
// negative, credits positive. Reference may snapshot a redemption code that no
// longer exists as inventory.
type Entry struct {
	ID            uuid.UUID       `json:"id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Status        Status          `json:"status"`
	Game          game.Type       `json:"game,omitempty"`
	Denomination  int             `json:"denomination,omitempty"`
	PlayerID      string          `json:"player_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`

	// AccountName is populated only by the administrative global feed
	AccountName string `json:"account_name,omitempty"`
}

// Reference prefixes used across the engine
const (
	RefPrefixPurchase   = "TX"
	RefPrefixAdjustment = "BAL"
	RefPrefixCredit     = "CR"
	RefPrefixRefund     = "RF"
)

// NewReference synthesizes a system-wide unique reference: prefix, the last
// three characters of the account id for operator eyeballing, and a
// UUID-derived tail so concurrent appends cannot collide.
func NewReference(prefix string, accountID uuid.UUID) string {
	acct := accountID.String()
	suffix := strings.ToUpper(acct[len(acct)-3:])
	tail := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:10]
	return prefix + suffix + tail
}

// ErrEntryNotFound indicates missing ledger entry
type ErrEntryNotFound struct {
	EntryID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "ledger entry not found: " + e.EntryID.String()
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.EntryID == uuid.Nil {
		return true
	}
	return e.EntryID == t.EntryID
}

// ErrInvalidTransition indicates an invalid review status transition
type ErrInvalidTransition struct {
	EntryID uuid.UUID
	From    Status
	To      Status
}

func (e ErrInvalidTransition) Error() string {
	return "invalid status transition " + string(e.From) + " -> " + string(e.To) + " for entry " + e.EntryID.String()
}

// Is implements the errors.Is interface for ErrInvalidTransition
func (e ErrInvalidTransition) Is(target error) bool {
	_, ok := target.(ErrInvalidTransition)
	return ok
}
