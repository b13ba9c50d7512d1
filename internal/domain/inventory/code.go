// Package inventory defines the pool of unused redemption codes. A row's
// existence implies availability; consumption deletes the row, leaving the
// ledger's denormalized reference as the only trace.
package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/recharge-store-backend/internal/domain/game"
)

// Code length bounds after normalization
const (
	MinCodeLength = 4
	MaxCodeLength = 20
)

// Code is one unused redemption code in a (game, denomination) bucket
type Code struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Game         game.Type `json:"game"`
	Denomination int       `json:"denomination"`
	CreatedAt    time.Time `json:"created_at"`
}

// Normalize trims surrounding whitespace and uppercases a raw code string.
// All uniqueness and length checks apply to the normalized form.
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// NewCode builds a code row from a raw string, rejecting malformed input
func NewCode(raw string, g game.Type, denomination int) (*Code, error) {
	normalized := Normalize(raw)
	if len(normalized) < MinCodeLength || len(normalized) > MaxCodeLength {
		return nil, ErrMalformedCode{Code: normalized}
	}

	return &Code{
		ID:           uuid.New(),
		Code:         normalized,
		Game:         g,
		Denomination: denomination,
		CreatedAt:    time.Now(),
	}, nil
}

// ErrMalformedCode indicates a code string outside the accepted shape
type ErrMalformedCode struct {
	Code string
}

func (e ErrMalformedCode) Error() string {
	return "malformed inventory code: " + e.Code
}

// ErrDuplicateCode indicates the normalized code already exists, in any game
type ErrDuplicateCode struct {
	Code string
}

func (e ErrDuplicateCode) Error() string {
	return "inventory code already exists: " + e.Code
}

// Is implements the errors.Is interface for ErrDuplicateCode
func (e ErrDuplicateCode) Is(target error) bool {
	_, ok := target.(ErrDuplicateCode)
	return ok
}
