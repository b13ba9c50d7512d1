// Package pricing defines the persisted denomination price tables. The
// persistent rows are the source of truth; the in-process cache in the service
// layer is a derived, time-bounded copy.
package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/recharge-store-backend/internal/domain/game"
)

// Table maps denomination keys to prices for one game
type Table map[int]decimal.Decimal

// Clone returns an independent copy of the table
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Validate checks every price is a finite number greater than or equal to zero
func (t Table) Validate(g game.Type) error {
	for denomination, price := range t {
		if price.IsNegative() {
			return ErrInvalidPrice{Game: g, Denomination: denomination}
		}
	}
	return nil
}

// ErrInvalidPrice indicates a negative or non-finite price in a submitted table
type ErrInvalidPrice struct {
	Game         game.Type
	Denomination int
}

func (e ErrInvalidPrice) Error() string {
	return "invalid price for game " + string(e.Game) + " denomination " + strconv.Itoa(e.Denomination)
}

// Is implements the errors.Is interface for ErrInvalidPrice
func (e ErrInvalidPrice) Is(target error) bool {
	_, ok := target.(ErrInvalidPrice)
	return ok
}
