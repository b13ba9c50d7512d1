// Package game defines the catalog of supported games as tagged variants.
// Each variant carries its denomination table, its fulfillment behavior and,
// where applicable, the hand-authored mapping to its fallback provider's
// product codes. Behavioral differences between games live here instead of
// being branched on string constants throughout the purchase flow.
package game

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// Type identifies a game variant
type Type string

const (
	FreeFireLatam  Type = "freefire_latam"
	FreeFireGlobal Type = "freefire_global"
	BlockStriker   Type = "block_striker"
)

// Fulfillment describes how a purchase for a variant is completed
type Fulfillment int

const (
	// FulfillmentCode delivers a single-use redemption code, from local
	// inventory first and from the game's provider when one is configured
	FulfillmentCode Fulfillment = iota

	// FulfillmentManualReview has no code concept: the purchase records the
	// player id and waits for operator approval or rejection
	FulfillmentManualReview
)

// Denomination is a fixed product tier within a game
type Denomination struct {
	Key          int
	Name         string
	DefaultPrice decimal.Decimal
}

// Variant is one game's behavior and catalog
type Variant struct {
	Type             Type
	DisplayName      string
	Fulfillment      Fulfillment
	SupportsFallback bool

	// ProviderProducts maps a denomination key to the provider's product
	// code. Unmapped denominations fail closed on fallback.
	ProviderProducts map[int]string

	denominations map[int]Denomination
}

// ErrUnknownGame indicates a game type outside the catalog
type ErrUnknownGame struct {
	Game Type
}

func (e ErrUnknownGame) Error() string {
	return "unknown game type: " + string(e.Game)
}

// ErrInvalidDenomination indicates a denomination outside a game's known set
type ErrInvalidDenomination struct {
	Game Type
	Key  int
}

func (e ErrInvalidDenomination) Error() string {
	return "invalid denomination " + strconv.Itoa(e.Key) + " for game " + string(e.Game)
}

// Denomination returns the tier for the given key, if it exists
func (v *Variant) Denomination(key int) (Denomination, bool) {
	d, ok := v.denominations[key]
	return d, ok
}

// Denominations returns the variant's tiers ordered by key
func (v *Variant) Denominations() []Denomination {
	out := make([]Denomination, 0, len(v.denominations))
	for _, d := range v.denominations {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// DefaultPrices returns the hand-authored denomination to price table used to
// seed the persistent price configuration for this variant
func (v *Variant) DefaultPrices() map[int]decimal.Decimal {
	out := make(map[int]decimal.Decimal, len(v.denominations))
	for key, d := range v.denominations {
		out[key] = d.DefaultPrice
	}
	return out
}

// Lookup resolves a game type to its variant
func Lookup(t Type) (*Variant, error) {
	v, ok := variants[t]
	if !ok {
		return nil, ErrUnknownGame{Game: t}
	}
	return v, nil
}

// All returns every cataloged variant in a stable order
func All() []*Variant {
	out := make([]*Variant, 0, len(variants))
	for _, t := range []Type{FreeFireLatam, FreeFireGlobal, BlockStriker} {
		out = append(out, variants[t])
	}
	return out
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var variants = map[Type]*Variant{
	FreeFireLatam: {
		Type:             FreeFireLatam,
		DisplayName:      "Free Fire LATAM",
		Fulfillment:      FulfillmentCode,
		SupportsFallback: true,
		// Diamond tiers are available from the provider; the Tarjeta tiers
		// are local-stock only and fail closed when the pool runs dry.
		ProviderProducts: map[int]string{
			1: "FFL110",
			2: "FFL341",
			3: "FFL572",
			4: "FFL1166",
			5: "FFL2376",
			6: "FFL6138",
		},
		denominations: map[int]Denomination{
			1: {Key: 1, Name: "110 💎 Diamantes", DefaultPrice: price("0.66")},
			2: {Key: 2, Name: "341 💎 Diamantes", DefaultPrice: price("1.99")},
			3: {Key: 3, Name: "572 💎 Diamantes", DefaultPrice: price("3.35")},
			4: {Key: 4, Name: "1.166 💎 Diamantes", DefaultPrice: price("6.70")},
			5: {Key: 5, Name: "2.376 💎 Diamantes", DefaultPrice: price("12.70")},
			6: {Key: 6, Name: "6.138 💎 Diamantes", DefaultPrice: price("29.50")},
			7: {Key: 7, Name: "Tarjeta Básica", DefaultPrice: price("0.40")},
			8: {Key: 8, Name: "Tarjeta Semanal", DefaultPrice: price("1.40")},
			9: {Key: 9, Name: "Tarjeta Mensual", DefaultPrice: price("6.50")},
		},
	},
	FreeFireGlobal: {
		Type:             FreeFireGlobal,
		DisplayName:      "Free Fire Global",
		Fulfillment:      FulfillmentCode,
		SupportsFallback: true,
		ProviderProducts: map[int]string{
			1: "FFG100",
			2: "FFG310",
			3: "FFG520",
			4: "FFG1060",
			5: "FFG2180",
			6: "FFG5600",
		},
		denominations: map[int]Denomination{
			1: {Key: 1, Name: "100+10 💎 Diamantes", DefaultPrice: price("0.86")},
			2: {Key: 2, Name: "310+31 💎 Diamantes", DefaultPrice: price("2.90")},
			3: {Key: 3, Name: "520+52 💎 Diamantes", DefaultPrice: price("4.00")},
			4: {Key: 4, Name: "1.060+106 💎 Diamantes", DefaultPrice: price("7.75")},
			5: {Key: 5, Name: "2.180+218 💎 Diamantes", DefaultPrice: price("15.30")},
			6: {Key: 6, Name: "5.600+560 💎 Diamantes", DefaultPrice: price("38.00")},
		},
	},
	BlockStriker: {
		Type:        BlockStriker,
		DisplayName: "Block Striker",
		Fulfillment: FulfillmentManualReview,
		denominations: map[int]Denomination{
			1: {Key: 1, Name: "100+16 🪙 Monedas", DefaultPrice: price("0.82")},
			2: {Key: 2, Name: "300+52 🪙 Monedas", DefaultPrice: price("2.60")},
			3: {Key: 3, Name: "500+94 🪙 Monedas", DefaultPrice: price("4.30")},
			4: {Key: 4, Name: "1,000+210 🪙 Monedas", DefaultPrice: price("8.65")},
			5: {Key: 5, Name: "2,000+440 🪙 Monedas", DefaultPrice: price("17.30")},
			6: {Key: 6, Name: "5,000+1,150 🪙 Monedas", DefaultPrice: price("43.15")},
			7: {Key: 7, Name: "🎫 Pase Básico", DefaultPrice: price("3.50")},
			8: {Key: 8, Name: "🎫 Pase Premium", DefaultPrice: price("8.00")},
			9: {Key: 9, Name: "💎 VIP Mensual", DefaultPrice: price("1.85")},
		},
	},
}
