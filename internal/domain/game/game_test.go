package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	for _, typ := range []Type{FreeFireLatam, FreeFireGlobal, BlockStriker} {
		v, err := Lookup(typ)
		require.NoError(t, err)
		assert.Equal(t, typ, v.Type)
	}

	_, err := Lookup(Type("solitaire"))
	var unknown ErrUnknownGame
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, Type("solitaire"), unknown.Game)
}

func TestVariant_Catalog(t *testing.T) {
	t.Run("freefire_latam", func(t *testing.T) {
		v, err := Lookup(FreeFireLatam)
		require.NoError(t, err)

		assert.Equal(t, FulfillmentCode, v.Fulfillment)
		assert.True(t, v.SupportsFallback)
		assert.Len(t, v.Denominations(), 9)

		d, ok := v.Denomination(1)
		require.True(t, ok)
		assert.Equal(t, "0.66", d.DefaultPrice.StringFixed(2))

		// Diamond tiers map to provider products, Tarjeta tiers do not
		assert.Equal(t, "FFL110", v.ProviderProducts[1])
		_, mapped := v.ProviderProducts[7]
		assert.False(t, mapped)
	})

	t.Run("freefire_global", func(t *testing.T) {
		v, err := Lookup(FreeFireGlobal)
		require.NoError(t, err)

		assert.Equal(t, FulfillmentCode, v.Fulfillment)
		assert.True(t, v.SupportsFallback)
		assert.Len(t, v.Denominations(), 6)
		assert.Len(t, v.ProviderProducts, 6)
	})

	t.Run("block_striker", func(t *testing.T) {
		v, err := Lookup(BlockStriker)
		require.NoError(t, err)

		assert.Equal(t, FulfillmentManualReview, v.Fulfillment)
		assert.False(t, v.SupportsFallback)
		assert.Empty(t, v.ProviderProducts)
		assert.Len(t, v.Denominations(), 9)
	})
}

func TestVariant_Denominations_Ordered(t *testing.T) {
	v, err := Lookup(FreeFireLatam)
	require.NoError(t, err)

	denoms := v.Denominations()
	for i := 1; i < len(denoms); i++ {
		assert.Less(t, denoms[i-1].Key, denoms[i].Key)
	}
}

func TestVariant_DefaultPrices(t *testing.T) {
	v, err := Lookup(BlockStriker)
	require.NoError(t, err)

	prices := v.DefaultPrices()
	assert.Len(t, prices, 9)
	assert.Equal(t, "0.82", prices[1].StringFixed(2))
	assert.Equal(t, "1.85", prices[9].StringFixed(2))
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 3)
	// Stable catalog order
	assert.Equal(t, FreeFireLatam, all[0].Type)
	assert.Equal(t, FreeFireGlobal, all[1].Type)
	assert.Equal(t, BlockStriker, all[2].Type)
}
