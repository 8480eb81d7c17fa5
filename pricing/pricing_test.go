package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func line(category string, price float64, qty int) Line {
	return Line{Category: category, UnitPrice: price, Quantity: qty}
}

func TestResolve_RedemptionCapWorkedExample(t *testing.T) {
	// cart 2x500 = 1000, max 20% => ₹200 cap => 2000 coins at 10/₹,
	// wallet holds only 100 coins, so the wallet is the binding cap.
	q := Resolve([]Line{line("electronics", 500, 2)}, 100, Settings{
		MaxUsagePercent: 20,
		ConversionRate:  10,
	})

	assert.Equal(t, 1000.0, q.Subtotal)
	assert.Equal(t, 100, q.MaxRedeemableCoins)
	assert.Equal(t, 10.0, CoinValue(100, Settings{ConversionRate: 10}))
}

func TestResolve_PercentageCapBinds(t *testing.T) {
	// 20% of 1000 = ₹200 = 2000 coins; wallet has 5000, cap binds.
	q := Resolve([]Line{line("electronics", 500, 2)}, 5000, Settings{
		MaxUsagePercent: 20,
		ConversionRate:  10,
	})
	assert.Equal(t, 2000, q.MaxRedeemableCoins)
}

func TestResolve_MinCartValueGate(t *testing.T) {
	q := Resolve([]Line{line("books", 100, 1)}, 500, Settings{
		MaxUsagePercent: 20,
		MinCartValue:    500,
		ConversionRate:  10,
	})
	assert.Zero(t, q.MaxRedeemableCoins)
}

func TestResolve_CategoryAllowList(t *testing.T) {
	s := Settings{MaxUsagePercent: 20, ConversionRate: 10, EligibleCategories: "books,toys"}

	eligible := Resolve([]Line{line("books", 500, 2)}, 100, s)
	assert.Equal(t, 100, eligible.MaxRedeemableCoins)

	mixed := Resolve([]Line{line("books", 500, 1), line("electronics", 500, 1)}, 100, s)
	assert.Zero(t, mixed.MaxRedeemableCoins)
}

func TestResolve_EmptyAllowListMeansAllCategories(t *testing.T) {
	q := Resolve([]Line{line("anything", 500, 2)}, 100, Settings{
		MaxUsagePercent: 20,
		ConversionRate:  10,
	})
	assert.Equal(t, 100, q.MaxRedeemableCoins)
}

func TestResolve_MalformedAllowListFailsOpen(t *testing.T) {
	q := Resolve([]Line{line("electronics", 500, 2)}, 100, Settings{
		MaxUsagePercent:    20,
		ConversionRate:     10,
		EligibleCategories: "books;toys|garden",
	})
	assert.Equal(t, 100, q.MaxRedeemableCoins)
}

func TestResolve_ZeroBalanceOrPercent(t *testing.T) {
	s := Settings{MaxUsagePercent: 20, ConversionRate: 10}
	assert.Zero(t, Resolve([]Line{line("x", 500, 2)}, 0, s).MaxRedeemableCoins)

	s.MaxUsagePercent = 0
	assert.Zero(t, Resolve([]Line{line("x", 500, 2)}, 100, s).MaxRedeemableCoins)
}

func TestResolve_ShippingBrackets(t *testing.T) {
	light := Resolve([]Line{{UnitPrice: 100, Weight: 0.5, Quantity: 1}}, 0, Settings{})
	assert.Zero(t, light.ShippingCost) // first kilogram ships free

	medium := Resolve([]Line{{UnitPrice: 100, Weight: 2, Quantity: 1}}, 0, Settings{})
	assert.Equal(t, 30.0, medium.ShippingCost)

	heavy := Resolve([]Line{{UnitPrice: 100, Weight: 16, Quantity: 2}}, 0, Settings{})
	assert.Equal(t, 60.0, heavy.ShippingCost) // 32kg => two brackets

	none := Resolve(nil, 0, Settings{})
	assert.Zero(t, none.ShippingCost)
}
