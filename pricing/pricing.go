package pricing

import (
	"log"
	"math"
	"strings"

	"github.com/kaushlendrathe1710/lelekart-api/models"
)

// Line is one cart row as seen by the resolver.
type Line struct {
	ProductID uint
	VariantID *uint
	Name      string
	Category  string
	UnitPrice float64
	Weight    float64
	Quantity  int
}

// Quote is the locked price for a checkout attempt.
type Quote struct {
	Lines        []Line
	Subtotal     float64
	ShippingCost float64
	// MaxRedeemableCoins caps redemption at
	// min(walletBalance, floor(subtotal * maxUsagePercent/100) * conversionRate).
	MaxRedeemableCoins int
}

// Settings converts the stored wallet policy into resolver inputs.
type Settings struct {
	MaxUsagePercent    int
	MinCartValue       float64
	EligibleCategories string
	ConversionRate     int
}

func SettingsFrom(m models.WalletSettings) Settings {
	return Settings{
		MaxUsagePercent:    m.MaxUsagePercent,
		MinCartValue:       m.MinCartValue,
		EligibleCategories: m.EligibleCategories,
		ConversionRate:     m.ConversionRate,
	}
}

// Resolve computes the subtotal, shipping and the coin redemption cap for a
// set of cart lines against the user's wallet balance.
func Resolve(lines []Line, walletBalance int, s Settings) Quote {
	q := Quote{Lines: lines}
	var totalWeight float64
	for _, l := range lines {
		q.Subtotal += l.UnitPrice * float64(l.Quantity)
		totalWeight += l.Weight * float64(l.Quantity)
	}
	q.ShippingCost = shippingFor(totalWeight)

	q.MaxRedeemableCoins = redemptionCap(lines, q.Subtotal, walletBalance, s)
	return q
}

// shippingFor charges per started 30kg bracket beyond the first kilogram.
func shippingFor(totalWeight float64) float64 {
	if totalWeight <= 0 {
		return 0
	}
	return float64(int(math.Ceil((totalWeight-1)/30.0))) * 30.0
}

func redemptionCap(lines []Line, subtotal float64, walletBalance int, s Settings) int {
	if walletBalance <= 0 || s.MaxUsagePercent <= 0 {
		return 0
	}
	if subtotal < s.MinCartValue {
		return 0
	}

	allowed, all := eligibleCategories(s.EligibleCategories)
	if !all {
		for _, l := range lines {
			if !allowed[strings.ToLower(l.Category)] {
				return 0
			}
		}
	}

	rate := s.ConversionRate
	if rate <= 0 {
		rate = 1
	}
	capValue := math.Floor(subtotal * float64(s.MaxUsagePercent) / 100)
	capCoins := int(capValue) * rate
	if capCoins < walletBalance {
		return capCoins
	}
	return walletBalance
}

// CoinValue converts redeemed coins into a currency discount.
func CoinValue(coins int, s Settings) float64 {
	rate := s.ConversionRate
	if rate <= 0 {
		rate = 1
	}
	return float64(coins) / float64(rate)
}

// eligibleCategories parses the comma allow-list. Empty means all categories.
// A malformed list fails open to all categories rather than blocking
// checkout on a config mistake.
func eligibleCategories(raw string) (allowed map[string]bool, all bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	allowed = make(map[string]bool)
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if strings.ContainsAny(tok, ";|") {
			log.Printf("⚠️ malformed category allow-list %q, treating all categories as eligible", raw)
			return nil, true
		}
		allowed[tok] = true
	}
	if len(allowed) == 0 {
		return nil, true
	}
	return allowed, false
}
