package wallet

import (
	"sort"
	"time"

	"github.com/kaushlendrathe1710/lelekart-api/models"
)

type lotConsumption struct {
	LotID  uint
	Amount int
}

// planDebit picks which lots cover a debit, consuming soonest-expiring lots
// first so value is not stranded in lots about to expire. Non-expiring lots
// come last. Returns ErrInsufficientFunds when remainders cannot cover the
// amount.
func planDebit(lots []models.WalletLot, amount int, now time.Time) ([]lotConsumption, error) {
	usable := make([]models.WalletLot, 0, len(lots))
	for _, lot := range lots {
		if lot.Remaining <= 0 || lot.Expired(now) {
			continue
		}
		usable = append(usable, lot)
	}

	sort.Slice(usable, func(i, j int) bool {
		a, b := usable[i], usable[j]
		switch {
		case a.ExpiresAt == nil && b.ExpiresAt == nil:
			return a.ID < b.ID
		case a.ExpiresAt == nil:
			return false
		case b.ExpiresAt == nil:
			return true
		case a.ExpiresAt.Equal(*b.ExpiresAt):
			return a.ID < b.ID
		default:
			return a.ExpiresAt.Before(*b.ExpiresAt)
		}
	})

	var plan []lotConsumption
	left := amount
	for _, lot := range usable {
		if left == 0 {
			break
		}
		take := lot.Remaining
		if take > left {
			take = left
		}
		plan = append(plan, lotConsumption{LotID: lot.ID, Amount: take})
		left -= take
	}
	if left > 0 {
		return nil, ErrInsufficientFunds
	}
	return plan, nil
}
