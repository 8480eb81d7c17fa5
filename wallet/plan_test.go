package wallet

import (
	"testing"
	"time"

	"github.com/kaushlendrathe1710/lelekart-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lot(id uint, remaining int, expiresIn time.Duration) models.WalletLot {
	l := models.WalletLot{ID: id, Remaining: remaining}
	if expiresIn != 0 {
		t := time.Now().Add(expiresIn)
		l.ExpiresAt = &t
	}
	return l
}

func TestPlanDebit_SoonestExpiryFirst(t *testing.T) {
	lots := []models.WalletLot{
		lot(1, 50, 0), // never expires, should be consumed last
		lot(2, 50, 48*time.Hour),
		lot(3, 50, 24*time.Hour),
	}

	plan, err := planDebit(lots, 80, time.Now())
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, lotConsumption{LotID: 3, Amount: 50}, plan[0])
	assert.Equal(t, lotConsumption{LotID: 2, Amount: 30}, plan[1])
}

func TestPlanDebit_SkipsExpiredLots(t *testing.T) {
	lots := []models.WalletLot{
		lot(1, 100, -time.Hour), // already expired
		lot(2, 40, time.Hour),
	}

	_, err := planDebit(lots, 50, time.Now())
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	plan, err := planDebit(lots, 40, time.Now())
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, uint(2), plan[0].LotID)
}

func TestPlanDebit_ExactCover(t *testing.T) {
	plan, err := planDebit([]models.WalletLot{lot(1, 25, 0), lot(2, 25, 0)}, 50, time.Now())
	require.NoError(t, err)
	assert.Len(t, plan, 2)
	total := 0
	for _, c := range plan {
		total += c.Amount
	}
	assert.Equal(t, 50, total)
}

func TestPlanDebit_Insufficient(t *testing.T) {
	_, err := planDebit([]models.WalletLot{lot(1, 10, 0)}, 11, time.Now())
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}
