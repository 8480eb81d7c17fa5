package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kaushlendrathe1710/lelekart-api/models"
	"gorm.io/gorm"
)

var (
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	// ErrConflict means a concurrent debit or sweep consumed a lot this debit
	// planned to use. The caller should re-fetch and retry the whole operation.
	ErrConflict      = errors.New("wallet lot modified concurrently")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Ledger manages coin credit lots and their consumption. Lots are never
// deleted: debits and the expiry sweep both work through the per-lot
// Remaining counter with conditional updates, so they cannot double-subtract.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Balance is the sum of non-expired lot remainders.
func (l *Ledger) Balance(ctx context.Context, userID string) (int, error) {
	return balanceTx(l.db.WithContext(ctx), userID, time.Now())
}

func balanceTx(tx *gorm.DB, userID string, now time.Time) (int, error) {
	var balance int64
	err := tx.Model(&models.WalletLot{}).
		Where("user_id = ? AND remaining > 0 AND (expires_at IS NULL OR expires_at > ?)", userID, now).
		Select("COALESCE(SUM(remaining), 0)").
		Scan(&balance).Error
	if err != nil {
		return 0, fmt.Errorf("wallet balance: %w", err)
	}
	return int(balance), nil
}

// Credit grants coins as a new lot. expiresInDays <= 0 means the lot never
// expires.
func (l *Ledger) Credit(ctx context.Context, userID string, amount int, reason string, expiresInDays int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	var expiresAt *time.Time
	if expiresInDays > 0 {
		t := time.Now().AddDate(0, 0, expiresInDays)
		expiresAt = &t
	}

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lot := models.WalletLot{
			UserID:    userID,
			Amount:    amount,
			Remaining: amount,
			ExpiresAt: expiresAt,
		}
		if err := tx.Create(&lot).Error; err != nil {
			return fmt.Errorf("create lot: %w", err)
		}
		return tx.Create(&models.WalletTransaction{
			UserID:      userID,
			Type:        models.WalletTxCredit,
			Amount:      amount,
			Description: reason,
			ExpiresAt:   expiresAt,
		}).Error
	})
}

// Debit consumes coins from the oldest-expiring lots first. It fails with
// ErrInsufficientFunds when non-expired remainders cannot cover the amount,
// and ErrConflict when a concurrent operation consumed a planned lot.
func (l *Ledger) Debit(ctx context.Context, userID string, amount int, reason string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	now := time.Now()

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lots []models.WalletLot
		if err := tx.Where("user_id = ? AND remaining > 0", userID).Find(&lots).Error; err != nil {
			return fmt.Errorf("load lots: %w", err)
		}

		plan, err := planDebit(lots, amount, now)
		if err != nil {
			return err
		}

		for _, c := range plan {
			res := tx.Model(&models.WalletLot{}).
				Where("id = ? AND remaining >= ?", c.LotID, c.Amount).
				UpdateColumn("remaining", gorm.Expr("remaining - ?", c.Amount))
			if res.Error != nil {
				return fmt.Errorf("consume lot %d: %w", c.LotID, res.Error)
			}
			if res.RowsAffected == 0 {
				return ErrConflict
			}
		}

		return tx.Create(&models.WalletTransaction{
			UserID:      userID,
			Type:        models.WalletTxDebit,
			Amount:      amount,
			Description: reason,
		}).Error
	})
}

// ExpireLots sweeps lots past their expiry into expired transactions. The
// conditional remaining-match update makes the sweep safe against concurrent
// debits: a lot whose remainder changed since the read is skipped and picked
// up by the next sweep.
func (l *Ledger) ExpireLots(ctx context.Context, now time.Time) (int, error) {
	var lots []models.WalletLot
	err := l.db.WithContext(ctx).
		Where("remaining > 0 AND expires_at IS NOT NULL AND expires_at <= ?", now).
		Find(&lots).Error
	if err != nil {
		return 0, fmt.Errorf("load expired lots: %w", err)
	}

	expired := 0
	for _, lot := range lots {
		err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.WalletLot{}).
				Where("id = ? AND remaining = ?", lot.ID, lot.Remaining).
				UpdateColumn("remaining", 0)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrConflict
			}
			return tx.Create(&models.WalletTransaction{
				UserID:      lot.UserID,
				Type:        models.WalletTxExpired,
				Amount:      lot.Remaining,
				Description: fmt.Sprintf("lot %d expired", lot.ID),
				ExpiresAt:   lot.ExpiresAt,
			}).Error
		})
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return expired, fmt.Errorf("expire lot %d: %w", lot.ID, err)
		}
		expired++
	}
	return expired, nil
}

// Transactions lists a user's wallet history, newest first.
func (l *Ledger) Transactions(ctx context.Context, userID string) ([]models.WalletTransaction, error) {
	var txns []models.WalletTransaction
	err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&txns).Error
	return txns, err
}
