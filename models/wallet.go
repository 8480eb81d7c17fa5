package models

import "time"

type WalletTxType string

const (
	WalletTxCredit  WalletTxType = "credit"
	WalletTxDebit   WalletTxType = "debit"
	WalletTxExpired WalletTxType = "expired"
)

// WalletLot is a credit grant with its own expiry. Debits consume lots via
// the Remaining counter; lots are never deleted, so a concurrent expiry sweep
// and debit cannot double-subtract.
type WalletLot struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"index;not null" json:"user_id"`
	Amount    int        `json:"amount"`
	Remaining int        `json:"remaining"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Expired reports whether the lot no longer counts toward the balance.
func (l WalletLot) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now)
}

type WalletTransaction struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      string       `gorm:"index;not null" json:"user_id"`
	Type        WalletTxType `gorm:"type:VARCHAR(10)" json:"type"`
	Amount      int          `json:"amount"`
	Description string       `json:"description"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// WalletSettings is the store-wide redemption policy, a singleton row.
type WalletSettings struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	MaxUsagePercent int     `gorm:"default:20" json:"max_usage_percent"`
	MinCartValue    float64 `gorm:"default:0" json:"min_cart_value"`
	// Comma list of category names eligible for coin redemption.
	// Empty means all categories.
	EligibleCategories string    `json:"eligible_categories"`
	ConversionRate     int       `gorm:"default:10" json:"conversion_rate"` // coins per currency unit
	UpdatedAt          time.Time `json:"updated_at"`
}
