package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/kaushlendrathe1710/lelekart-api/models"
	"github.com/kaushlendrathe1710/lelekart-api/pricing"
	"github.com/kaushlendrathe1710/lelekart-api/wallet"
	"gorm.io/gorm"
)

// GormStore backs the assembler with postgres. Stock moves only through
// conditional updates (`... WHERE stock >= ?`), never read-then-write.
type GormStore struct {
	db     *gorm.DB
	ledger *wallet.Ledger
}

func NewGormStore(db *gorm.DB, ledger *wallet.Ledger) *GormStore {
	return &GormStore{db: db, ledger: ledger}
}

func (s *GormStore) OrderByRequestID(ctx context.Context, requestID string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("request_id = ?", requestID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup request id: %w", err)
	}
	return &order, nil
}

func (s *GormStore) LoadCart(ctx context.Context, userID string) ([]pricing.Line, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	lines := make([]pricing.Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, pricing.Line{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Name:      item.ProductName,
			Category:  item.Category,
			UnitPrice: item.SalePrice,
			Weight:    item.Weight,
			Quantity:  item.Quantity,
		})
	}
	return lines, nil
}

func (s *GormStore) WalletBalance(ctx context.Context, userID string) (int, error) {
	return s.ledger.Balance(ctx, userID)
}

func (s *GormStore) WalletSettings(ctx context.Context) (pricing.Settings, error) {
	var m models.WalletSettings
	err := s.db.WithContext(ctx).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pricing.Settings{MaxUsagePercent: 20, ConversionRate: 10}, nil
	}
	if err != nil {
		return pricing.Settings{}, fmt.Errorf("load wallet settings: %w", err)
	}
	return pricing.SettingsFrom(m), nil
}

// ReserveStock decrements stock for every line inside one transaction. Any
// line that cannot be covered aborts the whole reservation and is reported
// with its current availability.
func (s *GormStore) ReserveStock(ctx context.Context, lines []pricing.Line) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shortages []StockShortage
		for _, l := range lines {
			res := stockQuery(tx, l).
				Where("stock >= ?", l.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", l.Quantity))
			if res.Error != nil {
				return fmt.Errorf("reserve stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				shortages = append(shortages, StockShortage{
					ProductID: l.ProductID,
					VariantID: l.VariantID,
					Requested: l.Quantity,
					Available: availableStock(tx, l),
				})
			}
		}
		if len(shortages) > 0 {
			return &InsufficientStockError{Shortages: shortages}
		}
		return nil
	})
}

func (s *GormStore) ReleaseStock(ctx context.Context, lines []pricing.Line) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, l := range lines {
			res := stockQuery(tx, l).
				UpdateColumn("stock", gorm.Expr("stock + ?", l.Quantity))
			if res.Error != nil {
				return fmt.Errorf("release stock: %w", res.Error)
			}
		}
		return nil
	})
}

func stockQuery(tx *gorm.DB, l pricing.Line) *gorm.DB {
	if l.VariantID != nil {
		return tx.Model(&models.ProductVariant{}).Where("id = ?", *l.VariantID)
	}
	return tx.Model(&models.Product{}).Where("id = ?", l.ProductID)
}

func availableStock(tx *gorm.DB, l pricing.Line) int {
	var stock int
	stockQuery(tx, l).Select("stock").Scan(&stock)
	return stock
}

// CreateOrder persists the order and clears the consumed cart items in one
// transaction.
func (s *GormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			// Unique request_id violation: a concurrent checkout with the
			// same idempotency key committed first.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflict
			}
			return fmt.Errorf("create order: %w", err)
		}

		var cart models.Cart
		err := tx.Where("user_id = ?", order.UserID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
}

func (s *GormStore) DebitCoins(ctx context.Context, userID string, coins int, reason string) error {
	return s.ledger.Debit(ctx, userID, coins, reason)
}

func (s *GormStore) CreditCoins(ctx context.Context, userID string, coins int, reason string) error {
	return s.ledger.Credit(ctx, userID, coins, reason, 0)
}
