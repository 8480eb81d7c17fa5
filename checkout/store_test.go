package checkout

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"github.com/kaushlendrathe1710/lelekart-api/pricing"
	"github.com/kaushlendrathe1710/lelekart-api/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func storeDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.ProductVariant{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.WalletLot{}, &models.WalletTransaction{}, &models.WalletSettings{},
	))
	return db
}

func TestGormStore_ReserveStockConditional(t *testing.T) {
	db := storeDB(t)
	store := NewGormStore(db, wallet.NewLedger(db))
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Product{ID: 1, SellerID: "s1", Name: "Kettle", SalePrice: 500, Stock: 3}).Error)

	err := store.ReserveStock(ctx, []pricing.Line{{ProductID: 1, Quantity: 2}})
	require.NoError(t, err)

	var p models.Product
	require.NoError(t, db.First(&p, 1).Error)
	assert.Equal(t, 1, p.Stock)

	// Second reservation exceeds what is left: nothing is decremented and
	// the shortage reports the live availability.
	err = store.ReserveStock(ctx, []pricing.Line{{ProductID: 1, Quantity: 2}})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, 1, stockErr.Shortages[0].Available)

	require.NoError(t, db.First(&p, 1).Error)
	assert.Equal(t, 1, p.Stock)
}

func TestGormStore_ReserveStockAllOrNothing(t *testing.T) {
	db := storeDB(t)
	store := NewGormStore(db, wallet.NewLedger(db))
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Product{ID: 1, SellerID: "s1", Name: "A", SalePrice: 10, Stock: 5}).Error)
	require.NoError(t, db.Create(&models.Product{ID: 2, SellerID: "s1", Name: "B", SalePrice: 10, Stock: 1}).Error)

	err := store.ReserveStock(ctx, []pricing.Line{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 3},
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	// The coverable line must have been rolled back with the transaction.
	var a models.Product
	require.NoError(t, db.First(&a, 1).Error)
	assert.Equal(t, 5, a.Stock)
}

func TestGormStore_VariantStock(t *testing.T) {
	db := storeDB(t)
	store := NewGormStore(db, wallet.NewLedger(db))
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Product{ID: 1, SellerID: "s1", Name: "Tee", SalePrice: 300, Stock: 0}).Error)
	require.NoError(t, db.Create(&models.ProductVariant{ID: 7, ProductID: 1, SKU: "TEE-M", Stock: 2}).Error)

	variantID := uint(7)
	err := store.ReserveStock(ctx, []pricing.Line{{ProductID: 1, VariantID: &variantID, Quantity: 2}})
	require.NoError(t, err)

	var v models.ProductVariant
	require.NoError(t, db.First(&v, 7).Error)
	assert.Zero(t, v.Stock)
}

func TestGormStore_CreateOrderConsumesCart(t *testing.T) {
	db := storeDB(t)
	store := NewGormStore(db, wallet.NewLedger(db))
	ctx := context.Background()

	cart := models.Cart{UserID: "u1", Items: []models.CartItem{{ProductID: 1, Quantity: 2, SalePrice: 500}}}
	require.NoError(t, db.Create(&cart).Error)

	order := &models.Order{
		OrderRef:  "ref-1",
		RequestID: "req-1",
		UserID:    "u1",
		Items:     []models.OrderItem{{ProductID: 1, Quantity: 2, UnitPrice: 500}},
		Status:    models.OrderStatusPending,
	}
	require.NoError(t, store.CreateOrder(ctx, order))

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.CartID).Count(&count).Error)
	assert.Zero(t, count)

	found, err := store.OrderByRequestID(ctx, "req-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, order.ID, found.ID)
	assert.Len(t, found.Items, 1)
}

func TestGormStore_DuplicateRequestIDIsConflict(t *testing.T) {
	db := storeDB(t)
	store := NewGormStore(db, wallet.NewLedger(db))
	ctx := context.Background()

	first := &models.Order{OrderRef: "ref-1", RequestID: "req-1", UserID: "u1"}
	require.NoError(t, store.CreateOrder(ctx, first))

	second := &models.Order{OrderRef: "ref-2", RequestID: "req-1", UserID: "u1"}
	err := store.CreateOrder(ctx, second)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGormStore_OrderByRequestIDMiss(t *testing.T) {
	db := storeDB(t)
	store := NewGormStore(db, wallet.NewLedger(db))

	found, err := store.OrderByRequestID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestGormStore_WalletSettingsDefaults(t *testing.T) {
	db := storeDB(t)
	store := NewGormStore(db, wallet.NewLedger(db))

	s, err := store.WalletSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, s.MaxUsagePercent)
	assert.Equal(t, 10, s.ConversionRate)
}
