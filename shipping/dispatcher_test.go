package shipping

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeCarrier struct {
	mu       sync.Mutex
	calls    int
	fail     error
	lastReq  ShipmentRequest
	shipment Shipment
}

func (f *fakeCarrier) CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	if f.fail != nil {
		return nil, f.fail
	}
	s := f.shipment
	return &s, nil
}

func dispatchDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{},
		&models.Product{}, &models.ShiprocketSettings{}))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB) models.Order {
	t.Helper()
	order := models.Order{
		OrderRef:  "ref-1",
		RequestID: "req-1",
		UserID:    "u1",
		Subtotal:  500,
		Status:    models.OrderStatusPending,
		Items:     []models.OrderItem{{ProductID: 1, ProductName: "Kettle", UnitPrice: 500, Quantity: 1}},
		ShippingAddress: models.Address{
			Name: "A Buyer", Phone: "9999999999", Street: "1 MG Road",
			City: "Bengaluru", State: "KA", PostalCode: "560001", Country: "IN",
		},
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestPushOrder_IdempotentPerOrder(t *testing.T) {
	db := dispatchDB(t)
	order := seedOrder(t, db)
	carrier := &fakeCarrier{shipment: Shipment{ShipmentID: "SR-100", Raw: []byte(`{"shipment_id":"SR-100"}`)}}
	d := NewDispatcher(db, carrier)

	first, err := d.PushOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "SR-100", first)

	second, err := d.PushOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, carrier.calls, "second push must not hit the carrier")
}

func TestPushOrder_CarrierFailureLeavesOrderUnshipped(t *testing.T) {
	db := dispatchDB(t)
	order := seedOrder(t, db)
	carrier := &fakeCarrier{fail: &ExternalError{Op: "create shipment", Status: 502, Body: "bad gateway"}}
	d := NewDispatcher(db, carrier)

	_, err := d.PushOrder(context.Background(), order.ID)
	var extErr *ExternalError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, 502, extErr.Status)

	var stored models.Order
	require.NoError(t, db.First(&stored, order.ID).Error)
	assert.Empty(t, stored.ShiprocketShipmentID)
	assert.Equal(t, models.OrderStatusPending, stored.Status)

	// Retry after the carrier recovers succeeds.
	carrier.fail = nil
	carrier.shipment = Shipment{ShipmentID: "SR-7", Raw: []byte(`{}`)}
	id, err := d.PushOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "SR-7", id)
}

func TestPushOrder_BuildsCarrierRequest(t *testing.T) {
	db := dispatchDB(t)
	require.NoError(t, db.Create(&models.Product{ID: 1, SellerID: "s1", Name: "Kettle", SalePrice: 500}).Error)
	require.NoError(t, db.Create(&models.ShiprocketSettings{
		SellerID:       "s1",
		DefaultCourier: "18",
		NotifyCustomer: true,
	}).Error)
	order := seedOrder(t, db)
	carrier := &fakeCarrier{shipment: Shipment{ShipmentID: "SR-1", Raw: []byte(`{}`)}}
	d := NewDispatcher(db, carrier)

	_, err := d.PushOrder(context.Background(), order.ID)
	require.NoError(t, err)

	req := carrier.lastReq
	assert.Equal(t, "ref-1", req.OrderRef)
	assert.Equal(t, "Bengaluru", req.BillingCity)
	assert.Equal(t, "18", req.CourierID)
	assert.Equal(t, "Prepaid", req.PaymentMethod)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "Kettle", req.Items[0].Name)
	assert.Equal(t, "P1", req.Items[0].SKU)
}

func TestPushOrder_UsesOwningSellerSettings(t *testing.T) {
	db := dispatchDB(t)
	require.NoError(t, db.Create(&models.Product{ID: 1, SellerID: "s2", Name: "Kettle", SalePrice: 500}).Error)
	require.NoError(t, db.Create(&models.ShiprocketSettings{SellerID: "s1", DefaultCourier: "18"}).Error)
	require.NoError(t, db.Create(&models.ShiprocketSettings{SellerID: "s2", DefaultCourier: "42"}).Error)
	order := seedOrder(t, db)

	carrier := &fakeCarrier{shipment: Shipment{ShipmentID: "SR-1", Raw: []byte(`{}`)}}
	d := NewDispatcher(db, carrier)

	_, err := d.PushOrder(context.Background(), order.ID)
	require.NoError(t, err)

	// The order's item belongs to s2, so s1's row must not leak in.
	assert.Equal(t, "42", carrier.lastReq.CourierID)
}

func TestPushOrder_CODFlag(t *testing.T) {
	db := dispatchDB(t)
	order := seedOrder(t, db)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("payment_method", "cod").Error)

	carrier := &fakeCarrier{shipment: Shipment{ShipmentID: "SR-1", Raw: []byte(`{}`)}}
	d := NewDispatcher(db, carrier)

	_, err := d.PushOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "COD", carrier.lastReq.PaymentMethod)
}

func TestPushOrder_UnknownOrder(t *testing.T) {
	d := NewDispatcher(dispatchDB(t), &fakeCarrier{})
	_, err := d.PushOrder(context.Background(), 999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
