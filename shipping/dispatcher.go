package shipping

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kaushlendrathe1710/lelekart-api/models"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

// Carrier is the external API surface the dispatcher needs, satisfied by
// *Client.
type Carrier interface {
	CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error)
}

// Dispatcher pushes committed orders to the carrier. Pushes are idempotent
// per order: the stored shipment id is the key, and pushing an already
// shipped order returns the same id without a second carrier call.
type Dispatcher struct {
	db      *gorm.DB
	carrier Carrier
}

func NewDispatcher(db *gorm.DB, carrier Carrier) *Dispatcher {
	return &Dispatcher{db: db, carrier: carrier}
}

// settingsFor resolves the shipping settings of the seller whose products
// are on the order, keyed off the first line item. Orders mixing sellers
// ship under that seller's settings; without a match the defaults apply.
func (d *Dispatcher) settingsFor(ctx context.Context, order models.Order) models.ShiprocketSettings {
	if len(order.Items) > 0 {
		var sellerID string
		d.db.WithContext(ctx).Model(&models.Product{}).
			Where("id = ?", order.Items[0].ProductID).
			Select("seller_id").Scan(&sellerID)
		if sellerID != "" {
			var s models.ShiprocketSettings
			if err := d.db.WithContext(ctx).Where("seller_id = ?", sellerID).First(&s).Error; err == nil {
				return s
			}
		}
	}
	return models.ShiprocketSettings{NotifyCustomer: true}
}

// PushOrder sends one order to the carrier. On carrier failure the order is
// left unshipped and the error is returned for the seller to retry; it is
// never swallowed.
func (d *Dispatcher) PushOrder(ctx context.Context, orderID uint) (string, error) {
	var order models.Order
	err := d.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load order: %w", err)
	}

	if order.ShiprocketShipmentID != "" {
		return order.ShiprocketShipmentID, nil
	}

	settings := d.settingsFor(ctx, order)
	shipment, err := d.carrier.CreateShipment(ctx, buildRequest(order, settings))
	if err != nil {
		return "", err
	}

	// Conditional write so a concurrent push cannot record two shipments;
	// losing the race means the other push already stored its id.
	res := d.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND (shiprocket_shipment_id = '' OR shiprocket_shipment_id IS NULL)", order.ID).
		Updates(map[string]interface{}{
			"shiprocket_shipment_id": shipment.ShipmentID,
			"shiprocket_payload":     shipment.Raw,
		})
	if res.Error != nil {
		return "", fmt.Errorf("record shipment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var current models.Order
		if err := d.db.WithContext(ctx).First(&current, order.ID).Error; err != nil {
			return "", fmt.Errorf("reload order: %w", err)
		}
		return current.ShiprocketShipmentID, nil
	}
	return shipment.ShipmentID, nil
}

// AutoShip is the checkout commit hook. It only fires when the store setting
// enables it, and runs in the background so dispatch latency or carrier
// failures never affect the checkout response. Failures are logged and the
// order stays pending for a manual push.
func (d *Dispatcher) AutoShip(order models.Order) {
	if !d.settingsFor(context.Background(), order).AutoShip {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := d.PushOrder(ctx, order.ID); err != nil {
			log.Printf("❌ autoShip for order %s failed, left unshipped: %v", order.OrderRef, err)
		}
	}()
}

func buildRequest(order models.Order, settings models.ShiprocketSettings) ShipmentRequest {
	req := ShipmentRequest{
		OrderRef:       order.OrderRef,
		OrderDate:      order.CreatedAt.Format("2006-01-02 15:04"),
		BillingName:    order.ShippingAddress.Name,
		BillingPhone:   order.ShippingAddress.Phone,
		BillingAddress: order.ShippingAddress.Street,
		BillingCity:    order.ShippingAddress.City,
		BillingState:   order.ShippingAddress.State,
		BillingPincode: order.ShippingAddress.PostalCode,
		BillingCountry: order.ShippingAddress.Country,
		PaymentMethod:  "Prepaid",
		SubTotal:       order.Subtotal,
		CourierID:      settings.DefaultCourier,
		NotifyCustomer: settings.NotifyCustomer,
	}
	if order.PaymentMethod == "cod" {
		req.PaymentMethod = "COD"
	}
	for _, item := range order.Items {
		sku := fmt.Sprintf("P%d", item.ProductID)
		if item.VariantID != nil {
			sku = fmt.Sprintf("P%d-V%d", item.ProductID, *item.VariantID)
		}
		req.Items = append(req.Items, ShipmentItem{
			Name:   item.ProductName,
			SKU:    sku,
			Units:  item.Quantity,
			Price:  item.UnitPrice,
			Weight: item.Weight,
		})
	}
	return req
}
