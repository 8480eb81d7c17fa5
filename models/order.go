package models

import (
	"time"

	"gorm.io/datatypes"
)

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses (typical e-commerce flow)
	OrderStatusPending    OrderStatus = "pending"    // Order placed, awaiting confirmation
	OrderStatusProcessing OrderStatus = "processing" // Confirmed by seller, being packed
	OrderStatusShipped    OrderStatus = "shipped"    // Handed to carrier
	OrderStatusDelivered  OrderStatus = "delivered"  // Customer received the item
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled before shipping

	// Payment statuses
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// orderTransitions lists the legal status moves. Orders are immutable once
// created except for these transitions.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	OrderRef string `gorm:"uniqueIndex" json:"order_ref"`
	// RequestID is the client-supplied idempotency key; replaying a checkout
	// with the same id returns this order instead of creating a duplicate.
	RequestID       string        `gorm:"uniqueIndex" json:"request_id"`
	UserID          string        `gorm:"not null;index" json:"user_id"`
	Items           []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal        float64       `json:"subtotal"`
	ShippingCost    float64       `json:"shipping_cost"`
	CoinsRedeemed   int           `json:"coins_redeemed"`
	CoinDiscount    float64       `json:"coin_discount"`
	TotalAmount     float64       `json:"total_amount"`
	Status          OrderStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentStatus   PaymentStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentMethod   string        `json:"payment_method"` // e.g. "card", "cod"
	ShippingAddress Address       `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`

	// Carrier state, written by the shipping dispatcher. ShipmentID doubles
	// as the idempotency key for pushes.
	ShiprocketShipmentID string         `gorm:"index" json:"shiprocket_shipment_id"`
	ShiprocketPayload    datatypes.JSON `json:"shiprocket_payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index" json:"order_id"`
	ProductID    uint    `json:"product_id"`
	VariantID    *uint   `json:"variant_id,omitempty"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	Category     string  `json:"category"`
	UnitPrice    float64 `json:"unit_price"` // price at purchase time
	Weight       float64 `json:"weight"`
	Quantity     int     `json:"quantity"`
}
