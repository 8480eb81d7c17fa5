package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"` // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem snapshots display fields from the product at add time. Pricing at
// checkout is re-resolved from these snapshot columns, stock is not.
type CartItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CartID       uint      `gorm:"index" json:"cart_id"`
	ProductID    uint      `json:"product_id"`
	VariantID    *uint     `json:"variant_id,omitempty"`
	ProductName  string    `json:"product_name"`
	ProductImage string    `json:"product_image"`
	Category     string    `json:"category"`
	SalePrice    float64   `json:"sale_price"`
	RegularPrice float64   `json:"regular_price"`
	Weight       float64   `json:"weight"`
	Quantity     int       `json:"quantity"`
	AddedAt      time.Time `json:"added_at"`
}
