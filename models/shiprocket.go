package models

import "time"

// ShiprocketSettings is a singleton per seller store. Read by the checkout
// autoShip hook and the manual dispatch endpoint; written only from the admin
// settings form.
type ShiprocketSettings struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SellerID       string    `gorm:"uniqueIndex" json:"seller_id"`
	AutoShip       bool      `json:"auto_ship"`
	DefaultCourier string    `json:"default_courier"`
	NotifyCustomer bool      `json:"notify_customer"`
	ReturnAddress  Address   `gorm:"embedded;embeddedPrefix:return_" json:"return_address"`
	UpdatedAt      time.Time `json:"updated_at"`
}
