package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"  // Submitted by seller, awaiting review
	ApprovalApproved ApprovalStatus = "approved" // Visible to buyers
	ApprovalRejected ApprovalStatus = "rejected" // Hidden, seller may edit and resubmit
)

type Product struct {
	ID           uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID     string           `gorm:"index;not null" json:"seller_id"`
	Name         string           `gorm:"not null" json:"name"`
	Description  string           `json:"description"`
	SalePrice    float64          `gorm:"not null" json:"sale_price"`
	RegularPrice float64          `json:"regular_price"` // MRP
	Category     string           `gorm:"index" json:"category"`
	Stock        int              `json:"stock"` // mutated only by checkout commit and seller restock
	Weight       float64          `json:"weight"`
	Images       datatypes.JSON   `json:"images"`
	Approval     ApprovalStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"approval"`
	Variants     []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
}

type ProductVariant struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ProductID uint    `gorm:"index" json:"product_id"`
	SKU       string  `gorm:"uniqueIndex" json:"sku"`
	Name      string  `json:"name"`
	SalePrice float64 `json:"sale_price"`
	Stock     int     `json:"stock"`
}
