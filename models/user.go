package models

import "time"

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `json:"-"`
	Phone        string `json:"phone"`
	Name         string `json:"name"`
	Role         Role   `gorm:"type:VARCHAR(20);default:'buyer'" json:"role"`
	// SellerApproved gates listing products; only meaningful for sellers.
	SellerApproved bool      `json:"seller_approved"`
	Address        Address   `gorm:"embedded;embeddedPrefix:addr_" json:"address"`
	Cart           Cart      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart"`
	Orders         []Order   `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"orders"`
	CreatedAt      time.Time `json:"created_at"`
}

// Address is embedded in User and snapshotted onto Orders at checkout.
type Address struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Complete reports whether the address carries every field the carrier needs.
func (a Address) Complete() bool {
	return a.Name != "" && a.Phone != "" && a.Street != "" &&
		a.City != "" && a.State != "" && a.PostalCode != "" && a.Country != ""
}
