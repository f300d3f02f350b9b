// internal/domain/customer/entity.go
package customer

import (
	"time"

	"gorm.io/gorm"
)

// Customer state values controlling GST routing. A same-state sale is
// charged CGST+SGST; an interstate sale is charged IGST.
const (
	StateSame  = "Same"
	StateOther = "Other"
)

// Customer represents a buyer on record. Checkout works without one;
// anonymous sales fall back to the walk-in customer.
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:100" json:"name"`
	Phone     string         `gorm:"size:20;index" json:"phone"`
	Email     string         `gorm:"size:255" json:"email"`
	Address   string         `gorm:"size:500" json:"address"`
	Place     string         `gorm:"size:200" json:"place"`
	Pincode   string         `gorm:"size:6" json:"pincode"`
	State     string         `gorm:"size:10;default:'Same'" json:"state"` // Same or Other
	GSTIN     string         `gorm:"size:15" json:"gstin"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for Customer
func (Customer) TableName() string {
	return "customers"
}

// IsSameState reports whether sales to this customer are intrastate
func (c *Customer) IsSameState() bool {
	return c.State != StateOther
}

// WalkIn returns the synthetic customer used when no customer is selected
// at checkout. It is never persisted.
func WalkIn() *Customer {
	return &Customer{
		Name:  "Walk-in Customer",
		State: StateSame,
	}
}
