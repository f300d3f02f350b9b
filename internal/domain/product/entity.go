// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents an item held in stock and sold at the counter.
// Quantity is the single source of truth for on-hand stock; the checkout
// engine only ever decrements it.
type Product struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;size:200" json:"name"`
	SKU       string         `gorm:"index;size:50" json:"sku"`
	HSNCode   string         `gorm:"size:8;default:'9999'" json:"hsn_code"`
	Barcode   string         `gorm:"index;size:64" json:"barcode"`
	Price     float64        `gorm:"not null" json:"price"`      // selling price per unit
	CostPrice float64        `gorm:"default:0" json:"cost_price"` // purchase cost, used for profit
	Quantity  int            `gorm:"not null;default:0" json:"quantity"`
	MinStock  int            `gorm:"default:0" json:"min_stock"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

// IsInStock reports whether any units remain
func (p *Product) IsInStock() bool {
	return p.Quantity > 0
}

// IsLowStock reports whether the product is at or below its reorder point
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}
