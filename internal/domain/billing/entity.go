// internal/domain/billing/entity.go
package billing

import (
	"time"
)

// Payment modes accepted at the counter
const (
	PaymentModeCash  = "cash"
	PaymentModeUPI   = "upi"
	PaymentModeCard  = "card"
	PaymentModeSplit = "split"
)

// Bill is the persisted invoice produced by a completed checkout. Financial
// fields are immutable once written; returns and refunds are handled outside
// this flow.
type Bill struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BillNumber string `gorm:"uniqueIndex;not null;size:20" json:"bill_number"` // e.g. INV-2025-0007

	CustomerID      *uint  `gorm:"index" json:"customer_id"`
	CustomerName    string `gorm:"not null;size:100" json:"customer_name"`
	CustomerPhone   string `gorm:"size:20" json:"customer_phone"`
	CustomerAddress string `gorm:"size:500" json:"customer_address"`
	CustomerPlace   string `gorm:"size:200" json:"customer_place"`
	CustomerPincode string `gorm:"size:6" json:"customer_pincode"`
	CustomerState   string `gorm:"size:10;default:'Same'" json:"customer_state"`
	IsSameState     bool   `gorm:"default:true" json:"is_same_state"`

	DiscountPercent float64 `json:"discount_percent"`
	Subtotal        float64 `json:"subtotal"`
	DiscountAmount  float64 `json:"discount_amount"`
	AfterDiscount   float64 `json:"after_discount"`
	CGST            float64 `json:"cgst"`
	SGST            float64 `json:"sgst"`
	IGST            float64 `json:"igst"`
	GSTAmount       float64 `json:"gst_amount"`
	GrandTotal      int64   `json:"grand_total"` // rounded to the nearest rupee
	TotalCost       float64 `json:"total_cost"`
	TotalProfit     float64 `json:"total_profit"`

	PaymentMode   string              `gorm:"not null;size:10" json:"payment_mode"`
	PaymentStatus string              `gorm:"size:10;default:'Paid'" json:"payment_status"`
	SplitPayment  SplitPaymentDetails `gorm:"embedded;embeddedPrefix:split_" json:"split_payment"`

	BillDate          time.Time `gorm:"index" json:"bill_date"`
	CreatedBy         *uint     `json:"created_by"`
	CreatedByUsername string    `gorm:"size:50" json:"created_by_username"`

	Items []BillItem `gorm:"foreignKey:BillID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// BillItem is one invoiced cart line. CostPriceAtSale snapshots the
// catalog cost at the moment of sale so later catalog edits do not rewrite
// historical profit.
type BillItem struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	BillID          uint    `gorm:"not null;index" json:"bill_id"`
	ProductID       uint    `gorm:"not null;index" json:"product_id"`
	ProductName     string  `gorm:"not null;size:200" json:"product_name"`
	HSNCode         string  `gorm:"size:8;default:'9999'" json:"hsn_code"`
	Quantity        int     `gorm:"not null" json:"quantity"`
	UnitPrice       float64 `gorm:"not null" json:"unit_price"`
	CostPriceAtSale float64 `json:"cost_price_at_sale"`
	LineSubtotal    float64 `json:"line_subtotal"`
	LineCost        float64 `json:"line_cost"`
	LineProfit      float64 `json:"line_profit"`
}

// SplitPaymentDetails records how a split-mode bill was settled. All three
// amounts are zero for single-instrument payments.
type SplitPaymentDetails struct {
	CashAmount float64 `json:"cash_amount"`
	UPIAmount  float64 `json:"upi_amount"`
	CardAmount float64 `json:"card_amount"`
}

// BillSequence is the per-year invoice counter. The row is bumped with an
// atomic UPDATE inside the checkout transaction, so concurrent checkouts
// serialize on it and bill numbers stay unique and gapless within a year.
type BillSequence struct {
	Year int `gorm:"primaryKey" json:"year"`
	Seq  int `gorm:"not null" json:"seq"`
}

// PublicInvoiceLink is a short-lived unauthenticated share token for a bill.
type PublicInvoiceLink struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null;size:64" json:"token"`
	BillID    uint      `gorm:"not null;index" json:"bill_id"`
	CreatedBy string    `gorm:"size:50" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TableName overrides
func (Bill) TableName() string              { return "bills" }
func (BillItem) TableName() string          { return "bill_items" }
func (BillSequence) TableName() string      { return "bill_sequences" }
func (PublicInvoiceLink) TableName() string { return "public_invoice_links" }

// IsExpired reports whether the share link has lapsed
func (l *PublicInvoiceLink) IsExpired() bool {
	return time.Now().After(l.ExpiresAt)
}
