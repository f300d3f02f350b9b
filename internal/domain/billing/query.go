// internal/domain/billing/query.go
package billing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// InvoiceSummary is the list-view projection of a bill
type InvoiceSummary struct {
	ID           uint      `json:"id"`
	BillNumber   string    `json:"bill_number"`
	BillDate     time.Time `json:"bill_date"`
	CustomerName string    `json:"customer_name"`
	GrandTotal   int64     `json:"grand_total"`
	PaymentMode  string    `json:"payment_mode"`
	ItemCount    int       `json:"item_count"`
}

// Invoice is the full printable projection of a bill, including the seller
// identity pulled from configuration at read time.
type Invoice struct {
	ID              uint                 `json:"id"`
	BillNumber      string               `json:"bill_number"`
	BillDate        time.Time            `json:"bill_date"`
	CompanyName     string               `json:"company_name"`
	CompanyPhone    string               `json:"company_phone"`
	CompanyAddress  string               `json:"company_address"`
	CompanyEmail    string               `json:"company_email"`
	CompanyGSTIN    string               `json:"company_gstin"`
	CustomerName    string               `json:"customer_name"`
	CustomerPhone   string               `json:"customer_phone"`
	CustomerAddress string               `json:"customer_address"`
	CustomerPlace   string               `json:"customer_place"`
	CustomerPincode string               `json:"customer_pincode"`
	CustomerState   string               `json:"customer_state"`
	Items           []BillItem           `json:"items"`
	Subtotal        float64              `json:"subtotal"`
	DiscountPercent float64              `json:"discount_percent"`
	DiscountAmount  float64              `json:"discount_amount"`
	AfterDiscount   float64              `json:"after_discount"`
	TaxRate         float64              `json:"tax_rate"`
	CGST            float64              `json:"cgst"`
	SGST            float64              `json:"sgst"`
	IGST            float64              `json:"igst"`
	GSTAmount       float64              `json:"gst_amount"`
	GrandTotal      int64                `json:"grand_total"`
	PaymentMode     string               `json:"payment_mode"`
	PaymentStatus   string               `json:"payment_status"`
	SplitPayment    *SplitPaymentDetails `json:"split_payment,omitempty"`
	CreatedBy       string               `json:"created_by"`
}

// ListInvoices returns the most recent bills, newest first
func (s *Service) ListInvoices(limit int) ([]InvoiceSummary, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var bills []Bill
	if err := s.db.Preload("Items").Order("bill_date desc, id desc").Limit(limit).Find(&bills).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	summaries := make([]InvoiceSummary, 0, len(bills))
	for _, b := range bills {
		summaries = append(summaries, InvoiceSummary{
			ID:           b.ID,
			BillNumber:   b.BillNumber,
			BillDate:     b.BillDate,
			CustomerName: b.CustomerName,
			GrandTotal:   b.GrandTotal,
			PaymentMode:  b.PaymentMode,
			ItemCount:    len(b.Items),
		})
	}
	return summaries, nil
}

// GetInvoice resolves a bill by numeric id or by bill number and projects it
// for printing
func (s *Service) GetInvoice(idOrNumber string) (*Invoice, error) {
	bill, err := s.findBill(idOrNumber)
	if err != nil {
		return nil, err
	}
	return s.project(bill), nil
}

// GetInvoiceByID resolves a bill by its primary key
func (s *Service) GetInvoiceByID(id uint) (*Invoice, error) {
	var bill Bill
	if err := s.db.Preload("Items").First(&bill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrInvoiceNotFound, "invoice %d not found", id)
		}
		return nil, wrapError(ErrPersistenceFailure, err, "failed to retrieve invoice")
	}
	return s.project(&bill), nil
}

func (s *Service) findBill(idOrNumber string) (*Bill, error) {
	var bill Bill
	query := s.db.Preload("Items")

	if id, err := strconv.ParseUint(idOrNumber, 10, 64); err == nil {
		query = query.Where("id = ?", uint(id))
	} else {
		query = query.Where("bill_number = ?", strings.TrimSpace(idOrNumber))
	}

	if err := query.First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrInvoiceNotFound, "invoice '%s' not found", idOrNumber)
		}
		return nil, wrapError(ErrPersistenceFailure, err, "failed to retrieve invoice")
	}
	return &bill, nil
}

// project builds the printable view. Bills written before tax fields existed
// carry zero GST across the board; those render with a zero tax rate instead
// of the configured one.
func (s *Service) project(bill *Bill) *Invoice {
	taxRate := 0.0
	if bill.CGST != 0 || bill.SGST != 0 || bill.IGST != 0 {
		taxRate = s.config.Tax.GSTPercent
	}

	inv := &Invoice{
		ID:              bill.ID,
		BillNumber:      bill.BillNumber,
		BillDate:        bill.BillDate,
		CompanyName:     s.config.Company.Name,
		CompanyPhone:    s.config.Company.Phone,
		CompanyAddress:  s.config.Company.Address,
		CompanyEmail:    s.config.Company.Email,
		CompanyGSTIN:    s.config.Company.GSTIN,
		CustomerName:    bill.CustomerName,
		CustomerPhone:   bill.CustomerPhone,
		CustomerAddress: bill.CustomerAddress,
		CustomerPlace:   bill.CustomerPlace,
		CustomerPincode: bill.CustomerPincode,
		CustomerState:   bill.CustomerState,
		Items:           bill.Items,
		Subtotal:        bill.Subtotal,
		DiscountPercent: bill.DiscountPercent,
		DiscountAmount:  bill.DiscountAmount,
		AfterDiscount:   bill.AfterDiscount,
		TaxRate:         taxRate,
		CGST:            bill.CGST,
		SGST:            bill.SGST,
		IGST:            bill.IGST,
		GSTAmount:       bill.GSTAmount,
		GrandTotal:      bill.GrandTotal,
		PaymentMode:     bill.PaymentMode,
		PaymentStatus:   bill.PaymentStatus,
		CreatedBy:       bill.CreatedByUsername,
	}
	if bill.PaymentMode == PaymentModeSplit {
		sp := bill.SplitPayment
		inv.SplitPayment = &sp
	}
	return inv
}
