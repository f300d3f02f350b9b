// internal/domain/billing/service.go
package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/audit"
	"github.com/your-org/pos-backend/internal/domain/customer"
	"github.com/your-org/pos-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Service runs checkouts and owns the bills table. Every checkout is a
// single database transaction: stock decrements, the bill number bump and
// the invoice insert all commit together or not at all.
type Service struct {
	db        *gorm.DB
	config    *config.Config
	products  *product.Service
	customers *customer.Service
	audit     *audit.Service
	logger    *logrus.Logger
}

// NewService creates a new billing service
func NewService(db *gorm.DB, cfg *config.Config, products *product.Service, customers *customer.Service, auditSvc *audit.Service, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		db:        db,
		config:    cfg,
		products:  products,
		customers: customers,
		audit:     auditSvc,
		logger:    logger,
	}
}

// CheckoutLine is one cart entry as tendered at the counter. Price is a
// pointer so a missing price is distinguishable from a free item.
type CheckoutLine struct {
	ProductID uint     `json:"product_id" binding:"required"`
	Quantity  int      `json:"quantity" binding:"required"`
	Price     *float64 `json:"price" binding:"required"`
}

// CheckoutRequest is the full checkout payload. CustomerState overrides the
// stored customer's state for this sale; walk-ins default to same-state.
type CheckoutRequest struct {
	Items           []CheckoutLine       `json:"items" binding:"required"`
	CustomerID      *uint                `json:"customer_id,omitempty"`
	CustomerState   string               `json:"customer_state,omitempty"`
	DiscountPercent float64              `json:"discount_percent"`
	PaymentMode     string               `json:"payment_mode" binding:"required"`
	SplitPayment    *SplitPaymentDetails `json:"split_payment,omitempty"`
}

// Receipt is the checkout response returned to the till
type Receipt struct {
	BillID       uint                 `json:"bill_id"`
	BillNumber   string               `json:"bill_number"`
	BillDate     time.Time            `json:"bill_date"`
	CustomerName string               `json:"customer_name"`
	Subtotal     float64              `json:"subtotal"`
	Discount     float64              `json:"discount"`
	CGST         float64              `json:"cgst"`
	SGST         float64              `json:"sgst"`
	IGST         float64              `json:"igst"`
	GSTAmount    float64              `json:"gst_amount"`
	GrandTotal   int64                `json:"grand_total"`
	TotalProfit  float64              `json:"total_profit,omitempty"`
	PaymentMode  string               `json:"payment_mode"`
	Items        []BillItem           `json:"items"`
	SplitPayment *SplitPaymentDetails `json:"split_payment,omitempty"`
}

// Checkout validates the cart, computes totals and persists the bill. Stock
// is decremented with a conditional UPDATE per line, so two tills selling the
// last unit cannot both succeed. Any failure rolls the whole sale back.
func (s *Service) Checkout(req *CheckoutRequest, actorID *uint, actorName string) (*Receipt, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	// Totals depend only on the tendered lines and the customer's state, so
	// the whole money pipeline runs before any stock is touched. A payment
	// mismatch must never consume inventory.
	var subtotal float64
	for _, line := range req.Items {
		subtotal += Round2(*line.Price * float64(line.Quantity))
	}
	subtotal = Round2(subtotal)

	cust, err := s.resolveCustomer(req.CustomerID)
	if err != nil {
		return nil, err
	}

	// The tendered state wins over the customer record, so an interstate
	// sale to a walk-in (or a one-off override) is expressible.
	state := cust.State
	if req.CustomerState != "" {
		state = req.CustomerState
	}
	sameState := state != customer.StateOther

	discountAmount := DiscountAmount(subtotal, req.DiscountPercent)
	afterDiscount := Round2(subtotal - discountAmount)
	gst := SplitGST(afterDiscount, s.config.Tax.GSTPercent, sameState)
	grandTotal := GrandTotal(afterDiscount, gst)

	split := SplitPaymentDetails{}
	if req.PaymentMode == PaymentModeSplit {
		if req.SplitPayment == nil {
			return nil, newError(ErrPaymentMismatch, "split payment details are required for split mode")
		}
		split = *req.SplitPayment
		if err := ValidateSplitPayment(split.CashAmount, split.UPIAmount, split.CardAmount, float64(grandTotal)); err != nil {
			return nil, wrapError(ErrPaymentMismatch, err, "%s", err.Error())
		}
	}

	bill := &Bill{
		CustomerName:      cust.Name,
		CustomerPhone:     cust.Phone,
		CustomerAddress:   cust.Address,
		CustomerPlace:     cust.Place,
		CustomerPincode:   cust.Pincode,
		CustomerState:     state,
		IsSameState:       sameState,
		DiscountPercent:   req.DiscountPercent,
		Subtotal:          subtotal,
		DiscountAmount:    discountAmount,
		AfterDiscount:     afterDiscount,
		CGST:              gst.CGST,
		SGST:              gst.SGST,
		IGST:              gst.IGST,
		GSTAmount:         gst.Total,
		GrandTotal:        grandTotal,
		PaymentMode:       req.PaymentMode,
		PaymentStatus:     "Paid",
		SplitPayment:      split,
		BillDate:          time.Now(),
		CreatedBy:         actorID,
		CreatedByUsername: actorName,
	}
	if cust.ID != 0 {
		id := cust.ID
		bill.CustomerID = &id
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		billNumber, err := s.nextBillNumber(tx, bill.BillDate.Year())
		if err != nil {
			return wrapError(ErrPersistenceFailure, err, "failed to allocate bill number")
		}
		bill.BillNumber = billNumber

		var totalCost float64
		items := make([]BillItem, 0, len(req.Items))
		for _, line := range req.Items {
			p, err := s.products.FindByID(tx, line.ProductID)
			if err != nil {
				if errors.Is(err, product.ErrNotFound) {
					return newError(ErrProductNotFound, "product %d not found", line.ProductID)
				}
				return wrapError(ErrPersistenceFailure, err, "failed to load product %d", line.ProductID)
			}

			if err := s.products.DecrementStock(tx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, product.ErrInsufficientStock) {
					return wrapError(ErrInsufficientStock, err, "%s", err.Error())
				}
				if errors.Is(err, product.ErrNotFound) {
					return newError(ErrProductNotFound, "product %d not found", line.ProductID)
				}
				return wrapError(ErrPersistenceFailure, err, "failed to decrement stock for product %d", line.ProductID)
			}

			amounts := ComputeLine(*line.Price, p.CostPrice, line.Quantity)
			totalCost += amounts.Cost
			items = append(items, BillItem{
				ProductID:       p.ID,
				ProductName:     p.Name,
				HSNCode:         p.HSNCode,
				Quantity:        line.Quantity,
				UnitPrice:       *line.Price,
				CostPriceAtSale: p.CostPrice,
				LineSubtotal:    amounts.Subtotal,
				LineCost:        amounts.Cost,
				LineProfit:      amounts.Profit,
			})
		}

		bill.TotalCost = Round2(totalCost)
		bill.TotalProfit = TotalProfit(subtotal, bill.TotalCost, discountAmount)
		bill.Items = items

		if err := tx.Create(bill).Error; err != nil {
			return wrapError(ErrPersistenceFailure, err, "failed to save bill")
		}
		return nil
	})
	if err != nil {
		var ce *CheckoutError
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, wrapError(ErrPersistenceFailure, err, "checkout transaction failed")
	}

	s.audit.Record(audit.ActionSaleCompleted, actorID, actorName, map[string]interface{}{
		"bill_number": bill.BillNumber,
		"grand_total": bill.GrandTotal,
		"customer":    bill.CustomerName,
		"items":       len(bill.Items),
	})

	s.logger.WithFields(logrus.Fields{
		"bill_number": bill.BillNumber,
		"grand_total": bill.GrandTotal,
		"items":       len(bill.Items),
	}).Info("Checkout completed")

	return s.receipt(bill), nil
}

func (s *Service) validateRequest(req *CheckoutRequest) error {
	if len(req.Items) == 0 {
		return newError(ErrEmptyCart, "cart must contain at least one item")
	}
	for i, line := range req.Items {
		if line.ProductID == 0 {
			return newError(ErrInvalidLineItem, "item %d: product id is required", i+1)
		}
		if line.Quantity <= 0 {
			return newError(ErrInvalidLineItem, "item %d: quantity must be a positive integer", i+1)
		}
		if line.Price == nil || *line.Price < 0 {
			return newError(ErrInvalidLineItem, "item %d: price must be a non-negative number", i+1)
		}
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return newError(ErrInvalidRequest, "discount percent must be between 0 and 100")
	}
	switch req.CustomerState {
	case "", customer.StateSame, customer.StateOther:
	default:
		return newError(ErrInvalidRequest, "customer state must be '%s' or '%s'", customer.StateSame, customer.StateOther)
	}
	switch req.PaymentMode {
	case PaymentModeCash, PaymentModeUPI, PaymentModeCard, PaymentModeSplit:
	default:
		return newError(ErrInvalidRequest, "unsupported payment mode '%s'", req.PaymentMode)
	}
	return nil
}

// resolveCustomer loads the named customer, falling back to the synthetic
// walk-in customer when no id is given or the id no longer resolves.
func (s *Service) resolveCustomer(customerID *uint) (*customer.Customer, error) {
	if customerID == nil || *customerID == 0 {
		return customer.WalkIn(), nil
	}
	c, err := s.customers.FindByID(s.db, *customerID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			s.logger.WithField("customer_id", *customerID).Warn("Customer not found, billing as walk-in")
			return customer.WalkIn(), nil
		}
		return nil, wrapError(ErrPersistenceFailure, err, "failed to load customer %d", *customerID)
	}
	return c, nil
}

// nextBillNumber bumps the per-year counter and formats the bill number.
// The UPDATE takes a row lock that is held until the surrounding transaction
// commits, so concurrent checkouts serialize here and numbers come out
// unique and gapless within a year.
func (s *Service) nextBillNumber(tx *gorm.DB, year int) (string, error) {
	result := tx.Model(&BillSequence{}).
		Where("year = ?", year).
		UpdateColumn("seq", gorm.Expr("seq + 1"))
	if result.Error != nil {
		return "", fmt.Errorf("failed to bump bill sequence: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// First bill of the year. A concurrent first-bill insert loses the
		// unique-key race and falls back to the UPDATE path.
		if err := tx.Create(&BillSequence{Year: year, Seq: 1}).Error; err != nil {
			if !isDuplicateKey(err) {
				return "", fmt.Errorf("failed to create bill sequence: %w", err)
			}
			retry := tx.Model(&BillSequence{}).
				Where("year = ?", year).
				UpdateColumn("seq", gorm.Expr("seq + 1"))
			if retry.Error != nil {
				return "", fmt.Errorf("failed to bump bill sequence: %w", retry.Error)
			}
		}
	}

	var seq BillSequence
	if err := tx.Where("year = ?", year).First(&seq).Error; err != nil {
		return "", fmt.Errorf("failed to read bill sequence: %w", err)
	}

	return fmt.Sprintf("%s-%d-%04d", s.config.Billing.BillPrefix, year, seq.Seq), nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func (s *Service) receipt(bill *Bill) *Receipt {
	r := &Receipt{
		BillID:       bill.ID,
		BillNumber:   bill.BillNumber,
		BillDate:     bill.BillDate,
		CustomerName: bill.CustomerName,
		Subtotal:     bill.Subtotal,
		Discount:     bill.DiscountAmount,
		CGST:         bill.CGST,
		SGST:         bill.SGST,
		IGST:         bill.IGST,
		GSTAmount:    bill.GSTAmount,
		GrandTotal:   bill.GrandTotal,
		TotalProfit:  bill.TotalProfit,
		PaymentMode:  bill.PaymentMode,
		Items:        bill.Items,
	}
	if bill.PaymentMode == PaymentModeSplit {
		sp := bill.SplitPayment
		r.SplitPayment = &sp
	}
	return r
}
