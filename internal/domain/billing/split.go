// internal/domain/billing/split.go
package billing

import (
	"fmt"
	"math"
)

// SplitTolerance absorbs floating-point rounding when reconciling split
// payments against the grand total. It is not an underpayment allowance.
const SplitTolerance = 0.01

// Split payment rejection reasons
const (
	ReasonNegativeAmount      = "NEGATIVE_AMOUNT"
	ReasonNoPaymentMethodUsed = "NO_PAYMENT_METHOD_USED"
	ReasonAmountMismatch      = "AMOUNT_MISMATCH"
)

// SplitPaymentError describes why a split payment failed reconciliation.
// Difference is signed: positive means the customer still owes money,
// negative means they tendered too much.
type SplitPaymentError struct {
	Reason     string
	Difference float64
}

// Error implements the error interface
func (e *SplitPaymentError) Error() string {
	switch e.Reason {
	case ReasonNegativeAmount:
		return "split payment amounts cannot be negative"
	case ReasonNoPaymentMethodUsed:
		return "at least one payment method must be used in split payment"
	default:
		if e.Difference > 0 {
			return fmt.Sprintf("please add ₹%.2f more", e.Difference)
		}
		return fmt.Sprintf("excess payment of ₹%.2f", -e.Difference)
	}
}

// ValidateSplitPayment checks that cash+upi+card settles the expected total.
// Rules apply in order: no negative amounts, at least one instrument used,
// sum within SplitTolerance of the total.
func ValidateSplitPayment(cash, upi, card, expectedTotal float64) error {
	if cash < 0 || upi < 0 || card < 0 {
		return &SplitPaymentError{Reason: ReasonNegativeAmount}
	}

	if cash == 0 && upi == 0 && card == 0 {
		return &SplitPaymentError{Reason: ReasonNoPaymentMethodUsed}
	}

	diff := expectedTotal - (cash + upi + card)
	if math.Abs(diff) > SplitTolerance {
		return &SplitPaymentError{Reason: ReasonAmountMismatch, Difference: Round2(diff)}
	}

	return nil
}
