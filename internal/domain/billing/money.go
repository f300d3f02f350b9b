// internal/domain/billing/money.go
package billing

import (
	"math"
)

// Money and tax primitives for the checkout engine. All arithmetic is
// float64 with explicit rounding at the boundaries: two decimals for line
// and tax fields, whole rupees for the grand total.

// Round2 rounds a monetary amount to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundRupee rounds a monetary amount to the nearest whole rupee
func RoundRupee(v float64) int64 {
	return int64(math.Round(v))
}

// LineAmounts holds the computed money fields for a single cart line
type LineAmounts struct {
	Subtotal float64
	Cost     float64
	Profit   float64
}

// ComputeLine computes subtotal, cost and profit for one line. Profit is
// measured before discount and tax.
func ComputeLine(unitPrice, costPrice float64, quantity int) LineAmounts {
	subtotal := Round2(unitPrice * float64(quantity))
	cost := Round2(costPrice * float64(quantity))
	return LineAmounts{
		Subtotal: subtotal,
		Cost:     cost,
		Profit:   Round2(subtotal - cost),
	}
}

// DiscountAmount computes the rupee value of a percentage discount
func DiscountAmount(subtotal, discountPercent float64) float64 {
	return Round2(subtotal * discountPercent / 100)
}

// GSTBreakdown is the tax split applied to the discounted subtotal.
// Total is the same for intrastate and interstate sales; only the
// CGST/SGST vs IGST routing differs.
type GSTBreakdown struct {
	CGST  float64
	SGST  float64
	IGST  float64
	Total float64
}

// SplitGST applies the GST rate to the discounted amount. Same-state sales
// split the rate evenly into CGST + SGST; interstate sales are charged the
// full rate as IGST. This routing is a tax compliance requirement, not a
// pricing difference.
func SplitGST(afterDiscount, ratePercent float64, sameState bool) GSTBreakdown {
	total := Round2(afterDiscount * ratePercent / 100)
	if sameState {
		half := Round2(afterDiscount * ratePercent / 200)
		return GSTBreakdown{CGST: half, SGST: half, Total: total}
	}
	return GSTBreakdown{IGST: total, Total: total}
}

// GrandTotal computes the final payable amount: discounted subtotal plus
// GST, rounded to the nearest rupee. Sub-rupee precision is discarded only
// at this final step.
func GrandTotal(afterDiscount float64, gst GSTBreakdown) int64 {
	return RoundRupee(afterDiscount + gst.Total)
}

// TotalProfit computes realized profit for a bill. The discount is absorbed
// entirely by margin, so it subtracts from profit; tax never does.
func TotalProfit(subtotal, totalCost, discountAmount float64) float64 {
	return Round2(subtotal - totalCost - discountAmount)
}
