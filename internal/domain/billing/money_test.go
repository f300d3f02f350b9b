package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLine(t *testing.T) {
	amounts := ComputeLine(100, 60, 2)

	assert.Equal(t, 200.0, amounts.Subtotal)
	assert.Equal(t, 120.0, amounts.Cost)
	assert.Equal(t, 80.0, amounts.Profit)
}

func TestComputeLineRounding(t *testing.T) {
	// 33.335 * 3 = 100.005, must land on exactly two decimals
	amounts := ComputeLine(33.335, 10.001, 3)

	assert.Equal(t, 100.01, amounts.Subtotal)
	assert.Equal(t, 30.0, amounts.Cost)
}

func TestDiscountAmount(t *testing.T) {
	assert.Equal(t, 20.0, DiscountAmount(200, 10))
	assert.Equal(t, 0.0, DiscountAmount(200, 0))
	assert.Equal(t, 200.0, DiscountAmount(200, 100))
	assert.Equal(t, 33.33, DiscountAmount(99.99, 33.3333))
}

func TestSplitGSTSameState(t *testing.T) {
	gst := SplitGST(180, 18, true)

	assert.Equal(t, 16.2, gst.CGST)
	assert.Equal(t, 16.2, gst.SGST)
	assert.Equal(t, 0.0, gst.IGST)
	assert.Equal(t, 32.4, gst.Total)
}

func TestSplitGSTOtherState(t *testing.T) {
	gst := SplitGST(180, 18, false)

	assert.Equal(t, 0.0, gst.CGST)
	assert.Equal(t, 0.0, gst.SGST)
	assert.Equal(t, 32.4, gst.IGST)
	assert.Equal(t, 32.4, gst.Total)
}

func TestSplitGSTZeroRate(t *testing.T) {
	gst := SplitGST(500, 0, true)

	assert.Equal(t, 0.0, gst.CGST)
	assert.Equal(t, 0.0, gst.SGST)
	assert.Equal(t, 0.0, gst.Total)
}

func TestGrandTotalRoundsToWholeRupee(t *testing.T) {
	gst := SplitGST(180, 18, true)

	// 180 + 32.40 = 212.40 -> 212
	assert.Equal(t, int64(212), GrandTotal(180, gst))

	// 0.50 fractions round half away from zero
	assert.Equal(t, int64(101), GrandTotal(100, GSTBreakdown{Total: 0.5}))
}

func TestTotalProfit(t *testing.T) {
	// Discount comes out of margin, tax does not
	assert.Equal(t, 60.0, TotalProfit(200, 120, 20))
	assert.Equal(t, 80.0, TotalProfit(200, 120, 0))
	assert.Equal(t, -20.0, TotalProfit(100, 100, 20))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 16.2, Round2(16.200000000000003))
	assert.Equal(t, 0.01, Round2(0.005))
	assert.Equal(t, 99.99, Round2(99.994))
}
