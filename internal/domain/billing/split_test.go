package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSplitPaymentExactMatch(t *testing.T) {
	assert.NoError(t, ValidateSplitPayment(100, 62, 50, 212))
}

func TestValidateSplitPaymentWithinTolerance(t *testing.T) {
	assert.NoError(t, ValidateSplitPayment(105.995, 106, 0, 212))
}

func TestValidateSplitPaymentNegativeAmount(t *testing.T) {
	err := ValidateSplitPayment(-1, 213, 0, 212)
	require.Error(t, err)

	var spErr *SplitPaymentError
	require.ErrorAs(t, err, &spErr)
	assert.Equal(t, ReasonNegativeAmount, spErr.Reason)
}

// Negative check wins even when the sum happens to match the total.
func TestValidateSplitPaymentNegativeBeatsMismatch(t *testing.T) {
	err := ValidateSplitPayment(-50, 262, 0, 212)
	require.Error(t, err)

	var spErr *SplitPaymentError
	require.ErrorAs(t, err, &spErr)
	assert.Equal(t, ReasonNegativeAmount, spErr.Reason)
}

func TestValidateSplitPaymentNothingTendered(t *testing.T) {
	err := ValidateSplitPayment(0, 0, 0, 212)
	require.Error(t, err)

	var spErr *SplitPaymentError
	require.ErrorAs(t, err, &spErr)
	assert.Equal(t, ReasonNoPaymentMethodUsed, spErr.Reason)
}

func TestValidateSplitPaymentUnderpayment(t *testing.T) {
	err := ValidateSplitPayment(100, 62, 0, 212)
	require.Error(t, err)

	var spErr *SplitPaymentError
	require.ErrorAs(t, err, &spErr)
	assert.Equal(t, ReasonAmountMismatch, spErr.Reason)
	assert.Equal(t, 50.0, spErr.Difference)
	assert.Contains(t, err.Error(), "add ₹50.00 more")
}

func TestValidateSplitPaymentOverpayment(t *testing.T) {
	err := ValidateSplitPayment(150, 112, 0, 212)
	require.Error(t, err)

	var spErr *SplitPaymentError
	require.ErrorAs(t, err, &spErr)
	assert.Equal(t, ReasonAmountMismatch, spErr.Reason)
	assert.Equal(t, -50.0, spErr.Difference)
	assert.Contains(t, err.Error(), "excess payment of ₹50.00")
}
