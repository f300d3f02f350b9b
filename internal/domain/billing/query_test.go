package billing

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutOne(t *testing.T, svc *Service, productID uint, price float64) *Receipt {
	t.Helper()
	receipt, err := svc.Checkout(&CheckoutRequest{
		Items:       []CheckoutLine{{ProductID: productID, Quantity: 1, Price: floatPtr(price)}},
		PaymentMode: PaymentModeCash,
	}, nil, "cashier1")
	require.NoError(t, err)
	return receipt
}

func TestListInvoicesNewestFirst(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Bulb", 20, 12, 100)

	first := checkoutOne(t, svc, p.ID, 20)
	second := checkoutOne(t, svc, p.ID, 20)
	third := checkoutOne(t, svc, p.ID, 20)

	invoices, err := svc.ListInvoices(100)
	require.NoError(t, err)
	require.Len(t, invoices, 3)

	assert.Equal(t, third.BillNumber, invoices[0].BillNumber)
	assert.Equal(t, second.BillNumber, invoices[1].BillNumber)
	assert.Equal(t, first.BillNumber, invoices[2].BillNumber)
	assert.Equal(t, 1, invoices[0].ItemCount)
}

func TestListInvoicesLimit(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Bulb", 20, 12, 100)

	for i := 0; i < 5; i++ {
		checkoutOne(t, svc, p.ID, 20)
	}

	invoices, err := svc.ListInvoices(2)
	require.NoError(t, err)
	assert.Len(t, invoices, 2)
}

func TestGetInvoiceByIDOrNumber(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Bulb", 20, 12, 100)
	receipt := checkoutOne(t, svc, p.ID, 20)

	byID, err := svc.GetInvoice(fmt.Sprintf("%d", receipt.BillID))
	require.NoError(t, err)
	assert.Equal(t, receipt.BillNumber, byID.BillNumber)

	byNumber, err := svc.GetInvoice(receipt.BillNumber)
	require.NoError(t, err)
	assert.Equal(t, byID.ID, byNumber.ID)

	// Seller identity comes from configuration at read time
	assert.Equal(t, "Test Electronics", byNumber.CompanyName)
	assert.Equal(t, "33ABCDE1234F1Z5", byNumber.CompanyGSTIN)
	assert.Equal(t, 18.0, byNumber.TaxRate)
}

func TestGetInvoiceNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetInvoice("INV-2020-0001")
	require.Error(t, err)

	var ce *CheckoutError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrInvoiceNotFound, ce.Kind)
	assert.Equal(t, 404, ce.HTTPStatus())
}

func TestGetInvoiceZeroTaxBillHasZeroRate(t *testing.T) {
	svc, db := newTestService(t)

	// Bill persisted without any GST components renders with a zero rate
	bill := &Bill{
		BillNumber:   "INV-2023-0042",
		CustomerName: "Legacy Customer",
		Subtotal:     100,
		GrandTotal:   100,
		PaymentMode:  PaymentModeCash,
		BillDate:     time.Now(),
	}
	require.NoError(t, db.Create(bill).Error)

	inv, err := svc.GetInvoice("INV-2023-0042")
	require.NoError(t, err)
	assert.Equal(t, 0.0, inv.TaxRate)
}

func TestCreateAndResolvePublicLink(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Bulb", 20, 12, 100)
	receipt := checkoutOne(t, svc, p.ID, 20)

	link, err := svc.CreatePublicLink(receipt.BillID, "priya")
	require.NoError(t, err)
	assert.NotEmpty(t, link.Token)
	assert.Contains(t, link.URL, "/public/invoice/"+link.Token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), link.ExpiresAt, time.Minute)

	inv, err := svc.ResolvePublicLink(link.Token)
	require.NoError(t, err)
	assert.Equal(t, receipt.BillNumber, inv.BillNumber)
}

func TestResolveExpiredPublicLink(t *testing.T) {
	svc, db := newTestService(t)
	p := seedProduct(t, db, "Bulb", 20, 12, 100)
	receipt := checkoutOne(t, svc, p.ID, 20)

	link, err := svc.CreatePublicLink(receipt.BillID, "priya")
	require.NoError(t, err)

	// Force the link into the past
	require.NoError(t, db.Model(&PublicInvoiceLink{}).
		Where("token = ?", link.Token).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = svc.ResolvePublicLink(link.Token)
	require.Error(t, err)

	var ce *CheckoutError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrInvoiceNotFound, ce.Kind)
}

func TestResolveUnknownPublicLink(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ResolvePublicLink("no-such-token")
	require.Error(t, err)

	var ce *CheckoutError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrInvoiceNotFound, ce.Kind)
}

func TestCreatePublicLinkUnknownBill(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreatePublicLink(4242, "priya")
	require.Error(t, err)

	var ce *CheckoutError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrInvoiceNotFound, ce.Kind)
}

func TestWhatsAppLink(t *testing.T) {
	svc, _ := newTestService(t)

	inv := &Invoice{
		BillNumber:    "INV-2025-0007",
		CustomerName:  "Kumar",
		CustomerPhone: "98765 01234",
		GrandTotal:    212,
	}

	link := svc.WhatsAppLink(inv, "http://localhost:8080/public/invoice/abc")
	assert.Contains(t, link, "https://wa.me/919876501234?text=")
	assert.Contains(t, link, "INV-2025-0007")

	// No phone, no link
	inv.CustomerPhone = ""
	assert.Empty(t, svc.WhatsAppLink(inv, "http://x"))

	// Already prefixed numbers pass through
	inv.CustomerPhone = "+91 98765 01234"
	assert.Contains(t, svc.WhatsAppLink(inv, "http://x"), "wa.me/919876501234")
}
