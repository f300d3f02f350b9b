// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/billing"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateInvoice renders a bill as a printable PDF
func (s *Service) GenerateInvoice(invoice *billing.Invoice) (*bytes.Buffer, error) {
	data := invoiceData{
		Invoice:     invoice,
		InvoiceDate: invoice.BillDate.Format("January 2, 2006"),
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data invoiceData) (string, error) {
	tmpl := template.Must(template.New("invoice").Funcs(template.FuncMap{
		"rupees": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}).Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// invoiceData represents the data passed to the invoice template
type invoiceData struct {
	Invoice     *billing.Invoice
	InvoiceDate string
}

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.Invoice.BillNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .company-info {
            flex: 1;
        }
        .invoice-info {
            text-align: right;
            flex: 1;
        }
        .invoice-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .customer-info {
            margin-bottom: 30px;
        }
        .section-title {
            font-size: 16px;
            font-weight: bold;
            margin-bottom: 10px;
            color: #374151;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 80px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 100px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
        .status-badge {
            display: inline-block;
            padding: 4px 8px;
            border-radius: 4px;
            font-size: 12px;
            font-weight: bold;
            text-transform: uppercase;
            background-color: #dcfce7;
            color: #166534;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h1>{{.Invoice.CompanyName}}</h1>
            <p>{{.Invoice.CompanyAddress}}</p>
            {{if .Invoice.CompanyPhone}}<p>Phone: {{.Invoice.CompanyPhone}}</p>{{end}}
            {{if .Invoice.CompanyEmail}}<p>Email: {{.Invoice.CompanyEmail}}</p>{{end}}
            {{if .Invoice.CompanyGSTIN}}<p>GSTIN: {{.Invoice.CompanyGSTIN}}</p>{{end}}
        </div>
        <div class="invoice-info">
            <div class="invoice-title">TAX INVOICE</div>
            <p><strong>Invoice #:</strong> {{.Invoice.BillNumber}}</p>
            <p><strong>Invoice Date:</strong> {{.InvoiceDate}}</p>
            <p><strong>Payment:</strong> <span class="status-badge">{{.Invoice.PaymentStatus}}</span></p>
        </div>
    </div>

    <div class="customer-info">
        <div class="section-title">Bill To:</div>
        <p><strong>{{.Invoice.CustomerName}}</strong></p>
        {{if .Invoice.CustomerAddress}}<p>{{.Invoice.CustomerAddress}}</p>{{end}}
        {{if .Invoice.CustomerPlace}}<p>{{.Invoice.CustomerPlace}} {{.Invoice.CustomerPincode}}</p>{{end}}
        {{if .Invoice.CustomerPhone}}<p>Phone: {{.Invoice.CustomerPhone}}</p>{{end}}
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th>HSN</th>
                <th class="qty-col">Qty</th>
                <th class="price-col">Price</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Invoice.Items}}
            <tr>
                <td><strong>{{.ProductName}}</strong></td>
                <td>{{.HSNCode}}</td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">₹{{rupees .UnitPrice}}</td>
                <td class="total-col">₹{{rupees .LineSubtotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal:</td>
                <td class="amount">₹{{rupees .Invoice.Subtotal}}</td>
            </tr>
            {{if gt .Invoice.DiscountAmount 0.0}}
            <tr>
                <td class="label">Discount ({{rupees .Invoice.DiscountPercent}}%):</td>
                <td class="amount">-₹{{rupees .Invoice.DiscountAmount}}</td>
            </tr>
            {{end}}
            {{if gt .Invoice.CGST 0.0}}
            <tr>
                <td class="label">CGST:</td>
                <td class="amount">₹{{rupees .Invoice.CGST}}</td>
            </tr>
            <tr>
                <td class="label">SGST:</td>
                <td class="amount">₹{{rupees .Invoice.SGST}}</td>
            </tr>
            {{end}}
            {{if gt .Invoice.IGST 0.0}}
            <tr>
                <td class="label">IGST:</td>
                <td class="amount">₹{{rupees .Invoice.IGST}}</td>
            </tr>
            {{end}}
            <tr class="total-row">
                <td class="label">Grand Total:</td>
                <td class="amount">₹{{.Invoice.GrandTotal}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for your business!</p>
        {{if .Invoice.CompanyPhone}}<p>If you have any questions about this invoice, please contact us at {{.Invoice.CompanyPhone}}</p>{{end}}
    </div>
</body>
</html>
`
