// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/audit"
	"github.com/your-org/pos-backend/internal/domain/billing"
	"github.com/your-org/pos-backend/internal/domain/customer"
	"github.com/your-org/pos-backend/internal/domain/product"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"github.com/your-org/pos-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// InvoiceHandler handles invoice endpoints
type InvoiceHandler struct {
	billingService *billing.Service
	pdfService     *pdf.Service
	config         *config.Config
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(db *gorm.DB, cfg *config.Config) *InvoiceHandler {
	auditService := audit.NewService(db, nil)
	return &InvoiceHandler{
		billingService: billing.NewService(
			db,
			cfg,
			product.NewService(db, cfg),
			customer.NewService(db, cfg),
			auditService,
			nil,
		),
		pdfService: pdf.NewService(cfg),
		config:     cfg,
	}
}

// ListInvoices handles GET /invoices
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	invoices, err := h.billingService.ListInvoices(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve invoices",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoices retrieved successfully",
		"data":    invoices,
	})
}

// GetInvoice handles GET /invoices/:id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.billingService.GetInvoice(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice retrieved successfully",
		"data":    invoice,
	})
}

// DownloadInvoicePDF handles GET /invoices/:id/pdf
func (h *InvoiceHandler) DownloadInvoicePDF(c *gin.Context) {
	invoice, err := h.billingService.GetInvoice(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	buf, err := h.pdfService.GenerateInvoice(invoice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate invoice PDF",
		})
		return
	}

	filename := fmt.Sprintf("%s.pdf", invoice.BillNumber)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// CreatePublicLink handles POST /invoices/:id/share
func (h *InvoiceHandler) CreatePublicLink(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid invoice ID",
		})
		return
	}

	actorName, _ := middleware.GetUsernameFromContext(c)

	link, err := h.billingService.CreatePublicLink(uint(id), actorName)
	if err != nil {
		h.respondError(c, err)
		return
	}

	invoice, err := h.billingService.GetInvoiceByID(uint(id))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Public invoice link created successfully",
		"data": gin.H{
			"link":          link,
			"whatsapp_link": h.billingService.WhatsAppLink(invoice, link.URL),
		},
	})
}

// GetPublicInvoice handles GET /public/invoice/:token (no auth)
func (h *InvoiceHandler) GetPublicInvoice(c *gin.Context) {
	invoice, err := h.billingService.ResolvePublicLink(c.Param("token"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice retrieved successfully",
		"data":    invoice,
	})
}

func (h *InvoiceHandler) respondError(c *gin.Context, err error) {
	var ce *billing.CheckoutError
	if errors.As(err, &ce) {
		c.JSON(ce.HTTPStatus(), gin.H{
			"error": ce.Message,
			"code":  string(ce.Kind),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}
