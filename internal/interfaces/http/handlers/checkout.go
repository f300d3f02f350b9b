// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/audit"
	"github.com/your-org/pos-backend/internal/domain/billing"
	"github.com/your-org/pos-backend/internal/domain/customer"
	"github.com/your-org/pos-backend/internal/domain/product"
	"github.com/your-org/pos-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	billingService *billing.Service
	config         *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, cfg *config.Config) *CheckoutHandler {
	auditService := audit.NewService(db, nil)
	return &CheckoutHandler{
		billingService: billing.NewService(
			db,
			cfg,
			product.NewService(db, cfg),
			customer.NewService(db, cfg),
			auditService,
			nil,
		),
		config: cfg,
	}
}

// Checkout handles POST /checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req billing.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	var actorID *uint
	if id, exists := middleware.GetUserIDFromContext(c); exists {
		actorID = &id
	}
	actorName, _ := middleware.GetUsernameFromContext(c)

	receipt, err := h.billingService.Checkout(&req, actorID, actorName)
	if err != nil {
		var ce *billing.CheckoutError
		if errors.As(err, &ce) {
			c.JSON(ce.HTTPStatus(), gin.H{
				"error": ce.Message,
				"code":  string(ce.Kind),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Checkout failed",
		})
		return
	}

	// Profit figures stay behind the admin role
	if !middleware.IsAdminFromContext(c) {
		receipt.TotalProfit = 0
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Checkout completed successfully",
		"data":    receipt,
	})
}
