// internal/domain/billing/links.go
package billing

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/pos-backend/internal/domain/audit"
	"gorm.io/gorm"
)

// ShareLink is the response for a freshly created public invoice link
type ShareLink struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreatePublicLink mints a short-lived unauthenticated share token for a
// bill. Tokens are single-purpose UUIDs, not derived from the bill, so a
// leaked link exposes exactly one invoice until it expires.
func (s *Service) CreatePublicLink(billID uint, actorName string) (*ShareLink, error) {
	var bill Bill
	if err := s.db.First(&bill, billID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrInvoiceNotFound, "invoice %d not found", billID)
		}
		return nil, wrapError(ErrPersistenceFailure, err, "failed to retrieve invoice")
	}

	link := &PublicInvoiceLink{
		Token:     uuid.New().String(),
		BillID:    bill.ID,
		CreatedBy: actorName,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(s.config.Billing.PublicLinkTTL),
	}
	if err := s.db.Create(link).Error; err != nil {
		return nil, wrapError(ErrPersistenceFailure, err, "failed to create public link")
	}

	s.audit.Record(audit.ActionPublicLinkCreated, nil, actorName, map[string]interface{}{
		"bill_number": bill.BillNumber,
		"token":       link.Token,
		"expires_at":  link.ExpiresAt,
	})

	return &ShareLink{
		Token:     link.Token,
		URL:       fmt.Sprintf("%s/public/invoice/%s", strings.TrimRight(s.config.App.BaseURL, "/"), link.Token),
		ExpiresAt: link.ExpiresAt,
	}, nil
}

// ResolvePublicLink returns the invoice behind a share token. Expired or
// unknown tokens both read as not found so callers cannot probe for valid
// bill ids.
func (s *Service) ResolvePublicLink(token string) (*Invoice, error) {
	var link PublicInvoiceLink
	if err := s.db.Where("token = ?", token).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrInvoiceNotFound, "invoice link not found")
		}
		return nil, wrapError(ErrPersistenceFailure, err, "failed to retrieve invoice link")
	}

	if link.IsExpired() {
		return nil, newError(ErrInvoiceNotFound, "invoice link has expired")
	}

	return s.GetInvoiceByID(link.BillID)
}

// WhatsAppLink builds a wa.me link that opens a chat with the customer and
// a prefilled message pointing at the public invoice URL. Returns an empty
// string when the bill has no usable phone number.
func (s *Service) WhatsAppLink(bill *Invoice, shareURL string) string {
	phone := normalizeWhatsAppPhone(bill.CustomerPhone)
	if phone == "" {
		return ""
	}

	msg := fmt.Sprintf("Hello %s, thank you for shopping with %s! Your invoice %s for ₹%d is ready: %s",
		bill.CustomerName, s.config.Company.Name, bill.BillNumber, bill.GrandTotal, shareURL)

	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(msg))
}

// normalizeWhatsAppPhone strips formatting and prefixes the Indian country
// code for bare 10-digit numbers
func normalizeWhatsAppPhone(phone string) string {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "").Replace(phone)
	if len(cleaned) == 10 {
		return "91" + cleaned
	}
	if len(cleaned) == 12 && strings.HasPrefix(cleaned, "91") {
		return cleaned
	}
	return ""
}
