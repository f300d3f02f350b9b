// internal/domain/customer/service.go
package customer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a customer does not exist.
var ErrNotFound = errors.New("customer not found")

var (
	phonePattern   = regexp.MustCompile(`^[6-9]\d{9}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	gstinPattern   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
)

// Service handles customer directory business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new customer service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateCustomerRequest represents customer creation data
type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Place   string `json:"place,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	State   string `json:"state,omitempty"` // Same or Other, defaults to Same
	GSTIN   string `json:"gstin,omitempty"`
}

// CreateCustomer creates a new customer record
func (s *Service) CreateCustomer(req *CreateCustomerRequest) (*Customer, error) {
	if err := validateCustomerFields(req.Name, req.Phone, req.Email, req.Pincode, req.GSTIN); err != nil {
		return nil, err
	}

	state := req.State
	if state == "" {
		state = StateSame
	}
	if state != StateSame && state != StateOther {
		return nil, fmt.Errorf("state must be '%s' or '%s'", StateSame, StateOther)
	}

	c := &Customer{
		Name:    strings.TrimSpace(req.Name),
		Phone:   normalizePhone(req.Phone),
		Email:   req.Email,
		Address: req.Address,
		Place:   req.Place,
		Pincode: req.Pincode,
		State:   state,
		GSTIN:   req.GSTIN,
	}

	if err := s.db.Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return c, nil
}

// GetCustomer retrieves a single customer by ID
func (s *Service) GetCustomer(id uint) (*Customer, error) {
	var c Customer
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve customer: %w", err)
	}
	return &c, nil
}

// GetCustomers retrieves the directory, optionally filtered by name or phone
func (s *Service) GetCustomers(search string) ([]Customer, error) {
	var customers []Customer
	query := s.db.Order("name asc")
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, "%"+search+"%")
	}
	if err := query.Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve customers: %w", err)
	}
	return customers, nil
}

// UpdateCustomer applies a full update to a customer record
func (s *Service) UpdateCustomer(id uint, req *CreateCustomerRequest) (*Customer, error) {
	c, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}

	if err := validateCustomerFields(req.Name, req.Phone, req.Email, req.Pincode, req.GSTIN); err != nil {
		return nil, err
	}

	state := req.State
	if state == "" {
		state = c.State
	}
	if state != StateSame && state != StateOther {
		return nil, fmt.Errorf("state must be '%s' or '%s'", StateSame, StateOther)
	}

	updates := map[string]interface{}{
		"name":    strings.TrimSpace(req.Name),
		"phone":   normalizePhone(req.Phone),
		"email":   req.Email,
		"address": req.Address,
		"place":   req.Place,
		"pincode": req.Pincode,
		"state":   state,
		"gstin":   req.GSTIN,
	}

	if err := s.db.Model(c).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return s.GetCustomer(id)
}

// DeleteCustomer soft-deletes a customer
func (s *Service) DeleteCustomer(id uint) error {
	result := s.db.Delete(&Customer{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID looks up a customer inside a transaction; returns ErrNotFound when absent
func (s *Service) FindByID(tx *gorm.DB, id uint) (*Customer, error) {
	var c Customer
	if err := tx.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve customer: %w", err)
	}
	return &c, nil
}

func normalizePhone(phone string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(phone)
}

func validateCustomerFields(name, phone, email, pincode, gstin string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return fmt.Errorf("customer name must be at least 2 characters")
	}
	if len(name) > 100 {
		return fmt.Errorf("customer name must be less than 100 characters")
	}
	if phone != "" && !phonePattern.MatchString(normalizePhone(phone)) {
		return fmt.Errorf("invalid phone number format (must be 10 digits starting with 6-9)")
	}
	if email != "" && !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	if pincode != "" && !pincodePattern.MatchString(pincode) {
		return fmt.Errorf("invalid pincode format (expected 6 digits)")
	}
	if gstin != "" && !gstinPattern.MatchString(gstin) {
		return fmt.Errorf("invalid GSTIN format")
	}
	return nil
}
