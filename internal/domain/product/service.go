// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a decrement would drive stock negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrNotFound is returned when a product does not exist.
var ErrNotFound = errors.New("product not found")

var hsnPattern = regexp.MustCompile(`^\d{4,8}$`)

// Service handles product catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateProductRequest represents product creation data
type CreateProductRequest struct {
	Name      string  `json:"name" binding:"required"`
	SKU       string  `json:"sku,omitempty"`
	HSNCode   string  `json:"hsn_code,omitempty"`
	Barcode   string  `json:"barcode,omitempty"`
	Price     float64 `json:"price" binding:"required"`
	CostPrice float64 `json:"cost_price"`
	Quantity  int     `json:"quantity"`
	MinStock  int     `json:"min_stock"`
}

// UpdateProductRequest represents product update data; nil fields are left unchanged
type UpdateProductRequest struct {
	Name      *string  `json:"name,omitempty"`
	SKU       *string  `json:"sku,omitempty"`
	HSNCode   *string  `json:"hsn_code,omitempty"`
	Barcode   *string  `json:"barcode,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	CostPrice *float64 `json:"cost_price,omitempty"`
	Quantity  *int     `json:"quantity,omitempty"`
	MinStock  *int     `json:"min_stock,omitempty"`
}

// CreateProduct creates a new catalog entry
func (s *Service) CreateProduct(req *CreateProductRequest) (*Product, error) {
	if err := validateProductFields(req.Name, req.HSNCode, req.SKU, req.Price, req.CostPrice, req.Quantity, req.MinStock); err != nil {
		return nil, err
	}

	p := &Product{
		Name:      strings.TrimSpace(req.Name),
		SKU:       req.SKU,
		HSNCode:   req.HSNCode,
		Barcode:   req.Barcode,
		Price:     req.Price,
		CostPrice: req.CostPrice,
		Quantity:  req.Quantity,
		MinStock:  req.MinStock,
	}
	if p.HSNCode == "" {
		p.HSNCode = "9999"
	}

	if err := s.db.Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return p, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var p Product
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &p, nil
}

// GetProducts retrieves the catalog, optionally filtered by a search term
func (s *Service) GetProducts(search string) ([]Product, error) {
	var products []Product
	query := s.db.Order("name asc")
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR barcode = ? OR sku = ?", like, search, search)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// GetLowStockProducts lists products at or below their reorder point
func (s *Service) GetLowStockProducts() ([]Product, error) {
	var products []Product
	if err := s.db.Where("quantity <= min_stock").Order("quantity asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve low stock products: %w", err)
	}
	return products, nil
}

// UpdateProduct applies a partial update to a product
func (s *Service) UpdateProduct(id uint, req *UpdateProductRequest) (*Product, error) {
	p, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if len(strings.TrimSpace(*req.Name)) < 2 {
			return nil, fmt.Errorf("product name must be at least 2 characters")
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.HSNCode != nil {
		if *req.HSNCode != "" && !hsnPattern.MatchString(*req.HSNCode) {
			return nil, fmt.Errorf("HSN code must be 4-8 digits")
		}
		updates["hsn_code"] = *req.HSNCode
	}
	if req.Barcode != nil {
		updates["barcode"] = *req.Barcode
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("price must be a non-negative number")
		}
		updates["price"] = *req.Price
	}
	if req.CostPrice != nil {
		if *req.CostPrice < 0 {
			return nil, fmt.Errorf("cost price must be a non-negative number")
		}
		updates["cost_price"] = *req.CostPrice
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("quantity must be a non-negative integer")
		}
		updates["quantity"] = *req.Quantity
	}
	if req.MinStock != nil {
		if *req.MinStock < 0 {
			return nil, fmt.Errorf("minimum stock must be a non-negative integer")
		}
		updates["min_stock"] = *req.MinStock
	}

	if len(updates) > 0 {
		if err := s.db.Model(p).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return s.GetProduct(id)
}

// DeleteProduct soft-deletes a product
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock atomically reduces on-hand quantity within the given
// transaction. The stock check happens in the UPDATE itself, so concurrent
// checkouts cannot oversell: the statement only matches rows with enough
// quantity remaining. Returns ErrNotFound or ErrInsufficientStock when the
// guard rejects the decrement.
func (s *Service) DecrementStock(tx *gorm.DB, productID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("decrement quantity must be positive, got %d", quantity)
	}

	result := tx.Model(&Product{}).
		Where("id = ? AND quantity >= ?", productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		// Guard rejected: either the product is gone or stock is short.
		var p Product
		if err := tx.First(&p, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to check product stock: %w", err)
		}
		return fmt.Errorf("%w: product '%s' has %d, requested %d", ErrInsufficientStock, p.Name, p.Quantity, quantity)
	}

	return nil
}

// FindByID looks up a product inside a transaction; returns ErrNotFound when absent
func (s *Service) FindByID(tx *gorm.DB, productID uint) (*Product, error) {
	var p Product
	if err := tx.First(&p, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &p, nil
}

func validateProductFields(name, hsnCode, sku string, price, costPrice float64, quantity, minStock int) error {
	if len(strings.TrimSpace(name)) < 2 {
		return fmt.Errorf("product name must be at least 2 characters")
	}
	if len(name) > 200 {
		return fmt.Errorf("product name must be less than 200 characters")
	}
	if price < 0 {
		return fmt.Errorf("price must be a non-negative number")
	}
	if costPrice < 0 {
		return fmt.Errorf("cost price must be a non-negative number")
	}
	if quantity < 0 {
		return fmt.Errorf("quantity must be a non-negative integer")
	}
	if minStock < 0 {
		return fmt.Errorf("minimum stock must be a non-negative integer")
	}
	if hsnCode != "" && !hsnPattern.MatchString(hsnCode) {
		return fmt.Errorf("HSN code must be 4-8 digits")
	}
	if len(sku) > 50 {
		return fmt.Errorf("SKU must be less than 50 characters")
	}
	return nil
}
