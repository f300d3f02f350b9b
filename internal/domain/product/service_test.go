package product

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Product{}))

	return NewService(db, &config.Config{}), db
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.CreateProduct(&CreateProductRequest{
		Name:      "Voltage Stabilizer",
		Price:     1500,
		CostPrice: 1100,
		Quantity:  10,
		MinStock:  2,
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "9999", p.HSNCode) // default HSN when omitted
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name string
		req  *CreateProductRequest
	}{
		{"short name", &CreateProductRequest{Name: "x", Price: 10}},
		{"negative price", &CreateProductRequest{Name: "Bulb", Price: -1}},
		{"negative cost", &CreateProductRequest{Name: "Bulb", Price: 10, CostPrice: -1}},
		{"negative quantity", &CreateProductRequest{Name: "Bulb", Price: 10, Quantity: -1}},
		{"bad hsn", &CreateProductRequest{Name: "Bulb", Price: 10, HSNCode: "12"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(tc.req)
			assert.Error(t, err)
		})
	}
}

func TestDecrementStock(t *testing.T) {
	svc, db := newTestService(t)

	p, err := svc.CreateProduct(&CreateProductRequest{Name: "Switch", Price: 40, Quantity: 5})
	require.NoError(t, err)

	require.NoError(t, svc.DecrementStock(db, p.ID, 3))

	after, err := svc.GetProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Quantity)

	// Draining exactly to zero is allowed
	require.NoError(t, svc.DecrementStock(db, p.ID, 2))
	after, err = svc.GetProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.Quantity)
}

func TestDecrementStockInsufficient(t *testing.T) {
	svc, db := newTestService(t)

	p, err := svc.CreateProduct(&CreateProductRequest{Name: "Switch", Price: 40, Quantity: 2})
	require.NoError(t, err)

	err = svc.DecrementStock(db, p.ID, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Switch")

	// Failed decrement leaves stock untouched
	after, err := svc.GetProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Quantity)
}

func TestDecrementStockUnknownProduct(t *testing.T) {
	svc, db := newTestService(t)

	err := svc.DecrementStock(db, 4242, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecrementStockRejectsNonPositiveQuantity(t *testing.T) {
	svc, db := newTestService(t)

	p, err := svc.CreateProduct(&CreateProductRequest{Name: "Switch", Price: 40, Quantity: 2})
	require.NoError(t, err)

	assert.Error(t, svc.DecrementStock(db, p.ID, 0))
	assert.Error(t, svc.DecrementStock(db, p.ID, -1))
}

func TestGetLowStockProducts(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateProduct(&CreateProductRequest{Name: "Healthy", Price: 10, Quantity: 50, MinStock: 5})
	require.NoError(t, err)
	low, err := svc.CreateProduct(&CreateProductRequest{Name: "Running Out", Price: 10, Quantity: 2, MinStock: 5})
	require.NoError(t, err)
	boundary, err := svc.CreateProduct(&CreateProductRequest{Name: "At Threshold", Price: 10, Quantity: 5, MinStock: 5})
	require.NoError(t, err)

	products, err := svc.GetLowStockProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)

	ids := []uint{products[0].ID, products[1].ID}
	assert.Contains(t, ids, low.ID)
	assert.Contains(t, ids, boundary.ID)
}

func TestUpdateProductPartial(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.CreateProduct(&CreateProductRequest{Name: "Fan", Price: 1000, CostPrice: 700, Quantity: 4})
	require.NoError(t, err)

	newPrice := 1200.0
	updated, err := svc.UpdateProduct(p.ID, &UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, 1200.0, updated.Price)
	// Untouched fields keep their values
	assert.Equal(t, 700.0, updated.CostPrice)
	assert.Equal(t, 4, updated.Quantity)
}

func TestDeleteProductSoftDeletes(t *testing.T) {
	svc, db := newTestService(t)

	p, err := svc.CreateProduct(&CreateProductRequest{Name: "Fan", Price: 1000})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(p.ID))

	_, err = svc.GetProduct(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Row still present for historical bills
	var count int64
	db.Unscoped().Model(&Product{}).Where("id = ?", p.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, svc.DeleteProduct(p.ID), ErrNotFound)
}
