package customer

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

	require.NoError(t, db.AutoMigrate(&Customer{}))

	return NewService(db, &config.Config{}), db
}

func TestCreateCustomerDefaultsToSameState(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.CreateCustomer(&CreateCustomerRequest{
		Name:  "Kumar",
		Phone: "98765 01234",
	})
	require.NoError(t, err)

	assert.Equal(t, StateSame, c.State)
	assert.True(t, c.IsSameState())
	// Phone is stored without formatting
	assert.Equal(t, "9876501234", c.Phone)
}

func TestCreateCustomerOtherState(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.CreateCustomer(&CreateCustomerRequest{
		Name:  "Rao",
		State: StateOther,
	})
	require.NoError(t, err)
	assert.False(t, c.IsSameState())
}

func TestCreateCustomerValidation(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name string
		req  *CreateCustomerRequest
	}{
		{"short name", &CreateCustomerRequest{Name: "x"}},
		{"bad phone", &CreateCustomerRequest{Name: "Kumar", Phone: "12345"}},
		{"phone wrong prefix", &CreateCustomerRequest{Name: "Kumar", Phone: "1876501234"}},
		{"bad email", &CreateCustomerRequest{Name: "Kumar", Email: "not-an-email"}},
		{"bad pincode", &CreateCustomerRequest{Name: "Kumar", Pincode: "12"}},
		{"bad gstin", &CreateCustomerRequest{Name: "Kumar", GSTIN: "INVALID"}},
		{"bad state", &CreateCustomerRequest{Name: "Kumar", State: "Elsewhere"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(tc.req)
			assert.Error(t, err)
		})
	}
}

func TestWalkInCustomerIsNeverPersisted(t *testing.T) {
	svc, db := newTestService(t)

	w := WalkIn()
	assert.Zero(t, w.ID)
	assert.Equal(t, "Walk-in Customer", w.Name)
	assert.True(t, w.IsSameState())

	customers, err := svc.GetCustomers("")
	require.NoError(t, err)
	assert.Empty(t, customers)

	var count int64
	db.Model(&Customer{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSearchCustomers(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateCustomer(&CreateCustomerRequest{Name: "Kumar", Phone: "9876501234"})
	require.NoError(t, err)
	_, err = svc.CreateCustomer(&CreateCustomerRequest{Name: "Priya"})
	require.NoError(t, err)

	byName, err := svc.GetCustomers("kum")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Kumar", byName[0].Name)

	byPhone, err := svc.GetCustomers("98765")
	require.NoError(t, err)
	assert.Len(t, byPhone, 1)
}

func TestUpdateCustomer(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.CreateCustomer(&CreateCustomerRequest{Name: "Kumar"})
	require.NoError(t, err)

	updated, err := svc.UpdateCustomer(c.ID, &CreateCustomerRequest{
		Name:  "Kumar S",
		State: StateOther,
	})
	require.NoError(t, err)
	assert.Equal(t, "Kumar S", updated.Name)
	assert.Equal(t, StateOther, updated.State)
}

func TestDeleteCustomer(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.CreateCustomer(&CreateCustomerRequest{Name: "Kumar"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCustomer(c.ID))

	_, err = svc.GetCustomer(c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteCustomer(c.ID), ErrNotFound)
}
