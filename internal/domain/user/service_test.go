package user

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/audit"
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

	require.NoError(t, db.AutoMigrate(&User{}, &audit.Log{}))

	cfg := &config.Config{
		App: config.AppConfig{Name: "POS Backend"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-that-is-long-enough!!",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}

	return NewService(db, cfg, audit.NewService(db, nil)), db
}

func register(t *testing.T, svc *Service, username string) *User {
	t.Helper()
	u, err := svc.Register(&RegisterRequest{
		Username:        username,
		Password:        "Secret99x",
		ConfirmPassword: "Secret99x",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterFirstUserBecomesApprovedAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	first := register(t, svc, "owner")
	assert.Equal(t, RoleAdmin, first.Role)
	assert.True(t, first.IsApproved)
	assert.NotNil(t, first.ApprovedAt)

	second := register(t, svc, "cashier1")
	assert.Equal(t, RoleCashier, second.Role)
	assert.False(t, second.IsApproved)
}

func TestRegisterMultipleAccountsWithoutEmail(t *testing.T) {
	svc, db := newTestService(t)

	// Email is optional; accounts registered without one must not
	// collide on the unique email index
	register(t, svc, "owner")
	register(t, svc, "cashier1")
	register(t, svc, "cashier2")

	var count int64
	db.Model(&User{}).Where("email IS NULL").Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Register(&RegisterRequest{
		Username:        "owner",
		Email:           " Owner@Example.COM ",
		Password:        "Secret99x",
		ConfirmPassword: "Secret99x",
	})
	require.NoError(t, err)
	require.NotNil(t, u.Email)
	assert.Equal(t, "owner@example.com", *u.Email)

	_, err = svc.Register(&RegisterRequest{
		Username:        "cashier1",
		Email:           "owner@example.com",
		Password:        "Secret99x",
		ConfirmPassword: "Secret99x",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email is already registered")
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "owner")

	_, err := svc.Register(&RegisterRequest{
		Username:        "Owner", // usernames are case-insensitive
		Password:        "Secret99x",
		ConfirmPassword: "Secret99x",
	})
	assert.Error(t, err)
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(&RegisterRequest{
		Username:        "owner",
		Password:        "Secret99x",
		ConfirmPassword: "Different99x",
	})
	assert.Error(t, err)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(&RegisterRequest{
		Username:        "owner",
		Password:        "short",
		ConfirmPassword: "short",
	})
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "owner")

	resp, err := svc.Login(&LoginRequest{Username: "owner", Password: "Secret99x"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "owner", resp.User.Username)
	assert.Empty(t, resp.User.Password)
	assert.NotNil(t, resp.User.LastLoginAt)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "owner")

	_, err := svc.Login(&LoginRequest{Username: "owner", Password: "WrongPass9"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(&LoginRequest{Username: "ghost", Password: "Secret99x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnapprovedUserRejected(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "owner")
	register(t, svc, "cashier1")

	_, err := svc.Login(&LoginRequest{Username: "cashier1", Password: "Secret99x"})
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestApproveUser(t *testing.T) {
	svc, db := newTestService(t)
	admin := register(t, svc, "owner")
	pending := register(t, svc, "cashier1")

	approved, err := svc.ApproveUser(pending.ID, admin.ID, admin.Username)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, admin.ID, *approved.ApprovedBy)

	// Approval is recorded in the audit trail
	var entry audit.Log
	require.NoError(t, db.Where("action = ?", audit.ActionUserApproved).First(&entry).Error)
	assert.Equal(t, "owner", entry.Username)

	// Newly approved account can log in
	_, err = svc.Login(&LoginRequest{Username: "cashier1", Password: "Secret99x"})
	assert.NoError(t, err)
}

func TestGetPendingUsers(t *testing.T) {
	svc, _ := newTestService(t)
	admin := register(t, svc, "owner")
	register(t, svc, "cashier1")
	register(t, svc, "cashier2")

	pending, err := svc.GetPendingUsers()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, u := range pending {
		assert.NotEqual(t, admin.ID, u.ID)
		assert.Empty(t, u.Password)
	}
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "owner")

	resp, err := svc.Login(&LoginRequest{Username: "owner", Password: "Secret99x"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// Access tokens are not accepted on the refresh path
	_, err = svc.RefreshToken(resp.AccessToken)
	assert.Error(t, err)
}
