// internal/domain/user/service.go
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/your-org/pos-backend/internal/config"
	"github.com/your-org/pos-backend/internal/domain/audit"
	"github.com/your-org/pos-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a user does not exist.
var ErrNotFound = errors.New("user not found")

// ErrNotApproved is returned when an unapproved account tries to log in.
var ErrNotApproved = errors.New("account pending admin approval")

// ErrInvalidCredentials is returned for a bad username/password pair.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service handles staff account business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	audit           *audit.Service
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, auditSvc *audit.Service) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		audit:           auditSvc,
	}
}

// RegisterRequest represents staff registration data
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LoginRequest represents staff login data
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Register creates a new staff account. The very first account becomes an
// approved admin so the store can bootstrap itself; everyone after that
// waits for approval.
func (s *Service) Register(req *RegisterRequest) (*User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match")
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if len(username) < 3 || len(username) > 50 {
		return nil, fmt.Errorf("username must be between 3 and 50 characters")
	}

	var existing User
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("username is already taken")
	}

	var email *string
	if e := strings.ToLower(strings.TrimSpace(req.Email)); e != "" {
		if err := s.db.Where("email = ?", e).First(&existing).Error; err == nil {
			return nil, fmt.Errorf("email is already registered")
		}
		email = &e
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&User{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}

	u := User{
		Username:   username,
		Email:      email,
		Password:   hashedPassword,
		Role:       RoleCashier,
		IsApproved: false,
	}
	if count == 0 {
		u.Role = RoleAdmin
		u.IsApproved = true
		now := time.Now().UTC()
		u.ApprovedAt = &now
	}

	if err := s.db.Create(&u).Error; err != nil {
		// Two concurrent registrations can slip past the pre-checks
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("username or email is already registered")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	u.Password = ""
	return &u, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// Login authenticates a staff account and issues tokens
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))

	var u User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !u.CanLogin() {
		return nil, ErrNotApproved
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	u.LastLoginAt = &now
	s.db.Model(&u).UpdateColumn("last_login_at", now)

	u.Password = ""
	return &AuthResponse{
		User:         &u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new access token
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	u, err := s.GetUser(claims.UserID)
	if err != nil {
		return nil, err
	}
	if !u.CanLogin() {
		return nil, ErrNotApproved
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		User:        u,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// GetUser retrieves a single user by ID
func (s *Service) GetUser(id uint) (*User, error) {
	var u User
	if err := s.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	u.Password = ""
	return &u, nil
}

// GetPendingUsers lists accounts waiting for approval
func (s *Service) GetPendingUsers() ([]User, error) {
	var users []User
	if err := s.db.Where("is_approved = ?", false).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve pending users: %w", err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// ApproveUser marks an account as approved. Only admins reach this through
// the router, but the approver id is recorded either way.
func (s *Service) ApproveUser(id uint, approverID uint, approverName string) (*User, error) {
	u, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if u.IsApproved {
		return u, nil
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"is_approved": true,
		"approved_by": approverID,
		"approved_at": now,
	}
	if err := s.db.Model(&User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to approve user: %w", err)
	}

	s.audit.Record(audit.ActionUserApproved, &approverID, approverName, map[string]interface{}{
		"approved_user_id": id,
		"approved_username": u.Username,
	})

	return s.GetUser(id)
}
