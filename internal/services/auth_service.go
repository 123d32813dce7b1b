// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lebem/lebem-backend/internal/config"
	"github.com/lebem/lebem-backend/internal/models"
	"github.com/lebem/lebem-backend/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	db  *gorm.DB
	cfg config.JWTConfig
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Admin       *models.AdminUser `json:"admin"`
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	ExpiresIn   int               `json:"expires_in"`
}

func NewAuthService(db *gorm.DB, cfg config.JWTConfig) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var admin models.AdminUser
	if err := db.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if !admin.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := admin.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := db.Model(&admin).UpdateColumn("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	admin.LastLoginAt = &now

	accessToken, err := utils.GenerateJWT(admin.ID, admin.Username, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		Admin:       &admin,
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.cfg.AccessTokenTTL * 3600, // Convert hours to seconds
	}, nil
}

// ActiveAdmin resolves a token subject to an enabled admin account.
func (s *AuthService) ActiveAdmin(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&admin).Error; err != nil {
		return nil, mapStoreError(err, "id")
	}
	return &admin, nil
}
