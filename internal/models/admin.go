// internal/models/admin.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

type AdminUser struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	IsActive     bool       `json:"is_active" gorm:"not null"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

func (u *AdminUser) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *AdminUser) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// AuditLog records one administrative mutation.
type AuditLog struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AdminID      *uuid.UUID     `json:"admin_id" gorm:"type:uuid;index"`
	Action       string         `json:"action" gorm:"size:255;not null"`
	ResourceType string         `json:"resource_type" gorm:"size:50;index"`
	ResourceKey  string         `json:"resource_key" gorm:"size:200"`
	Status       int            `json:"status"`
	IPAddress    string         `json:"ip_address" gorm:"size:45"`
	UserAgent    string         `json:"user_agent" gorm:"type:text"`
	RequestBody  datatypes.JSON `json:"request_body" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"created_at" gorm:"index"`
}
