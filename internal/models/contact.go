// internal/models/contact.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type ContactMessage struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string         `json:"name" gorm:"size:100;not null"`
	Phone     string         `json:"phone" gorm:"size:20;not null"`
	Email     string         `json:"email,omitempty" gorm:"size:255"`
	Subject   ContactSubject `json:"subject" gorm:"type:varchar(20);not null;index"`
	Message   string         `json:"message" gorm:"type:text;not null"`
	IsRead    bool           `json:"is_read" gorm:"not null;default:false;index"`
	IPAddress string         `json:"ip_address,omitempty" gorm:"size:45;<-:create"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
}
