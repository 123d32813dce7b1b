// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields. Catalog rows are hidden through is_active
// rather than gorm's DeletedAt, so a hard delete stays a real DELETE.
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enums
type ContactSubject string

const (
	ContactSubjectInquiry    ContactSubject = "inquiry"
	ContactSubjectSupport    ContactSubject = "support"
	ContactSubjectComplaint  ContactSubject = "complaint"
	ContactSubjectSuggestion ContactSubject = "suggestion"
	ContactSubjectOrder      ContactSubject = "order"
)

var ContactSubjects = []ContactSubject{
	ContactSubjectInquiry,
	ContactSubjectSupport,
	ContactSubjectComplaint,
	ContactSubjectSuggestion,
	ContactSubjectOrder,
}

// Label is the human readable subject used in notifications.
func (s ContactSubject) Label() string {
	switch s {
	case ContactSubjectInquiry:
		return "Inquiry"
	case ContactSubjectSupport:
		return "Support"
	case ContactSubjectComplaint:
		return "Complaint"
	case ContactSubjectSuggestion:
		return "Suggestion"
	case ContactSubjectOrder:
		return "Order"
	default:
		return string(s)
	}
}
