package model

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a chat thread between a user and a vendor.
// LastMessage and LastMessageAt are nil until the first message is sent;
// the feed sorts nil timestamps last.
type Conversation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	VendorID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"vendor_id"`
	UserName      string     `gorm:"not null" json:"user_name"`
	VendorName    string     `gorm:"not null" json:"vendor_name"`
	LastMessage   *string    `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at"`
	UnreadCount   int        `gorm:"not null;default:0" json:"unread_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Conversation) TableName() string { return "conversations" }
