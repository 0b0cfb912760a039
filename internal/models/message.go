package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message represents a chat message in a group. Messages are immutable
// once created.
type Message struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	GroupID   string    `gorm:"size:36;not null;index:idx_messages_group_created" json:"group_id"`
	SenderID  string    `gorm:"size:36;not null;index" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;index:idx_messages_group_created" json:"created_at"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID" json:"-"`
}

// BeforeCreate hook is called before creating a new message
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// MessageWithSender is a message enriched with the sender's resolved
// display name. The name is looked up at read time, never stored.
type MessageWithSender struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"group_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// SendMessageRequest represents the data needed to send a message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}
