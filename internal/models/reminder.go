package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reminder status values
const (
	ReminderPending   = "pending"
	ReminderSent      = "sent"
	ReminderFailed    = "failed"
	ReminderCancelled = "cancelled"
)

// Reminder represents a scheduled check-in notification. It stays pending
// until the dispatch worker fires it or the owner cancels it.
type Reminder struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Body      string    `gorm:"size:255;not null" json:"body"`
	FireAt    time.Time `gorm:"not null;index" json:"fire_at"`
	Status    string    `gorm:"size:10;not null;default:pending;index" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook is called before creating a new reminder
func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = ReminderPending
	}
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = now
	}
	return nil
}

// TableName specifies the table name for the Reminder model
func (Reminder) TableName() string {
	return "reminders"
}

// ScheduleReminderRequest carries the check-in date and the start/end
// time-of-day window the random fire time is drawn from.
type ScheduleReminderRequest struct {
	Date  string `json:"date" binding:"required"`  // "2006-01-02"
	Start string `json:"start" binding:"required"` // "15:04"
	End   string `json:"end" binding:"required"`   // "15:04"
}
