package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account in the system
type User struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Email       string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	DisplayName string         `gorm:"size:100;not null" json:"display_name"`
	HashedPass  string         `gorm:"size:255;not null" json:"-"`
	AvatarURL   string         `gorm:"size:512" json:"avatar_url,omitempty"`
	// NotifyByEmail is the server-side stand-in for a notification
	// permission grant: reminders are only delivered while it is true.
	NotifyByEmail bool           `gorm:"not null;default:true" json:"notify_by_email"`
	TokenVersion  int            `gorm:"not null;default:0" json:"-"`
	LastLogin     time.Time      `gorm:"not null" json:"last_login"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook is called before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	if u.LastLogin.IsZero() {
		u.LastLogin = now
	}
	return nil
}

// BeforeSave hook is called before saving the user
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// SignupRequest represents the data needed to register a new user
type SignupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=100"`
	Password    string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents the data needed for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// NotificationPrefsRequest toggles reminder delivery for the account
type NotificationPrefsRequest struct {
	NotifyByEmail *bool `json:"notify_by_email" binding:"required"`
}
