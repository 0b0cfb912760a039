package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Group represents a chat group and its participant set
type Group struct {
	ID             string                      `gorm:"primaryKey;size:36" json:"id"`
	Name           string                      `gorm:"size:100;not null" json:"name"`
	CreatorID      string                      `gorm:"size:36;not null;index" json:"creator_id"`
	ParticipantIDs datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"participant_ids"`
	CreatedAt      time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time                   `gorm:"not null" json:"updated_at"`
}

// BeforeCreate hook is called before creating a new group
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := time.Now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	if g.UpdatedAt.IsZero() {
		g.UpdatedAt = now
	}
	return nil
}

// TableName specifies the table name for the Group model
func (Group) TableName() string {
	return "groups"
}

// UnionIDs returns ids with extra appended, skipping duplicates and empty
// strings. Existing order is preserved; new ids keep their input order.
func UnionIDs(ids []string, extra ...string) []string {
	seen := make(map[string]bool, len(ids)+len(extra))
	result := make([]string, 0, len(ids)+len(extra))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	for _, id := range extra {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}

// RemoveID returns ids without the given id. Removing an absent id
// returns the set unchanged.
func RemoveID(ids []string, id string) []string {
	result := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			result = append(result, existing)
		}
	}
	return result
}

// HasParticipant reports whether the given user belongs to the group
func (g *Group) HasParticipant(userID string) bool {
	for _, id := range g.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AddParticipant adds a user to the participant set. Adding an existing
// participant is a no-op; it reports whether the set changed.
func (g *Group) AddParticipant(userID string) bool {
	if g.HasParticipant(userID) {
		return false
	}
	g.ParticipantIDs = UnionIDs(g.ParticipantIDs, userID)
	return true
}

// RemoveParticipant removes a user from the participant set. Removing an
// absent participant is a no-op; it reports whether the set changed.
func (g *Group) RemoveParticipant(userID string) bool {
	if !g.HasParticipant(userID) {
		return false
	}
	g.ParticipantIDs = RemoveID(g.ParticipantIDs, userID)
	return true
}

// CreateGroupRequest represents the data needed to create a new group
type CreateGroupRequest struct {
	Name           string   `json:"name" binding:"required,min=1,max=100"`
	ParticipantIDs []string `json:"participant_ids"`
}

// AddParticipantRequest adds a user to a group by their email address
type AddParticipantRequest struct {
	Email string `json:"email" binding:"required,email"`
}
