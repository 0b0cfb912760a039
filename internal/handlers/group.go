package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"sipsafe/internal/auth"
	"sipsafe/internal/database"
	"sipsafe/internal/metrics"
	"sipsafe/internal/models"
	"sipsafe/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateGroup handles the creation of a new group. The creator is always
// part of the participant set and duplicates in the request are dropped.
func CreateGroup(c *gin.Context) {
	var request models.CreateGroupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Group name is required", err)
		return
	}

	creatorID := auth.GetUserIDFromContext(c)
	if creatorID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	group := models.Group{
		Name:           request.Name,
		CreatorID:      creatorID,
		ParticipantIDs: models.UnionIDs(request.ParticipantIDs, creatorID),
	}

	db := database.GetDB()
	if err := db.Create(&group).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create group", err)
		return
	}

	metrics.GroupsCreated.Inc()

	// The write is confirmed before responding; the client shows success
	// only once the group actually exists.
	c.JSON(http.StatusCreated, group)
}

// GetGroups lists all groups the authenticated user participates in
func GetGroups(c *gin.Context) {
	userID := auth.GetUserIDFromContext(c)

	member, err := json.Marshal([]string{userID})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch groups", err)
		return
	}

	db := database.GetDB()
	// Initialized so a user with no groups serializes as an empty array
	groups := []models.Group{}
	if err := db.Where("participant_ids @> ?::jsonb", string(member)).Find(&groups).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch groups", err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// getGroupForMember loads a group and verifies the requester belongs to
// it. It writes the error response itself and returns nil on failure.
func getGroupForMember(c *gin.Context, db *gorm.DB, groupID, userID string) *models.Group {
	var group models.Group
	if err := db.Where("id = ?", groupID).First(&group).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			handleError(c, http.StatusNotFound, "Group not found", err)
		} else {
			handleError(c, http.StatusInternalServerError, "Failed to fetch group", err)
		}
		return nil
	}

	if !group.HasParticipant(userID) {
		log.Printf("Error: User %s is not a participant of group %s", userID, groupID)
		c.JSON(http.StatusForbidden, gin.H{"error": "Not a group participant"})
		return nil
	}

	return &group
}

// AddParticipant adds a user to a group, looked up by their email address.
// Adding someone who is already a participant is a no-op.
func AddParticipant(c *gin.Context) {
	groupID := c.Param("group_id")
	requester := auth.GetUserIDFromContext(c)

	var req models.AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Participant email is required", err)
		return
	}

	db := database.GetDB()
	group := getGroupForMember(c, db, groupID, requester)
	if group == nil {
		return
	}

	// Email carries a unique index, so this lookup is unambiguous
	var participant models.User
	if err := db.Where("email = ?", normalizeEmail(req.Email)).First(&participant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			handleError(c, http.StatusNotFound, "No user found with this email", err)
		} else {
			handleError(c, http.StatusInternalServerError, "Failed to look up user", err)
		}
		return
	}

	if !group.AddParticipant(participant.ID) {
		c.JSON(http.StatusOK, gin.H{"message": "Already a participant", "group": group})
		return
	}

	if err := db.Model(group).Update("participant_ids", group.ParticipantIDs).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to add participant", err)
		return
	}

	// Notify the new participant by email; delivery failures only log
	go func(email, name, groupName string) {
		if err := services.NewEmailService().SendAddedToGroupEmail(email, name, groupName); err != nil {
			log.Printf("Warning: Failed to send added-to-group email to %s: %v", email, err)
		}
	}(participant.Email, participant.DisplayName, group.Name)

	c.JSON(http.StatusOK, gin.H{"message": "Participant added", "group": group})
}

// RemoveParticipant removes a user from a group's participant set.
// Removing an identifier that isn't present is a no-op, not an error.
// Users leave a group by removing themselves.
func RemoveParticipant(c *gin.Context) {
	groupID := c.Param("group_id")
	userID := c.Param("user_id")
	requester := auth.GetUserIDFromContext(c)

	db := database.GetDB()
	group := getGroupForMember(c, db, groupID, requester)
	if group == nil {
		return
	}

	if !group.RemoveParticipant(userID) {
		c.JSON(http.StatusOK, gin.H{"message": "Not a participant", "group": group})
		return
	}

	// A group never outlives its last participant. Its messages carry a
	// foreign key to the group row, so they are cleaned up first.
	if len(group.ParticipantIDs) == 0 {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("group_id = ?", group.ID).Delete(&models.Message{}).Error; err != nil {
				return err
			}
			return tx.Delete(group).Error
		})
		if err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to remove participant", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Participant removed; empty group deleted"})
		return
	}

	if err := db.Model(group).Update("participant_ids", group.ParticipantIDs).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to remove participant", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Participant removed", "group": group})
}
