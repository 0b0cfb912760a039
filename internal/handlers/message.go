package handlers

import (
	"io"
	"log"
	"net/http"
	"time"

	"sipsafe/internal/auth"
	"sipsafe/internal/database"
	"sipsafe/internal/messaging"
	"sipsafe/internal/metrics"
	"sipsafe/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// displayNameLookup resolves a sender ID to their display name from the
// users table. Missing accounts surface as an error so the resolver can
// substitute its default.
func displayNameLookup(db *gorm.DB) messaging.NameLookupFunc {
	return func(userID string) (string, error) {
		var user models.User
		if err := db.Select("display_name").Where("id = ?", userID).First(&user).Error; err != nil {
			return "", err
		}
		return user.DisplayName, nil
	}
}

// loadGroupMessages fetches a group's messages ordered by creation time
// and resolves each sender's display name.
func loadGroupMessages(db *gorm.DB, groupID string) ([]models.MessageWithSender, error) {
	var messages []models.Message
	if err := db.Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messaging.ResolveSenderNames(messages, displayNameLookup(db)), nil
}

// GetGroupMessages handles a one-shot fetch of a group's messages with
// sender display names resolved
func GetGroupMessages(c *gin.Context) {
	groupID := c.Param("group_id")
	requester := auth.GetUserIDFromContext(c)

	db := database.GetDB()
	group := getGroupForMember(c, db, groupID, requester)
	if group == nil {
		return
	}

	messages, err := loadGroupMessages(db, groupID)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch messages", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}

// SendGroupMessage handles sending a message to a group
func SendGroupMessage(c *gin.Context) {
	groupID := c.Param("group_id")
	requester := auth.GetUserIDFromContext(c)

	var request models.SendMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handleError(c, http.StatusBadRequest, "Message cannot be empty", err)
		return
	}

	db := database.GetDB()
	group := getGroupForMember(c, db, groupID, requester)
	if group == nil {
		return
	}

	message := models.Message{
		GroupID:  groupID,
		SenderID: requester,
		Content:  request.Content,
	}

	if err := db.Create(&message).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to send message", err)
		return
	}

	metrics.MessagesSent.Inc()

	// Wake up live subscriptions for this group
	messaging.Notify(groupID)

	c.JSON(http.StatusCreated, gin.H{
		"message": message,
		"success": true,
	})
}

// StreamGroupMessages holds an SSE connection open and re-delivers the
// full ordered message list whenever the group's messages change. The
// subscription is released when the client disconnects.
func StreamGroupMessages(c *gin.Context) {
	groupID := c.Param("group_id")
	requester := auth.GetUserIDFromContext(c)

	db := database.GetDB()
	group := getGroupForMember(c, db, groupID, requester)
	if group == nil {
		return
	}

	notify, cancel := messaging.Subscribe(groupID)
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	// Keepalives let dead connections be detected between messages
	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	sendSnapshot := func() bool {
		messages, err := loadGroupMessages(db, groupID)
		if err != nil {
			log.Printf("Error: Failed to load messages for stream on group %s: %v", groupID, err)
			return false
		}
		c.SSEvent("messages", gin.H{
			"messages": messages,
			"count":    len(messages),
		})
		return true
	}

	// Initial snapshot before any change arrives
	if !sendSnapshot() {
		return
	}
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case <-notify:
			return sendSnapshot()
		case <-keepalive.C:
			c.SSEvent("keepalive", time.Now().Unix())
			return true
		}
	})
}
