package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"sipsafe/internal/auth"
	"sipsafe/internal/database"
	"sipsafe/internal/metrics"
	"sipsafe/internal/models"
	"sipsafe/internal/reminders"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ScheduleReminder picks a random instant inside the requested check-in
// window and stores a pending reminder that fires once at that instant.
// Accounts that opted out of notifications get a success-shaped response
// with nothing scheduled, mirroring how a denied notification permission
// is swallowed on the client.
func ScheduleReminder(c *gin.Context) {
	userID := auth.GetUserIDFromContext(c)

	var req models.ScheduleReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Date, start and end are required", err)
		return
	}

	window, err := reminders.BuildWindow(req.Date, req.Start, req.End, time.Local)
	if err != nil {
		handleError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load account", err)
		return
	}

	if !user.NotifyByEmail {
		log.Printf("Notifications disabled for user %s; check-in not scheduled", userID)
		c.JSON(http.StatusOK, gin.H{
			"message":   "Check-in saved",
			"scheduled": false,
		})
		return
	}

	fireAt := window.RandomInstant(nil)

	reminder := models.Reminder{
		UserID: userID,
		Title:  "Time to Check-In!",
		Body:   fmt.Sprintf("Your check-in is at %s.", fireAt.Format("Jan 2, 2006 at 3:04 PM")),
		FireAt: fireAt,
		Status: models.ReminderPending,
	}

	if err := db.Create(&reminder).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to schedule check-in", err)
		return
	}

	metrics.RemindersScheduled.Inc()
	log.Printf("Scheduled reminder %s for user %s at %s", reminder.ID, userID, fireAt.Format(time.RFC3339))

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Check-in scheduled",
		"scheduled": true,
		"reminder":  reminder,
	})
}

// GetPendingReminders lists the user's not-yet-fired reminders
func GetPendingReminders(c *gin.Context) {
	userID := auth.GetUserIDFromContext(c)

	db := database.GetDB()
	var pending []models.Reminder
	if err := db.Where("user_id = ? AND status = ?", userID, models.ReminderPending).
		Order("fire_at ASC").
		Find(&pending).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to fetch reminders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reminders": pending,
		"count":     len(pending),
	})
}

// CancelReminder cancels one of the user's pending reminders
func CancelReminder(c *gin.Context) {
	userID := auth.GetUserIDFromContext(c)
	reminderID := c.Param("reminder_id")

	db := database.GetDB()
	var reminder models.Reminder
	if err := db.Where("id = ? AND user_id = ? AND status = ?",
		reminderID, userID, models.ReminderPending).First(&reminder).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			handleError(c, http.StatusNotFound, "Pending reminder not found", err)
		} else {
			handleError(c, http.StatusInternalServerError, "Failed to fetch reminder", err)
		}
		return
	}

	if err := db.Model(&reminder).Updates(map[string]interface{}{
		"status":     models.ReminderCancelled,
		"updated_at": time.Now(),
	}).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to cancel reminder", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder cancelled"})
}
