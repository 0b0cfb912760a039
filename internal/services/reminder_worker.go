package services

import (
	"log"
	"time"

	"sipsafe/internal/database"
	"sipsafe/internal/metrics"
	"sipsafe/internal/models"

	"gorm.io/gorm"
)

// ReminderWorker polls for due check-in reminders and delivers them by
// email. It is the server-side replacement for the phone's local
// notification service: a pending reminder fires once and is then marked
// sent or failed.
type ReminderWorker struct {
	db           *gorm.DB
	emailService *EmailService
	interval     time.Duration
}

func NewReminderWorker() *ReminderWorker {
	return &ReminderWorker{
		db:           database.GetDB(),
		emailService: NewEmailService(),
		interval:     time.Second * 30,
	}
}

func (w *ReminderWorker) Start() {
	go w.run()
}

func (w *ReminderWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for range ticker.C {
		w.dispatchDueReminders()
	}
}

func (w *ReminderWorker) dispatchDueReminders() {
	now := time.Now()

	var due []models.Reminder
	if err := w.db.Where("status = ? AND fire_at <= ?", models.ReminderPending, now).Find(&due).Error; err != nil {
		log.Printf("Error: Failed to poll due reminders: %v", err)
		return
	}

	for _, reminder := range due {
		w.dispatch(reminder)
	}
}

func (w *ReminderWorker) dispatch(reminder models.Reminder) {
	var user models.User
	if err := w.db.Where("id = ?", reminder.UserID).First(&user).Error; err != nil {
		log.Printf("Error: Owner of reminder %s not found: %v", reminder.ID, err)
		w.markStatus(reminder, models.ReminderFailed)
		return
	}

	// The owner opted out after scheduling; drop the reminder silently.
	if !user.NotifyByEmail {
		log.Printf("Reminder %s skipped: notifications disabled for user %s", reminder.ID, user.ID)
		w.markStatus(reminder, models.ReminderCancelled)
		return
	}

	if err := w.emailService.SendCheckInReminder(user, reminder); err != nil {
		log.Printf("Error: Failed to deliver reminder %s to %s: %v", reminder.ID, user.Email, err)
		w.markStatus(reminder, models.ReminderFailed)
		return
	}

	w.markStatus(reminder, models.ReminderSent)
	log.Printf("Delivered reminder %s to %s (scheduled for %s)", reminder.ID, user.Email, reminder.FireAt.Format(time.RFC3339))
}

func (w *ReminderWorker) markStatus(reminder models.Reminder, status string) {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if err := w.db.Model(&models.Reminder{}).Where("id = ?", reminder.ID).Updates(updates).Error; err != nil {
		log.Printf("Error: Failed to mark reminder %s as %s: %v", reminder.ID, status, err)
		return
	}
	metrics.RemindersDispatched.WithLabelValues(status).Inc()
}
