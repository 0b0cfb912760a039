package services

import (
	"fmt"
	"os"

	"sipsafe/internal/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_NOTIFICATIONS_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	client := sendgrid.NewSendClient(apiKey)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// SendCheckInReminder delivers a fired check-in reminder to its owner
func (s *EmailService) SendCheckInReminder(user models.User, reminder models.Reminder) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(user.DisplayName, user.Email)

	plainContent := reminder.Body
	htmlContent := fmt.Sprintf("<p>%s</p>", reminder.Body)

	message := mail.NewSingleEmail(from, reminder.Title, to, plainContent, htmlContent)
	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send reminder to %s: %d", user.Email, response.StatusCode)
	}

	return nil
}

// SendAddedToGroupEmail notifies a user they were added to a group
func (s *EmailService) SendAddedToGroupEmail(userEmail, userName, groupName string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(userName, userEmail)
	subject := fmt.Sprintf("You've been added to %s", groupName)
	plainContent := fmt.Sprintf("Hello %s, you have been added to the group '%s'.", userName, groupName)
	htmlContent := fmt.Sprintf("<p>Hello %s,</p><p>You have been added to the group '<strong>%s</strong>'.</p>", userName, groupName)

	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)
	_, err := s.client.Send(message)
	return err
}
