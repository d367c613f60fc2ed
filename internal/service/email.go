package service

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"property-rental-backend/internal/logger"
)

// mailSender is the part of the SendGrid client the email service uses.
type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type emailService struct {
	client    mailSender
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return newEmailService(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func newEmailService(client mailSender, fromEmail, fromName string) *emailService {
	return &emailService{client: client, fromEmail: fromEmail, fromName: fromName}
}

func (s *emailService) SendNotification(ctx context.Context, email, name, title, message string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(name, email)
	msg := mail.NewSingleEmail(from, title, to, message, notificationHTML(title, message))

	logger.ExternalServiceCall("sendgrid", "Send", "to", email, "subject", title)
	resp, err := s.client.SendWithContext(ctx, msg)
	if err == nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", email)
	if err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}

func notificationHTML(title, message string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">%s</h2>
  <p style="color: #666; line-height: 1.6;">%s</p>
  <hr style="border: none; border-top: 1px solid #eee;">
  <p style="color: #999; font-size: 12px;">This is an automated message from Property Rental System.</p>
</div>`, html.EscapeString(title), html.EscapeString(message))
}

// logEmail stands in for SendGrid when no API key is configured.
type logEmail struct{}

func NewLogEmailService() EmailService { return logEmail{} }

func (logEmail) SendNotification(ctx context.Context, email, name, title, message string) error {
	logger.Info("Notification email would be sent", "to", email, "subject", title)
	return nil
}
