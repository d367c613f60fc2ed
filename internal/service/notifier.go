package service

import (
	"context"
	"fmt"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/logger"
	"property-rental-backend/internal/repository"
)

const (
	titleNewRequest       = "New Rental Request"
	titleRequestApproved  = "Rental Request Approved"
	titlePropertyRented   = "Property Rented"
	titleRequestRejected  = "Rental Request Rejected"
	titleAgreementCreated = "Rental Agreement Created"
	titleAgreementEnded   = "Rental Agreement Ended"
	titleRentalEnded      = "Rental Ended"
)

type recordingNotifier struct {
	noteRepo repository.NotificationRepository
}

// NewNotifier returns a Notifier that stores notifications as unread rows.
// Outbound delivery happens later in the delivery job.
func NewNotifier(noteRepo repository.NotificationRepository) Notifier {
	return &recordingNotifier{noteRepo: noteRepo}
}

func (n *recordingNotifier) Notify(ctx context.Context, recipientID int32, title, message string) error {
	return n.noteRepo.Create(ctx, &domain.Notification{UserID: recipientID, Title: title, Message: message})
}

// notifyBestEffort logs and swallows notification failures.
func notifyBestEffort(ctx context.Context, n Notifier, recipientID int32, title, message string) {
	if err := n.Notify(ctx, recipientID, title, message); err != nil {
		logger.Warn("Failed to record notification", "recipientID", recipientID, "title", title, "error", err)
	}
}

func newRequestMessage(tenant *domain.User, p *domain.Property) string {
	return fmt.Sprintf("Tenant %s (@%s) requested rental for property: %s", tenant.Name, tenant.Username, p.Label())
}

func approvedMessage(p *domain.Property) string {
	return fmt.Sprintf("Your rental request for property \"%s\" has been approved. A rental agreement has been created.", p.Label())
}

func rentedMessage(p *domain.Property) string {
	return fmt.Sprintf("Your property \"%s\" has been rented out.", p.Label())
}

func rejectedMessage(p *domain.Property, reason string) string {
	if reason != "" {
		return fmt.Sprintf("Your rental request for property \"%s\" has been rejected. Reason: %s", p.Label(), reason)
	}
	return fmt.Sprintf("Your rental request for property \"%s\" has been rejected.", p.Label())
}

func agreementCreatedMessage(p *domain.Property, start string) string {
	return fmt.Sprintf("A rental agreement has been created for property \"%s\" starting from %s.", p.Label(), start)
}

func agreementEndedMessage(p *domain.Property, end string) string {
	return fmt.Sprintf("Your rental agreement for property \"%s\" has ended on %s.", p.Label(), end)
}

func rentalEndedMessage(p *domain.Property, end string) string {
	return fmt.Sprintf("The rental for your property \"%s\" has ended on %s.", p.Label(), end)
}
