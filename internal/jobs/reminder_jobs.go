package jobs

import (
	"context"
	"fmt"

	"property-rental-backend/internal/domain"
	"property-rental-backend/internal/logger"
)

const titlePendingReminder = "Pending Rental Requests"

// RemindPendingRequests tells every manager how many requests have been
// waiting for review longer than pending_reminder_after_hours.
func (jr *JobRunner) RemindPendingRequests() {
	jr.runWithRecovery(JobRemindPendingRequests, func(ctx context.Context) {
		log := logger.WithJob(JobRemindPendingRequests)

		cutoff := jr.now().UTC().Add(-jr.config.PendingReminderAfter())
		stale, err := jr.repos.Requests.ListPendingOlderThan(ctx, cutoff)
		if err != nil {
			log.Error("Failed to list pending requests", "error", err)
			return
		}
		if len(stale) == 0 {
			log.Info("No stale pending requests")
			return
		}

		managers, err := jr.repos.Users.ListIDsByRole(ctx, domain.RoleManager)
		if err != nil {
			log.Error("Failed to list managers", "error", err)
			return
		}

		message := pendingReminderMessage(stale, jr.config.Workflow.PendingReminderAfterHours)
		sent := 0
		for _, managerID := range managers {
			if err := jr.services.Notifier.Notify(ctx, managerID, titlePendingReminder, message); err != nil {
				log.Warn("Failed to record reminder", "manager_id", managerID, "error", err)
				continue
			}
			sent++
		}

		log.Info("Pending request reminders recorded", "stale_requests", len(stale), "managers", sent)
	})
}

func pendingReminderMessage(stale []domain.RentalRequest, hours int) string {
	oldest := stale[0]
	for _, req := range stale[1:] {
		if req.RequestDate.Before(oldest.RequestDate) {
			oldest = req
		}
	}
	if len(stale) == 1 {
		return fmt.Sprintf("1 rental request has been pending for more than %d hours (request #%d from %s).",
			hours, oldest.ID, oldest.RequestDate.Format(domain.DateLayout))
	}
	return fmt.Sprintf("%d rental requests have been pending for more than %d hours. The oldest is request #%d from %s.",
		len(stale), hours, oldest.ID, oldest.RequestDate.Format(domain.DateLayout))
}
