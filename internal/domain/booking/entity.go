package booking

import (
	"time"

	"github.com/slotwise/scheduler-api/internal/models"
)

// ===============================
// Domain actions
// ===============================

func Confirm(b *models.Booking, now time.Time) error {
	if err := CanTransition(Status(b.Status), StatusConfirmed); err != nil {
		return err
	}

	b.Status = string(StatusConfirmed)
	b.ConfirmedAt = &now
	b.UpdatedBy = ActorBusiness
	return nil
}

// Cancel is legal from pending and confirmed; cancelledBy records which
// party asked for it. Rows are never deleted.
func Cancel(b *models.Booking, cancelledBy string, now time.Time) error {
	if err := CanTransition(Status(b.Status), StatusCancelled); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	b.CancelledBy = &cancelledBy
	b.UpdatedBy = cancelledBy
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanTransition(Status(b.Status), StatusCompleted); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	b.UpdatedBy = ActorBusiness
	return nil
}

// Reschedule mutates the interval in memory. Legal only while pending
// and only once per booking; the store enforces the same condition
// atomically on write, this check just fails early.
func Reschedule(b *models.Booking, newStart time.Time, duration time.Duration, actor string) error {
	if Status(b.Status) != StatusPending {
		return &InvalidTransitionError{From: Status(b.Status), To: StatusPending}
	}
	if b.RescheduleCount > 0 {
		return &AlreadyRescheduledError{BookingID: b.ID}
	}

	b.StartTime = newStart
	b.EndTime = newStart.Add(duration)
	b.Status = string(StatusPending)
	b.RescheduleCount++
	b.UpdatedBy = actor
	return nil
}
