package booking

import (
	"context"
	"time"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
)

// ConflictGuard runs the advisory pre-flight checks before a booking
// write. It catches most conflicts with a friendly error; the storage
// constraints remain the authority under concurrency.
type ConflictGuard struct {
	repo domain.Repository
}

func NewConflictGuard(repo domain.Repository) *ConflictGuard {
	return &ConflictGuard{repo: repo}
}

// Check validates the duplicate-active-booking rule and, when a staff
// member is assigned, the interval-overlap rule. excludeBookingID skips
// the booking being rescheduled so it cannot conflict with itself.
func (g *ConflictGuard) Check(
	ctx context.Context,
	serviceID uint,
	clientEmail string,
	staffID *uint,
	start time.Time,
	end time.Time,
	excludeBookingID uint,
) error {

	if clientEmail != "" {
		existing, err := g.repo.FindActiveByClientService(ctx, serviceID, clientEmail)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != excludeBookingID {
			return &domain.DuplicateActiveBookingError{
				BookingID: existing.ID,
				Reference: existing.Reference,
				Start:     existing.StartTime,
				End:       existing.EndTime,
			}
		}
	}

	if staffID != nil {
		conflict, err := g.repo.FindOverlapping(ctx, *staffID, start, end, excludeBookingID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &domain.SlotTakenError{
				BookingID: conflict.ID,
				Start:     conflict.StartTime,
				End:       conflict.EndTime,
			}
		}
	}

	return nil
}
