package booking

import (
	"context"
	"time"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
	"github.com/slotwise/scheduler-api/internal/httperr"
	"github.com/slotwise/scheduler-api/internal/models"
	"github.com/slotwise/scheduler-api/internal/notification"
	"github.com/slotwise/scheduler-api/internal/timezone"
	"github.com/slotwise/scheduler-api/internal/usecase/availability"
)

type RescheduleInput struct {
	BusinessID uint
	BookingID  uint

	Date string // YYYY-MM-DD
	Time string // HH:mm

	Actor string
}

// Reschedule moves a pending booking exactly once. The count lives on
// the row and the update is conditioned on it, so concurrent attempts
// cannot both land and no timestamp guessing is involved.
type Reschedule struct {
	repo        domain.Repository
	avail       *availability.GetAvailability
	guard       *ConflictGuard
	emitter     notification.Emitter
	invalidator Invalidator

	minLeadMinutes int
	horizonDays    int

	now func() time.Time
}

func NewReschedule(
	repo domain.Repository,
	avail *availability.GetAvailability,
	guard *ConflictGuard,
	emitter notification.Emitter,
	invalidator Invalidator,
	minLeadMinutes int,
	horizonDays int,
) *Reschedule {
	return &Reschedule{
		repo:           repo,
		avail:          avail,
		guard:          guard,
		emitter:        emitter,
		invalidator:    invalidator,
		minLeadMinutes: minLeadMinutes,
		horizonDays:    horizonDays,
		now:            time.Now,
	}
}

func (uc *Reschedule) WithClock(now func() time.Time) *Reschedule {
	uc.now = now
	return uc
}

func (uc *Reschedule) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Booking, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	b, err := uc.repo.GetBooking(ctx, in.BusinessID, in.BookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	svc, err := uc.repo.GetService(ctx, in.BusinessID, b.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if svc.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	loc := timezone.Location(biz.Timezone)

	newStart, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	actor := in.Actor
	if actor == "" {
		actor = domain.ActorCustomer
	}

	oldStart := b.StartTime
	prevCount := b.RescheduleCount

	// Apply the move in memory first; this rejects non-pending and
	// already-moved bookings before any store or calendar work.
	if err := domain.Reschedule(b, newStart, time.Duration(svc.DurationMin)*time.Minute, actor); err != nil {
		return nil, err
	}
	newEnd := b.EndTime

	now := uc.now().In(loc)
	if err := checkLeadAndHorizon(biz, newStart, now, uc.minLeadMinutes, uc.horizonDays); err != nil {
		return nil, err
	}

	if b.StaffID != nil {
		ok, err := uc.avail.WithinWindows(ctx, in.BusinessID, *b.StaffID, newStart, newEnd)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, httperr.ErrBusiness("outside_working_hours")
		}
	}

	// The booking being moved must not collide with itself.
	if err := uc.guard.Check(ctx, b.ServiceID, b.ClientEmail, b.StaffID, newStart, newEnd, b.ID); err != nil {
		return nil, err
	}

	updated, err := uc.repo.UpdateBookingTime(
		ctx,
		b.ID,
		newStart,
		newEnd,
		prevCount,
		actor,
	)
	if err != nil {
		return nil, err
	}

	if uc.invalidator != nil && b.StaffID != nil {
		uc.invalidator.Invalidate(ctx, *b.StaffID, oldStart.In(loc).Format("2006-01-02"))
		uc.invalidator.Invalidate(ctx, *b.StaffID, newStart.Format("2006-01-02"))
	}

	uc.emitter.Emit(notification.Intent{
		Type:        notification.TypeBookingRescheduled,
		Recipient:   notification.RecipientBusiness,
		BusinessID:  in.BusinessID,
		BookingID:   &updated.ID,
		ClientName:  updated.Client.Name,
		ClientEmail: updated.ClientEmail,
		NewStart:    &newStart,
	})

	return updated, nil
}
