package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
	"github.com/slotwise/scheduler-api/internal/httperr"
	"github.com/slotwise/scheduler-api/internal/models"
	"github.com/slotwise/scheduler-api/internal/notification"
	"github.com/slotwise/scheduler-api/internal/timezone"
	"github.com/slotwise/scheduler-api/internal/usecase/availability"
	"github.com/slotwise/scheduler-api/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	BusinessID uint
	ServiceID  uint
	StaffID    *uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Date string // YYYY-MM-DD
	Time string // HH:mm

	Source string // online | manual
	Actor  string
	Notes  string
}

// ======================================================
// USE CASE
// ======================================================

type Create struct {
	repo        domain.Repository
	avail       *availability.GetAvailability
	guard       *ConflictGuard
	emitter     notification.Emitter
	invalidator Invalidator

	minLeadMinutes int
	horizonDays    int

	now func() time.Time
}

func NewCreate(
	repo domain.Repository,
	avail *availability.GetAvailability,
	guard *ConflictGuard,
	emitter notification.Emitter,
	invalidator Invalidator,
	minLeadMinutes int,
	horizonDays int,
) *Create {
	return &Create{
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

func (uc *Create) WithClock(now func() time.Time) *Create {
	uc.now = now
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Create) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.Booking, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(biz.Timezone)

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	if in.ClientEmail == "" || !validators.IsValidAddress(in.ClientEmail) {
		return nil, httperr.ErrBusiness("invalid_email")
	}

	now := uc.now().In(loc)
	if err := checkLeadAndHorizon(biz, start, now, uc.minLeadMinutes, uc.horizonDays); err != nil {
		return nil, err
	}

	svc, err := uc.repo.GetService(ctx, in.BusinessID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if !svc.IsActive {
		return nil, httperr.ErrBusiness("service_unavailable")
	}
	if svc.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	if in.StaffID != nil {
		staff, err := uc.repo.GetStaff(ctx, in.BusinessID, *in.StaffID)
		if err != nil {
			return nil, httperr.ErrBusiness("staff_not_found")
		}
		if !staff.IsActive {
			return nil, httperr.ErrBusiness("staff_unavailable")
		}

		// Re-validated at call time rather than trusting whatever slot
		// list the caller last saw.
		ok, err := uc.avail.WithinWindows(ctx, in.BusinessID, *in.StaffID, start, end)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, httperr.ErrBusiness("outside_working_hours")
		}
	}

	if err := uc.guard.Check(ctx, in.ServiceID, in.ClientEmail, in.StaffID, start, end, 0); err != nil {
		return nil, err
	}

	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.BusinessID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	source := in.Source
	if source == "" {
		source = "online"
	}
	actor := in.Actor
	if actor == "" {
		actor = domain.ActorCustomer
	}

	b := &models.Booking{
		Reference:     uuid.NewString(),
		BusinessID:    in.BusinessID,
		ServiceID:     svc.ID,
		StaffID:       in.StaffID,
		ClientID:      client.ID,
		ClientEmail:   in.ClientEmail,
		StartTime:     start,
		EndTime:       end,
		Status:        string(domain.InitialStatus()),
		Amount:        svc.Price,
		PaymentStatus: "unpaid",
		Source:        source,
		UpdatedBy:     actor,
		Notes:         in.Notes,
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	invalidateFor(ctx, uc.invalidator, b, loc)

	uc.emitter.Emit(notification.Intent{
		Type:        notification.TypeNewBooking,
		Recipient:   notification.RecipientBusiness,
		BusinessID:  in.BusinessID,
		BookingID:   &b.ID,
		ClientName:  in.ClientName,
		ClientEmail: in.ClientEmail,
		ClientPhone: in.ClientPhone,
	})

	return b, nil
}
