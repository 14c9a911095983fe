package booking

import (
	"context"
	"fmt"
	"time"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
	"github.com/slotwise/scheduler-api/internal/httperr"
	"github.com/slotwise/scheduler-api/internal/models"
	"github.com/slotwise/scheduler-api/internal/notification"
	"github.com/slotwise/scheduler-api/internal/timezone"
)

const (
	ActionConfirm  = "confirm"
	ActionCancel   = "cancel"
	ActionComplete = "complete"
)

type TransitionInput struct {
	BusinessID uint
	BookingID  uint
	Action     string
	Actor      string // business | customer
}

// Transition drives the booking state machine. Customers may only
// cancel; every other action belongs to the business.
type Transition struct {
	repo        domain.Repository
	emitter     notification.Emitter
	invalidator Invalidator

	now func() time.Time
}

func NewTransition(
	repo domain.Repository,
	emitter notification.Emitter,
	invalidator Invalidator,
) *Transition {
	return &Transition{
		repo:        repo,
		emitter:     emitter,
		invalidator: invalidator,
		now:         time.Now,
	}
}

func (uc *Transition) WithClock(now func() time.Time) *Transition {
	uc.now = now
	return uc
}

func (uc *Transition) Execute(
	ctx context.Context,
	in TransitionInput,
) (*models.Booking, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	b, err := uc.repo.GetBooking(ctx, in.BusinessID, in.BookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if in.Actor == domain.ActorCustomer && in.Action != ActionCancel {
		return nil, httperr.ErrBusiness("not_allowed")
	}

	loc := timezone.Location(biz.Timezone)
	now := uc.now().In(loc)

	// The write below is conditioned on this status, so a transition
	// validated against a stale read loses instead of clobbering a
	// concurrent one.
	prev := domain.Status(b.Status)

	switch in.Action {
	case ActionConfirm:
		err = domain.Confirm(b, now)
	case ActionCancel:
		err = domain.Cancel(b, in.Actor, now)
	case ActionComplete:
		err = domain.Complete(b, now)
	default:
		return nil, httperr.ErrBusiness("invalid_action")
	}
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBookingStatus(ctx, b, string(prev)); err != nil {
		return nil, err
	}

	invalidateFor(ctx, uc.invalidator, b, loc)
	uc.emitIntents(biz, b, in.Action, in.Actor)

	return b, nil
}

// Notification dispatch is fire-and-forget: a delivery failure never
// rolls back the transition that produced it.
func (uc *Transition) emitIntents(biz *models.Business, b *models.Booking, action, actor string) {
	base := notification.Intent{
		BusinessID:  b.BusinessID,
		BookingID:   &b.ID,
		ClientName:  b.Client.Name,
		ClientEmail: b.ClientEmail,
		ClientPhone: b.Client.Phone,
	}

	switch action {
	case ActionConfirm:
		in := base
		in.Type = notification.TypeBookingConfirmed
		in.Recipient = notification.RecipientCustomer
		uc.emitter.Emit(in)

	case ActionCancel:
		for _, rcpt := range []notification.Recipient{
			notification.RecipientBusiness,
			notification.RecipientCustomer,
		} {
			in := base
			in.Type = notification.TypeBookingCancelled
			in.Recipient = rcpt
			in.CancelledBy = actor
			uc.emitter.Emit(in)
		}

	case ActionComplete:
		in := base
		in.Type = notification.TypeBookingCompleted
		in.Recipient = notification.RecipientCustomer
		in.ReviewLink = fmt.Sprintf("/api/public/%s/bookings/%s/review", biz.Slug, b.Reference)
		uc.emitter.Emit(in)
	}
}
