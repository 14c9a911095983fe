package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
	"github.com/slotwise/scheduler-api/internal/httperr"
	"github.com/slotwise/scheduler-api/internal/models"
	"github.com/slotwise/scheduler-api/internal/notification"
)

func TestCreate_HappyPath(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	b, err := fx.create.Execute(ctx, validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), b.Status)
	assert.NotEmpty(t, b.Reference)
	assert.Equal(t, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), b.StartTime)
	assert.Equal(t, time.Date(2026, 3, 3, 11, 0, 0, 0, time.UTC), b.EndTime)
	assert.Equal(t, 40.0, b.Amount)
	assert.Equal(t, "unpaid", b.PaymentStatus)
	assert.Equal(t, "online", b.Source)
	assert.Equal(t, 0, b.RescheduleCount)

	require.Len(t, fx.emitter.intents, 1)
	in := fx.emitter.intents[0]
	assert.Equal(t, notification.TypeNewBooking, in.Type)
	assert.Equal(t, notification.RecipientBusiness, in.Recipient)
	assert.Equal(t, "dana@example.com", in.ClientEmail)
}

func TestCreate_RejectsDuplicateActiveBooking(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	first, err := fx.create.Execute(ctx, validCreateInput())
	require.NoError(t, err)

	// Same client, same service, different time.
	in := validCreateInput()
	in.Time = "14:00"
	_, err = fx.create.Execute(ctx, in)

	var dup *domain.DuplicateActiveBookingError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ID, dup.BookingID)
	assert.Equal(t, first.Reference, dup.Reference)
}

func TestCreate_AllowedAgainAfterCancel(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	first, err := fx.create.Execute(ctx, validCreateInput())
	require.NoError(t, err)

	_, err = fx.transition.Execute(ctx, TransitionInput{
		BusinessID: 1,
		BookingID:  first.ID,
		Action:     ActionCancel,
		Actor:      domain.ActorCustomer,
	})
	require.NoError(t, err)

	in := validCreateInput()
	in.Time = "14:00"
	second, err := fx.create.Execute(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreate_RejectsOverlappingStaffInterval(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	first, err := fx.create.Execute(ctx, validCreateInput())
	require.NoError(t, err)

	// Different client, same staff, straddling interval.
	in := validCreateInput()
	in.ClientEmail = "eli@example.com"
	in.ClientName = "Eli"
	in.Time = "10:30"
	_, err = fx.create.Execute(ctx, in)

	var taken *domain.SlotTakenError
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, first.ID, taken.BookingID)
}

func TestCreate_BackToBackIsNotAConflict(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.create.Execute(ctx, validCreateInput())
	require.NoError(t, err)

	// Starts exactly where the first one ends.
	in := validCreateInput()
	in.ClientEmail = "eli@example.com"
	in.ClientName = "Eli"
	in.Time = "11:00"
	_, err = fx.create.Execute(ctx, in)
	require.NoError(t, err)
}

func TestCreate_ConcurrentSameSlotOnlyOneWins(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	// Both writers passed the advisory checks; the store constraint
	// decides. Simulated by writing directly against the repo.
	staffID := uint(7)
	start := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)

	mk := func(ref, email string) *domain.SlotTakenError {
		err := fx.repo.CreateBooking(ctx, bookingRow(ref, email, staffID, start))
		if err == nil {
			return nil
		}
		var taken *domain.SlotTakenError
		require.ErrorAs(t, err, &taken)
		return taken
	}

	first := mk("ref-a", "a@example.com")
	second := mk("ref-b", "b@example.com")

	assert.Nil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, start, second.Start)
}

func TestCreate_OutsideWorkingHours(t *testing.T) {
	fx := newFixture()

	in := validCreateInput()
	in.Time = "18:00"
	_, err := fx.create.Execute(context.Background(), in)

	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))
}

func TestCreate_TooSoon(t *testing.T) {
	fx := newFixture()

	// testNow is Monday noon; the lead is 120 minutes.
	in := validCreateInput()
	in.Date = "2026-03-02"
	in.Time = "13:00"
	_, err := fx.create.Execute(context.Background(), in)

	assert.True(t, httperr.IsBusiness(err, "too_soon"))
}

func TestCreate_BeyondHorizon(t *testing.T) {
	fx := newFixture()

	in := validCreateInput()
	in.Date = "2026-06-09" // a Tuesday past the 90-day horizon
	_, err := fx.create.Execute(context.Background(), in)

	assert.True(t, httperr.IsBusiness(err, "beyond_horizon"))
}

func TestCreate_RequiresValidEmail(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	in := validCreateInput()
	in.ClientEmail = ""
	_, err := fx.create.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "invalid_email"))

	in.ClientEmail = "not-an-address"
	_, err = fx.create.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "invalid_email"))
}

func TestCreate_RejectsInactiveService(t *testing.T) {
	fx := newFixture()
	fx.repo.services[3].IsActive = false

	_, err := fx.create.Execute(context.Background(), validCreateInput())
	assert.True(t, httperr.IsBusiness(err, "service_unavailable"))
}

func TestCreate_RejectsInactiveStaff(t *testing.T) {
	fx := newFixture()
	fx.repo.staff[7].IsActive = false

	_, err := fx.create.Execute(context.Background(), validCreateInput())
	assert.True(t, httperr.IsBusiness(err, "staff_unavailable"))
}

func bookingRow(ref, email string, staffID uint, start time.Time) *models.Booking {
	return &models.Booking{
		Reference:   ref,
		BusinessID:  1,
		ServiceID:   3,
		StaffID:     &staffID,
		ClientEmail: email,
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Status:      string(domain.StatusPending),
	}
}
