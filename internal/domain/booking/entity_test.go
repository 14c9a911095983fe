package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/scheduler-api/internal/models"
)

func pendingBooking() *models.Booking {
	start := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	return &models.Booking{
		ID:        1,
		Status:    string(StatusPending),
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}
}

func TestConfirm(t *testing.T) {
	now := time.Now()

	b := pendingBooking()
	require.NoError(t, Confirm(b, now))
	assert.Equal(t, string(StatusConfirmed), b.Status)
	require.NotNil(t, b.ConfirmedAt)
	assert.Equal(t, now, *b.ConfirmedAt)
	assert.Equal(t, ActorBusiness, b.UpdatedBy)

	// Already terminal.
	b.Status = string(StatusCompleted)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, Confirm(b, now), &invalid)
}

func TestCancel_RecordsWhoAsked(t *testing.T) {
	now := time.Now()

	b := pendingBooking()
	require.NoError(t, Cancel(b, ActorCustomer, now))
	assert.Equal(t, string(StatusCancelled), b.Status)
	require.NotNil(t, b.CancelledBy)
	assert.Equal(t, ActorCustomer, *b.CancelledBy)
	assert.Equal(t, ActorCustomer, b.UpdatedBy)
	require.NotNil(t, b.CancelledAt)

	// Cancelling twice is an invalid edge.
	var invalid *InvalidTransitionError
	require.ErrorAs(t, Cancel(b, ActorBusiness, now), &invalid)
}

func TestCancel_FromConfirmed(t *testing.T) {
	b := pendingBooking()
	b.Status = string(StatusConfirmed)

	require.NoError(t, Cancel(b, ActorBusiness, time.Now()))
	assert.Equal(t, string(StatusCancelled), b.Status)
}

func TestComplete_RequiresConfirmed(t *testing.T) {
	now := time.Now()

	b := pendingBooking()
	var invalid *InvalidTransitionError
	require.ErrorAs(t, Complete(b, now), &invalid)

	b.Status = string(StatusConfirmed)
	require.NoError(t, Complete(b, now))
	assert.Equal(t, string(StatusCompleted), b.Status)
	require.NotNil(t, b.CompletedAt)
}

func TestReschedule_OnlyOnceWhilePending(t *testing.T) {
	b := pendingBooking()
	newStart := b.StartTime.Add(2 * time.Hour)

	require.NoError(t, Reschedule(b, newStart, time.Hour, ActorCustomer))
	assert.Equal(t, newStart, b.StartTime)
	assert.Equal(t, newStart.Add(time.Hour), b.EndTime)
	assert.Equal(t, string(StatusPending), b.Status)
	assert.Equal(t, 1, b.RescheduleCount)
	assert.Equal(t, ActorCustomer, b.UpdatedBy)

	var already *AlreadyRescheduledError
	require.ErrorAs(t, Reschedule(b, newStart.Add(time.Hour), time.Hour, ActorCustomer), &already)
	assert.Equal(t, b.ID, already.BookingID)
}

func TestReschedule_RejectsNonPending(t *testing.T) {
	b := pendingBooking()
	b.Status = string(StatusConfirmed)

	var invalid *InvalidTransitionError
	require.ErrorAs(t, Reschedule(b, b.StartTime.Add(time.Hour), time.Hour, ActorBusiness), &invalid)
	assert.Equal(t, 0, b.RescheduleCount)
}
