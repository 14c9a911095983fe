package booking

import (
	"context"
	"time"

	"github.com/slotwise/scheduler-api/internal/models"
)

// Repository is the schedule store seen by the engine. Every method is
// bounded by the store timeout; a deadline surfaces as
// ErrStoreUnavailable, never as an empty result.
type Repository interface {
	// -------- Business --------
	GetBusinessByID(ctx context.Context, id uint) (*models.Business, error)

	GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error)

	// -------- Service / Staff --------
	GetService(ctx context.Context, businessID, serviceID uint) (*models.Service, error)

	GetStaff(ctx context.Context, businessID, staffID uint) (*models.Staff, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		businessID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Availability inputs --------
	ListShiftTemplates(ctx context.Context, staffID uint, weekday int) ([]models.ShiftTemplate, error)

	// HasTimeOff reports whether any time-off period covers the date.
	HasTimeOff(ctx context.Context, staffID uint, date time.Time) (bool, error)

	// GetOverride returns nil when no override exists for the date.
	GetOverride(ctx context.Context, staffID uint, date time.Time) (*models.AvailabilityOverride, error)

	ListActiveBookingsForDay(
		ctx context.Context,
		staffID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Booking, error)

	// -------- Conflict checks --------
	FindActiveByClientService(ctx context.Context, serviceID uint, email string) (*models.Booking, error)

	FindOverlapping(
		ctx context.Context,
		staffID uint,
		start time.Time,
		end time.Time,
		excludeBookingID uint,
	) (*models.Booking, error)

	// -------- Booking writes --------
	CreateBooking(ctx context.Context, b *models.Booking) error

	GetBooking(ctx context.Context, businessID, id uint) (*models.Booking, error)

	GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error)

	// UpdateBookingStatus persists a state transition conditioned on the
	// status the caller read; a concurrent transition makes the condition
	// fail with InvalidTransitionError, so terminal states stay terminal.
	UpdateBookingStatus(ctx context.Context, b *models.Booking, expectedStatus string) error

	// UpdateBookingTime applies a reschedule conditioned on the status and
	// reschedule count read by the caller; a concurrent writer makes the
	// condition fail with AlreadyRescheduledError.
	UpdateBookingTime(
		ctx context.Context,
		id uint,
		start time.Time,
		end time.Time,
		expectedCount int,
		updatedBy string,
	) (*models.Booking, error)
}
