package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
	"github.com/slotwise/scheduler-api/internal/models"
)

const dateLayout = "2006-01-02"

// GormRepository is the postgres-backed schedule store.
type GormRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewGormRepository(db *gorm.DB, timeout time.Duration) *GormRepository {
	return &GormRepository{db: db, timeout: timeout}
}

// --------------------------------------------------
// Business
// --------------------------------------------------

func (r *GormRepository) GetBusinessByID(
	ctx context.Context,
	id uint,
) (*models.Business, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	var biz models.Business
	if err := r.db.WithContext(ctx).First(&biz, id).Error; err != nil {
		return nil, wrap(err)
	}
	return &biz, nil
}

func (r *GormRepository) GetBusinessBySlug(
	ctx context.Context,
	slug string,
) (*models.Business, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	var biz models.Business
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&biz).Error; err != nil {
		return nil, wrap(err)
	}
	return &biz, nil
}

// --------------------------------------------------
// Service / Staff
// --------------------------------------------------

func (r *GormRepository) GetService(
	ctx context.Context,
	businessID uint,
	serviceID uint,
) (*models.Service, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", serviceID, businessID).
		First(&svc).Error; err != nil {
		return nil, wrap(err)
	}
	return &svc, nil
}

func (r *GormRepository) GetStaff(
	ctx context.Context,
	businessID uint,
	staffID uint,
) (*models.Staff, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	var st models.Staff
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", staffID, businessID).
		First(&st).Error; err != nil {
		return nil, wrap(err)
	}
	return &st, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *GormRepository) GetOrCreateClient(
	ctx context.Context,
	businessID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND lower(email) = lower(?)", businessID, email).
		First(&client).Error
	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrap(err)
	}

	client = models.Client{
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Email:      email,
	}
	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, wrap(err)
	}
	return &client, nil
}

// --------------------------------------------------
// Availability inputs
// --------------------------------------------------

func (r *GormRepository) ListShiftTemplates(
	ctx context.Context,
	staffID uint,
	weekday int,
) ([]models.ShiftTemplate, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	var tpls []models.ShiftTemplate
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND weekday = ? AND active = true", staffID, weekday).
		Order("start_time ASC").
		Find(&tpls).Error; err != nil {
		return nil, wrap(err)
	}
	return tpls, nil
}

func (r *GormRepository) HasTimeOff(
	ctx context.Context,
	staffID uint,
	date time.Time,
) (bool, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	day := date.Format(dateLayout)

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TimeOffPeriod{}).
		Where("staff_id = ? AND start_date <= ? AND end_date >= ?", staffID, day, day).
		Count(&count).Error; err != nil {
		return false, wrap(err)
	}
	return count > 0, nil
}

func (r *GormRepository) GetOverride(
	ctx context.Context,
	staffID uint,
	date time.Time,
) (*models.AvailabilityOverride, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	var ov models.AvailabilityOverride
	err := r.db.WithContext(ctx).
		Where("staff_id = ? AND date = ?", staffID, date.Format(dateLayout)).
		First(&ov).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &ov, nil
}

func (r *GormRepository) ListActiveBookingsForDay(
	ctx context.Context,
	staffID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Booking, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"staff_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			staffID, domain.ActiveStatuses(), dayEnd, dayStart,
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, wrap(err)
	}
	return bookings, nil
}

// --------------------------------------------------
// Conflict checks
// --------------------------------------------------

func (r *GormRepository) FindActiveByClientService(
	ctx context.Context,
	serviceID uint,
	email string,
) (*models.Booking, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	var b models.Booking
	err := r.db.WithContext(ctx).
		Where(
			"service_id = ? AND lower(client_email) = lower(?) AND status IN ?",
			serviceID, email, domain.ActiveStatuses(),
		).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &b, nil
}

func (r *GormRepository) FindOverlapping(
	ctx context.Context,
	staffID uint,
	start time.Time,
	end time.Time,
	excludeBookingID uint,
) (*models.Booking, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	q := r.db.WithContext(ctx).
		Where(
			"staff_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			staffID, domain.ActiveStatuses(), end, start,
		)
	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}

	var b models.Booking
	err := q.First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(err)
	}
	return &b, nil
}

// --------------------------------------------------
// Booking writes
// --------------------------------------------------

// CreateBooking re-checks the overlap under a row lock inside the insert
// transaction; the exclusion constraint and partial unique index remain
// the authority if two transactions slip past the check together.
func (r *GormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if b.StaffID != nil {
			var conflict models.Booking
			err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where(
					"staff_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
					*b.StaffID, domain.ActiveStatuses(), b.EndTime, b.StartTime,
				).
				First(&conflict).Error
			if err == nil {
				return &domain.SlotTakenError{
					BookingID: conflict.ID,
					Start:     conflict.StartTime,
					End:       conflict.EndTime,
				}
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		return tx.Create(b).Error
	})

	if err != nil {
		return wrap(translateConstraint(err))
	}
	return nil
}

func (r *GormRepository) GetBooking(
	ctx context.Context,
	businessID uint,
	id uint,
) (*models.Booking, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Client").
		Where("id = ? AND business_id = ?", id, businessID).
		First(&b).Error; err != nil {
		return nil, wrap(err)
	}
	return &b, nil
}

func (r *GormRepository) GetBookingByReference(
	ctx context.Context,
	reference string,
) (*models.Booking, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Client").
		Where("reference = ?", reference).
		First(&b).Error; err != nil {
		return nil, wrap(err)
	}
	return &b, nil
}

// UpdateBookingStatus is conditioned on the status the caller validated
// against, so two racing transitions cannot both land: the loser's
// condition matches zero rows and the current status is reported back.
// Without this a confirm racing a cancel would resurrect a cancelled row.
func (r *GormRepository) UpdateBookingStatus(
	ctx context.Context,
	b *models.Booking,
	expectedStatus string,
) error {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", b.ID, expectedStatus).
			Updates(map[string]any{
				"status":       b.Status,
				"updated_by":   b.UpdatedBy,
				"confirmed_at": b.ConfirmedAt,
				"cancelled_at": b.CancelledAt,
				"completed_at": b.CompletedAt,
				"cancelled_by": b.CancelledBy,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.Booking
			if err := tx.Select("status").First(&current, b.ID).Error; err != nil {
				return err
			}
			return &domain.InvalidTransitionError{
				From: domain.Status(current.Status),
				To:   domain.Status(b.Status),
			}
		}
		return nil
	})

	if err != nil {
		return wrap(translateConstraint(err))
	}
	return nil
}

// UpdateBookingTime is the optimistic half of the reschedule-once rule:
// the update only lands if the booking is still pending with the
// reschedule count the caller read. A concurrent winner makes the
// condition fail and the loser sees AlreadyRescheduledError.
func (r *GormRepository) UpdateBookingTime(
	ctx context.Context,
	id uint,
	start time.Time,
	end time.Time,
	expectedCount int,
	updatedBy string,
) (*models.Booking, error) {

	ctx, cancel := r.bound(ctx)
	defer cancel()

	var updated models.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where(
				"id = ? AND status = ? AND reschedule_count = ?",
				id, string(domain.StatusPending), expectedCount,
			).
			Updates(map[string]any{
				"start_time":       start,
				"end_time":         end,
				"status":           string(domain.StatusPending),
				"reschedule_count": expectedCount + 1,
				"updated_by":       updatedBy,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &domain.AlreadyRescheduledError{BookingID: id}
		}

		return tx.Preload("Service").Preload("Client").First(&updated, id).Error
	})

	if err != nil {
		return nil, wrap(translateConstraint(err))
	}
	return &updated, nil
}
