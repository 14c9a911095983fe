package booking

import (
	"context"
	"strings"
	"sync"
	"time"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
	"github.com/slotwise/scheduler-api/internal/models"
	"github.com/slotwise/scheduler-api/internal/notification"
	"github.com/slotwise/scheduler-api/internal/usecase/availability"
)

// ======================================================
// FAKE STORE
// ======================================================

// fakeRepo is an in-memory stand-in for the schedule store. CreateBooking
// enforces the same two constraints the database does (duplicate active
// booking per client+service, no overlapping staff intervals) so the
// concurrency-shaped tests exercise the real error paths.
type fakeRepo struct {
	mu sync.Mutex

	business  *models.Business
	staff     map[uint]*models.Staff
	services  map[uint]*models.Service
	templates []models.ShiftTemplate
	clients   map[string]*models.Client

	bookings map[uint]*models.Booking
	nextID   uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		business: &models.Business{
			ID:             1,
			Slug:           "corner-cuts",
			Timezone:       "UTC",
			MinLeadMinutes: 120,
			HorizonDays:    90,
		},
		staff: map[uint]*models.Staff{
			7: {ID: 7, BusinessID: 1, FullName: "Sam", IsActive: true},
		},
		services: map[uint]*models.Service{
			3: {ID: 3, BusinessID: 1, Name: "Haircut", DurationMin: 60, Price: 40, IsActive: true},
		},
		templates: []models.ShiftTemplate{
			{StaffID: 7, Weekday: 2, StartTime: "09:00", EndTime: "17:00", Active: true}, // Tuesday
		},
		clients:  map[string]*models.Client{},
		bookings: map[uint]*models.Booking{},
	}
}

func (f *fakeRepo) GetBusinessByID(ctx context.Context, id uint) (*models.Business, error) {
	return f.business, nil
}

func (f *fakeRepo) GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	return f.business, nil
}

func (f *fakeRepo) GetService(ctx context.Context, businessID, serviceID uint) (*models.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok {
		return nil, domain.ErrStoreUnavailable
	}
	return svc, nil
}

func (f *fakeRepo) GetStaff(ctx context.Context, businessID, staffID uint) (*models.Staff, error) {
	st, ok := f.staff[staffID]
	if !ok {
		return nil, domain.ErrStoreUnavailable
	}
	return st, nil
}

func (f *fakeRepo) GetOrCreateClient(ctx context.Context, businessID uint, name, phone, email string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.ToLower(email)
	if c, ok := f.clients[key]; ok {
		return c, nil
	}
	c := &models.Client{
		ID:         uint(len(f.clients) + 1),
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Email:      email,
	}
	f.clients[key] = c
	return c, nil
}

func (f *fakeRepo) ListShiftTemplates(ctx context.Context, staffID uint, weekday int) ([]models.ShiftTemplate, error) {
	var out []models.ShiftTemplate
	for _, tpl := range f.templates {
		if tpl.StaffID == staffID && tpl.Weekday == weekday && tpl.Active {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func (f *fakeRepo) HasTimeOff(ctx context.Context, staffID uint, date time.Time) (bool, error) {
	return false, nil
}

func (f *fakeRepo) GetOverride(ctx context.Context, staffID uint, date time.Time) (*models.AvailabilityOverride, error) {
	return nil, nil
}

func (f *fakeRepo) ListActiveBookingsForDay(ctx context.Context, staffID uint, dayStart, dayEnd time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Booking
	for _, b := range f.bookings {
		if b.StaffID != nil && *b.StaffID == staffID &&
			domain.Status(b.Status).IsActive() &&
			b.StartTime.Before(dayEnd) && dayStart.Before(b.EndTime) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindActiveByClientService(ctx context.Context, serviceID uint, email string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findDuplicateLocked(serviceID, email), nil
}

func (f *fakeRepo) findDuplicateLocked(serviceID uint, email string) *models.Booking {
	for _, b := range f.bookings {
		if b.ServiceID == serviceID &&
			strings.EqualFold(b.ClientEmail, email) &&
			domain.Status(b.Status).IsActive() {
			cp := *b
			return &cp
		}
	}
	return nil
}

func (f *fakeRepo) FindOverlapping(ctx context.Context, staffID uint, start, end time.Time, excludeBookingID uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findOverlapLocked(staffID, start, end, excludeBookingID), nil
}

func (f *fakeRepo) findOverlapLocked(staffID uint, start, end time.Time, excludeBookingID uint) *models.Booking {
	for _, b := range f.bookings {
		if b.ID == excludeBookingID {
			continue
		}
		if b.StaffID != nil && *b.StaffID == staffID &&
			domain.Status(b.Status).IsActive() &&
			domain.Overlaps(start, end, b.StartTime, b.EndTime) {
			cp := *b
			return &cp
		}
	}
	return nil
}

func (f *fakeRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if dup := f.findDuplicateLocked(b.ServiceID, b.ClientEmail); dup != nil {
		return &domain.DuplicateActiveBookingError{
			BookingID: dup.ID,
			Reference: dup.Reference,
			Start:     dup.StartTime,
			End:       dup.EndTime,
		}
	}
	if b.StaffID != nil {
		if conflict := f.findOverlapLocked(*b.StaffID, b.StartTime, b.EndTime, 0); conflict != nil {
			return &domain.SlotTakenError{
				BookingID: conflict.ID,
				Start:     conflict.StartTime,
				End:       conflict.EndTime,
			}
		}
	}

	f.nextID++
	b.ID = f.nextID
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) GetBooking(ctx context.Context, businessID, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok || b.BusinessID != businessID {
		return nil, domain.ErrStoreUnavailable
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, b := range f.bookings {
		if b.Reference == reference {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrStoreUnavailable
}

func (f *fakeRepo) UpdateBookingStatus(ctx context.Context, b *models.Booking, expectedStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur, ok := f.bookings[b.ID]
	if !ok {
		return domain.ErrStoreUnavailable
	}
	if cur.Status != expectedStatus {
		return &domain.InvalidTransitionError{
			From: domain.Status(cur.Status),
			To:   domain.Status(b.Status),
		}
	}

	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateBookingTime(ctx context.Context, id uint, start, end time.Time, expectedCount int, updatedBy string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrStoreUnavailable
	}
	if domain.Status(b.Status) != domain.StatusPending || b.RescheduleCount != expectedCount {
		return nil, &domain.AlreadyRescheduledError{BookingID: id}
	}

	b.StartTime = start
	b.EndTime = end
	b.RescheduleCount++
	b.UpdatedBy = updatedBy

	cp := *b
	return &cp, nil
}

// ======================================================
// FAKE EMITTER
// ======================================================

type captureEmitter struct {
	mu      sync.Mutex
	intents []notification.Intent
}

func (e *captureEmitter) Emit(in notification.Intent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.intents = append(e.intents, in)
}

func (e *captureEmitter) types() []notification.Type {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]notification.Type, len(e.intents))
	for i, in := range e.intents {
		out[i] = in.Type
	}
	return out
}

// ======================================================
// WIRING HELPERS
// ======================================================

// The fixture Tuesday, queried from the Monday before.
var (
	testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	clock   = func() time.Time { return testNow }
)

type fixture struct {
	repo    *fakeRepo
	emitter *captureEmitter

	create     *Create
	transition *Transition
	reschedule *Reschedule
}

func newFixture() *fixture {
	repo := newFakeRepo()
	emitter := &captureEmitter{}

	avail := availability.NewGetAvailability(repo, 120, 90).WithClock(clock)
	guard := NewConflictGuard(repo)

	return &fixture{
		repo:    repo,
		emitter: emitter,

		create:     NewCreate(repo, avail, guard, emitter, nil, 120, 90).WithClock(clock),
		transition: NewTransition(repo, emitter, nil).WithClock(clock),
		reschedule: NewReschedule(repo, avail, guard, emitter, nil, 120, 90).WithClock(clock),
	}
}

func validCreateInput() CreateInput {
	staffID := uint(7)
	return CreateInput{
		BusinessID:  1,
		ServiceID:   3,
		StaffID:     &staffID,
		ClientName:  "Dana",
		ClientPhone: "555-0101",
		ClientEmail: "dana@example.com",
		Date:        "2026-03-03",
		Time:        "10:00",
	}
}
