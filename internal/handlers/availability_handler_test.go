package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
	"github.com/slotwise/scheduler-api/internal/middleware"
	"github.com/slotwise/scheduler-api/internal/models"
	"github.com/slotwise/scheduler-api/internal/usecase/availability"
)

// ======================================================
// STUB STORE
// ======================================================

// stubRepo serves fixed rows, optionally failing every call the way the
// bounded store does when the database stops answering.
type stubRepo struct {
	business  *models.Business
	staff     *models.Staff
	service   *models.Service
	templates []models.ShiftTemplate

	storeDown bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		business: &models.Business{
			ID:             1,
			Timezone:       "UTC",
			MinLeadMinutes: 120,
			HorizonDays:    90,
		},
		staff: &models.Staff{ID: 7, BusinessID: 1, IsActive: true},
		templates: []models.ShiftTemplate{
			{StaffID: 7, Weekday: 2, StartTime: "09:00", EndTime: "17:00", Active: true}, // Tuesday
		},
	}
}

func (s *stubRepo) GetBusinessByID(ctx context.Context, id uint) (*models.Business, error) {
	if s.storeDown {
		return nil, domain.ErrStoreUnavailable
	}
	return s.business, nil
}

func (s *stubRepo) GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	if s.storeDown {
		return nil, domain.ErrStoreUnavailable
	}
	return s.business, nil
}

func (s *stubRepo) GetService(ctx context.Context, businessID, serviceID uint) (*models.Service, error) {
	if s.storeDown {
		return nil, domain.ErrStoreUnavailable
	}
	if s.service == nil || s.service.BusinessID != businessID || s.service.ID != serviceID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.service, nil
}

func (s *stubRepo) GetStaff(ctx context.Context, businessID, staffID uint) (*models.Staff, error) {
	if s.storeDown {
		return nil, domain.ErrStoreUnavailable
	}
	if s.staff == nil || s.staff.BusinessID != businessID || s.staff.ID != staffID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.staff, nil
}

func (s *stubRepo) GetOrCreateClient(ctx context.Context, businessID uint, name, phone, email string) (*models.Client, error) {
	return nil, nil
}

func (s *stubRepo) ListShiftTemplates(ctx context.Context, staffID uint, weekday int) ([]models.ShiftTemplate, error) {
	var out []models.ShiftTemplate
	for _, tpl := range s.templates {
		if tpl.StaffID == staffID && tpl.Weekday == weekday && tpl.Active {
			out = append(out, tpl)
		}
	}
	return out, nil
}

func (s *stubRepo) HasTimeOff(ctx context.Context, staffID uint, date time.Time) (bool, error) {
	return false, nil
}

func (s *stubRepo) GetOverride(ctx context.Context, staffID uint, date time.Time) (*models.AvailabilityOverride, error) {
	return nil, nil
}

func (s *stubRepo) ListActiveBookingsForDay(ctx context.Context, staffID uint, dayStart, dayEnd time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (s *stubRepo) FindActiveByClientService(ctx context.Context, serviceID uint, email string) (*models.Booking, error) {
	return nil, nil
}

func (s *stubRepo) FindOverlapping(ctx context.Context, staffID uint, start, end time.Time, excludeBookingID uint) (*models.Booking, error) {
	return nil, nil
}

func (s *stubRepo) CreateBooking(ctx context.Context, b *models.Booking) error { return nil }

func (s *stubRepo) GetBooking(ctx context.Context, businessID, id uint) (*models.Booking, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) UpdateBookingStatus(ctx context.Context, b *models.Booking, expectedStatus string) error {
	return nil
}

func (s *stubRepo) UpdateBookingTime(ctx context.Context, id uint, start, end time.Time, expectedCount int, updatedBy string) (*models.Booking, error) {
	return nil, nil
}

// ======================================================
// WIRING
// ======================================================

// The fixture Tuesday, queried from the Monday before.
var availTestNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func newAvailabilityRouter(repo domain.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	uc := availability.NewGetAvailability(repo, 120, 90).
		WithClock(func() time.Time { return availTestNow })
	h := NewAvailabilityHandler(repo, uc, nil)

	r := gin.New()
	r.GET("/me/availability", func(c *gin.Context) {
		c.Set(middleware.ContextBusinessID, uint(1))
		h.GetForOperator(c)
	})
	return r
}

func getAvailability(r *gin.Engine, query string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me/availability?"+query, nil)
	r.ServeHTTP(w, req)
	return w
}

// ======================================================
// TESTS
// ======================================================

func TestGetForOperator_ServesSlots(t *testing.T) {
	r := newAvailabilityRouter(newStubRepo())

	w := getAvailability(r, "staff_id=7&date=2026-03-03&duration_min=60")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"09:00"`)
	assert.Contains(t, w.Body.String(), `"16:00"`)
}

func TestGetForOperator_StoreDownIs503(t *testing.T) {
	repo := newStubRepo()
	repo.storeDown = true
	r := newAvailabilityRouter(repo)

	w := getAvailability(r, "staff_id=7&date=2026-03-03&duration_min=60")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "store_timeout")
}

func TestGetForOperator_ForeignStaffIs404(t *testing.T) {
	repo := newStubRepo()
	repo.staff.BusinessID = 2
	r := newAvailabilityRouter(repo)

	// Another tenant's staff member must be rejected before the cache or
	// the calculator ever see the query.
	w := getAvailability(r, "staff_id=7&date=2026-03-03&duration_min=60")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "staff_not_found")
}

func TestGetForOperator_MissingParamsIs400(t *testing.T) {
	r := newAvailabilityRouter(newStubRepo())

	w := getAvailability(r, "staff_id=7")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing_params")
}
