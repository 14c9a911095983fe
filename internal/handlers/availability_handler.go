package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/slotwise/scheduler-api/internal/cache"
	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
	"github.com/slotwise/scheduler-api/internal/httperr"
	"github.com/slotwise/scheduler-api/internal/middleware"
	"github.com/slotwise/scheduler-api/internal/models"
	"github.com/slotwise/scheduler-api/internal/usecase/availability"
)

// AvailabilityHandler reads exclusively through the bounded store so a
// slow database surfaces as an explicit 503, never a hung request or a
// silently empty day.
type AvailabilityHandler struct {
	repo  domain.Repository
	uc    *availability.GetAvailability
	cache *cache.AvailabilityCache
}

func NewAvailabilityHandler(
	repo domain.Repository,
	uc *availability.GetAvailability,
	availCache *cache.AvailabilityCache,
) *AvailabilityHandler {
	return &AvailabilityHandler{repo: repo, uc: uc, cache: availCache}
}

// writeLookupError separates "row does not exist" from "store did not
// answer"; only the former is a 404.
func writeLookupError(c *gin.Context, err error, code, message string) {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		writeBookingError(c, err)
		return
	}
	httperr.NotFound(c, code, message)
}

// GetForOperator serves the authenticated calendar screen.
func (h *AvailabilityHandler) GetForOperator(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	biz, err := h.repo.GetBusinessByID(c.Request.Context(), businessID)
	if err != nil {
		writeLookupError(c, err, "business_not_found", "Business not found.")
		return
	}

	h.serve(c, biz)
}

// serve answers an availability query for one staff member and date.
// The duration comes either from a service or from duration_min.
func (h *AvailabilityHandler) serve(c *gin.Context, biz *models.Business) {
	staffIDStr := c.Query("staff_id")
	dateStr := c.Query("date")
	if staffIDStr == "" || dateStr == "" {
		httperr.BadRequest(c, "missing_params", "staff_id and date are required.")
		return
	}

	staffID, err := strconv.ParseUint(staffIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_staff_id", "Invalid staff id.")
		return
	}

	// Ownership check before the cache: a cached slot list must never be
	// served for another business's staff member.
	if _, err := h.repo.GetStaff(c.Request.Context(), biz.ID, uint(staffID)); err != nil {
		writeLookupError(c, err, "staff_not_found", "Staff member not found.")
		return
	}

	date, err := parseDateInBusiness(biz, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	durationMin, ok := h.resolveDuration(c, biz)
	if !ok {
		return // response already written
	}

	if slots, ok := h.cache.Get(c.Request.Context(), uint(staffID), dateStr, durationMin); ok {
		c.JSON(200, gin.H{"date": dateStr, "staff_id": staffID, "slots": slots})
		return
	}

	slots, err := h.uc.Execute(c.Request.Context(), availability.Input{
		BusinessID:  biz.ID,
		StaffID:     uint(staffID),
		DurationMin: durationMin,
		Date:        date,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	h.cache.Set(c.Request.Context(), uint(staffID), dateStr, durationMin, slots)

	c.JSON(200, gin.H{"date": dateStr, "staff_id": staffID, "slots": slots})
}

func (h *AvailabilityHandler) resolveDuration(c *gin.Context, biz *models.Business) (int, bool) {
	if serviceIDStr := c.Query("service_id"); serviceIDStr != "" {
		serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
			return 0, false
		}

		svc, err := h.repo.GetService(c.Request.Context(), biz.ID, uint(serviceID))
		if err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				writeBookingError(c, err)
				return 0, false
			}
			httperr.BadRequest(c, "service_not_found", "Unknown service.")
			return 0, false
		}
		if !svc.IsActive {
			httperr.BadRequest(c, "service_unavailable", "Service is no longer offered.")
			return 0, false
		}
		return svc.DurationMin, true
	}

	durationMin, err := strconv.Atoi(c.Query("duration_min"))
	if err != nil || durationMin <= 0 {
		httperr.BadRequest(c, "invalid_duration", "Provide service_id or a positive duration_min.")
		return 0, false
	}
	return durationMin, true
}
