package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slotwise/scheduler-api/internal/cache"
	"github.com/slotwise/scheduler-api/internal/domain/schedule"
	"github.com/slotwise/scheduler-api/internal/httperr"
	"github.com/slotwise/scheduler-api/internal/httpresp"
	"github.com/slotwise/scheduler-api/internal/middleware"
	"github.com/slotwise/scheduler-api/internal/models"
)

// ScheduleHandler manages the three availability inputs: recurring shift
// templates, time-off periods and per-date overrides.
type ScheduleHandler struct {
	db    *gorm.DB
	cache *cache.AvailabilityCache
}

func NewScheduleHandler(db *gorm.DB, availCache *cache.AvailabilityCache) *ScheduleHandler {
	return &ScheduleHandler{db: db, cache: availCache}
}

func (h *ScheduleHandler) staffForBusiness(c *gin.Context, staffID string) (*models.Staff, bool) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var st models.Staff
	if err := h.db.
		Where("id = ? AND business_id = ?", staffID, businessID).
		First(&st).Error; err != nil {
		httperr.NotFound(c, "staff_not_found", "Staff member not found.")
		return nil, false
	}
	return &st, true
}

// ======================================================
// SHIFT TEMPLATES
// ======================================================

type ShiftTemplateConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Active    bool   `json:"active"`
}

type ShiftTemplatesUpdateRequest struct {
	Shifts []ShiftTemplateConfig `json:"shifts" binding:"required"`
}

func (h *ScheduleHandler) GetShifts(c *gin.Context) {
	st, ok := h.staffForBusiness(c, c.Param("staffId"))
	if !ok {
		return
	}

	var shifts []models.ShiftTemplate
	if err := h.db.
		Where("staff_id = ?", st.ID).
		Order("weekday ASC, start_time ASC").
		Find(&shifts).Error; err != nil {
		httperr.Internal(c, "failed_to_get_shifts", "Could not load shift templates.")
		return
	}

	httpresp.List(c, shifts)
}

// UpdateShifts replaces the whole weekly pattern in one write, the same
// shape the settings screen submits.
func (h *ScheduleHandler) UpdateShifts(c *gin.Context) {
	st, ok := h.staffForBusiness(c, c.Param("staffId"))
	if !ok {
		return
	}

	var req ShiftTemplatesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	for _, s := range req.Shifts {
		start, err1 := schedule.ParseClock(s.StartTime)
		end, err2 := schedule.ParseClock(s.EndTime)
		if err1 != nil || err2 != nil || start >= end {
			httperr.BadRequest(c, "invalid_shift_window", "Shift windows must be HH:MM with start before end.")
			return
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", st.ID).Delete(&models.ShiftTemplate{}).Error; err != nil {
			return err
		}

		var toCreate []models.ShiftTemplate
		for _, s := range req.Shifts {
			toCreate = append(toCreate, models.ShiftTemplate{
				StaffID:   st.ID,
				Weekday:   s.Weekday,
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
				Active:    s.Active,
			})
		}

		if len(toCreate) > 0 {
			return tx.Create(&toCreate).Error
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_shifts", "Could not save shift templates.")
		return
	}

	c.JSON(200, gin.H{"status": "ok"})
}

// ======================================================
// TIME OFF
// ======================================================

type TimeOffRequest struct {
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`
	AllDay    *bool  `json:"all_day"`
	Reason    string `json:"reason"`
}

func (h *ScheduleHandler) ListTimeOff(c *gin.Context) {
	st, ok := h.staffForBusiness(c, c.Param("staffId"))
	if !ok {
		return
	}

	var periods []models.TimeOffPeriod
	if err := h.db.
		Where("staff_id = ?", st.ID).
		Order("start_date ASC").
		Find(&periods).Error; err != nil {
		httperr.Internal(c, "failed_to_list_time_off", "Could not list time off.")
		return
	}

	httpresp.List(c, periods)
}

func (h *ScheduleHandler) CreateTimeOff(c *gin.Context) {
	st, ok := h.staffForBusiness(c, c.Param("staffId"))
	if !ok {
		return
	}

	var req TimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	start, err1 := time.Parse("2006-01-02", req.StartDate)
	end, err2 := time.Parse("2006-01-02", req.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		httperr.BadRequest(c, "invalid_date_range", "Dates must be YYYY-MM-DD with end not before start.")
		return
	}

	period := models.TimeOffPeriod{
		StaffID:   st.ID,
		StartDate: start,
		EndDate:   end,
		AllDay:    true,
		Reason:    req.Reason,
	}
	if req.AllDay != nil {
		period.AllDay = *req.AllDay
	}

	if err := h.db.Create(&period).Error; err != nil {
		httperr.Internal(c, "failed_to_create_time_off", "Could not save time off.")
		return
	}

	c.JSON(201, period)
}

func (h *ScheduleHandler) DeleteTimeOff(c *gin.Context) {
	st, ok := h.staffForBusiness(c, c.Param("staffId"))
	if !ok {
		return
	}

	res := h.db.
		Where("id = ? AND staff_id = ?", c.Param("id"), st.ID).
		Delete(&models.TimeOffPeriod{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_time_off", "Could not delete time off.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "time_off_not_found", "Time off period not found.")
		return
	}

	c.JSON(200, gin.H{"status": "ok"})
}

// ======================================================
// OVERRIDES
// ======================================================

type OverrideRequest struct {
	Date        string  `json:"date" binding:"required"` // YYYY-MM-DD
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	IsAvailable bool    `json:"is_available"`
}

// UpsertOverride keeps at most one override per staff per date; the
// unique index backs that up against concurrent writers.
func (h *ScheduleHandler) UpsertOverride(c *gin.Context) {
	st, ok := h.staffForBusiness(c, c.Param("staffId"))
	if !ok {
		return
	}

	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	if (req.StartTime == nil) != (req.EndTime == nil) {
		httperr.BadRequest(c, "invalid_override_window", "Provide both start_time and end_time, or neither.")
		return
	}
	if req.StartTime != nil {
		start, err1 := schedule.ParseClock(*req.StartTime)
		end, err2 := schedule.ParseClock(*req.EndTime)
		if err1 != nil || err2 != nil || start >= end {
			httperr.BadRequest(c, "invalid_override_window", "Override window must be HH:MM with start before end.")
			return
		}
	}

	var ov models.AvailabilityOverride
	err = h.db.
		Where("staff_id = ? AND date = ?", st.ID, req.Date).
		First(&ov).Error

	ov.StaffID = st.ID
	ov.Date = date
	ov.StartTime = req.StartTime
	ov.EndTime = req.EndTime
	ov.IsAvailable = req.IsAvailable

	if err != nil {
		err = h.db.Create(&ov).Error
	} else {
		err = h.db.Save(&ov).Error
	}
	if err != nil {
		httperr.Internal(c, "failed_to_save_override", "Could not save override.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), st.ID, req.Date)

	httpresp.OK(c, ov)
}

func (h *ScheduleHandler) DeleteOverride(c *gin.Context) {
	st, ok := h.staffForBusiness(c, c.Param("staffId"))
	if !ok {
		return
	}

	date := c.Param("date")

	res := h.db.
		Where("staff_id = ? AND date = ?", st.ID, date).
		Delete(&models.AvailabilityOverride{})
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_override", "Could not delete override.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "override_not_found", "Override not found.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), st.ID, date)

	c.JSON(200, gin.H{"status": "ok"})
}
