package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slotwise/scheduler-api/internal/httperr"
	"github.com/slotwise/scheduler-api/internal/httpresp"
	"github.com/slotwise/scheduler-api/internal/middleware"
	"github.com/slotwise/scheduler-api/internal/models"
	"github.com/slotwise/scheduler-api/internal/timezone"
)

type BusinessHandler struct {
	db *gorm.DB
}

func NewBusinessHandler(db *gorm.DB) *BusinessHandler {
	return &BusinessHandler{db: db}
}

type UpdateBusinessRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`

	Timezone *string `json:"timezone"`

	MinLeadMinutes *int `json:"min_lead_minutes"`
	HorizonDays    *int `json:"horizon_days"`

	DefaultDayStart *string `json:"default_day_start"`
	DefaultDayEnd   *string `json:"default_day_end"`
}

func (h *BusinessHandler) Get(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return
	}

	httpresp.OK(c, biz)
}

func (h *BusinessHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if req.Timezone != nil && !timezone.IsValid(*req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
		return
	}

	if req.Name != nil {
		biz.Name = *req.Name
	}
	if req.Phone != nil {
		biz.Phone = *req.Phone
	}
	if req.Address != nil {
		biz.Address = *req.Address
	}
	if req.Timezone != nil {
		biz.Timezone = *req.Timezone
	}
	if req.MinLeadMinutes != nil && *req.MinLeadMinutes >= 0 {
		biz.MinLeadMinutes = *req.MinLeadMinutes
	}
	if req.HorizonDays != nil && *req.HorizonDays >= 0 {
		biz.HorizonDays = *req.HorizonDays
	}
	if req.DefaultDayStart != nil {
		biz.DefaultDayStart = *req.DefaultDayStart
	}
	if req.DefaultDayEnd != nil {
		biz.DefaultDayEnd = *req.DefaultDayEnd
	}

	if err := h.db.Save(&biz).Error; err != nil {
		httperr.Internal(c, "failed_to_update_business", "Could not save settings.")
		return
	}

	httpresp.OK(c, biz)
}
