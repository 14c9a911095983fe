package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slotwise/scheduler-api/internal/httperr"
	"github.com/slotwise/scheduler-api/internal/httpresp"
	"github.com/slotwise/scheduler-api/internal/middleware"
	"github.com/slotwise/scheduler-api/internal/models"
)

type StaffHandler struct {
	db *gorm.DB
}

func NewStaffHandler(db *gorm.DB) *StaffHandler {
	return &StaffHandler{db: db}
}

type StaffRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

func (h *StaffHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var staff []models.Staff
	if err := h.db.
		Where("business_id = ?", businessID).
		Order("id ASC").
		Find(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_list_staff", "Could not list staff.")
		return
	}

	httpresp.List(c, staff)
}

func (h *StaffHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	st := models.Staff{
		BusinessID: businessID,
		FullName:   req.FullName,
		Phone:      req.Phone,
		IsActive:   true,
	}
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}

	if err := h.db.Create(&st).Error; err != nil {
		httperr.Internal(c, "failed_to_create_staff", "Could not create staff member.")
		return
	}

	c.JSON(201, st)
}

// Update may deactivate a staff member. Future bookings are left in
// place; the operator cancels them explicitly if needed.
func (h *StaffHandler) Update(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)
	id := c.Param("id")

	var st models.Staff
	if err := h.db.
		Where("id = ? AND business_id = ?", id, businessID).
		First(&st).Error; err != nil {
		httperr.NotFound(c, "staff_not_found", "Staff member not found.")
		return
	}

	var req StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	st.FullName = req.FullName
	st.Phone = req.Phone
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}

	if err := h.db.Save(&st).Error; err != nil {
		httperr.Internal(c, "failed_to_update_staff", "Could not update staff member.")
		return
	}

	httpresp.OK(c, st)
}
