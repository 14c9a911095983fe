package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
	"github.com/slotwise/scheduler-api/internal/httperr"
	"github.com/slotwise/scheduler-api/internal/middleware"
	"github.com/slotwise/scheduler-api/internal/models"
	ucBooking "github.com/slotwise/scheduler-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	db *gorm.DB

	createUC     *ucBooking.Create
	transitionUC *ucBooking.Transition
	rescheduleUC *ucBooking.Reschedule
}

func NewBookingHandler(
	db *gorm.DB,
	createUC *ucBooking.Create,
	transitionUC *ucBooking.Transition,
	rescheduleUC *ucBooking.Reschedule,
) *BookingHandler {
	return &BookingHandler{
		db:           db,
		createUC:     createUC,
		transitionUC: transitionUC,
		rescheduleUC: rescheduleUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ServiceID uint  `json:"service_id" binding:"required"`
	StaffID   *uint `json:"staff_id"`

	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email" binding:"required"`

	Date string `json:"date" binding:"required"` // YYYY-MM-DD
	Time string `json:"time" binding:"required"` // HH:mm

	Notes string `json:"notes"`
}

type RescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// booking row plus the operator-awareness flag for retired services
type bookingListItem struct {
	models.Booking
	ServiceInactive bool `json:"service_inactive"`
}

// ======================================================
// CREATE (manual booking by the operator)
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateInput{
		BusinessID:  businessID,
		ServiceID:   req.ServiceID,
		StaffID:     req.StaffID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Source:      "manual",
		Actor:       domain.ActorBusiness,
		Notes:       req.Notes,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(201, b)
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) ListByDate(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	var biz models.Business
	if err := h.db.First(&biz, businessID).Error; err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return
	}

	date, err := parseDateInBusiness(&biz, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24 * time.Hour)

	q := h.db.
		Preload("Client").
		Preload("Service").
		Preload("Staff").
		Where(
			"business_id = ? AND start_time >= ? AND start_time < ?",
			businessID, start, end,
		)

	if staffIDStr := c.Query("staff_id"); staffIDStr != "" {
		staffID, err := strconv.ParseUint(staffIDStr, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_staff_id", "Invalid staff id.")
			return
		}
		q = q.Where("staff_id = ?", staffID)
	}

	var bookings []models.Booking
	if err := q.Order("start_time ASC").Find(&bookings).Error; err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	items := make([]bookingListItem, len(bookings))
	for i, b := range bookings {
		items[i] = bookingListItem{
			Booking:         b,
			ServiceInactive: !b.Service.IsActive,
		}
	}

	c.JSON(200, items)
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, ucBooking.ActionConfirm)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.transition(c, ucBooking.ActionCancel)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, ucBooking.ActionComplete)
}

func (h *BookingHandler) transition(c *gin.Context, action string) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Invalid booking id.")
		return
	}

	b, err := h.transitionUC.Execute(c.Request.Context(), ucBooking.TransitionInput{
		BusinessID: businessID,
		BookingID:  uint(id),
		Action:     action,
		Actor:      domain.ActorBusiness,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(200, b)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *BookingHandler) Reschedule(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Invalid booking id.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	b, err := h.rescheduleUC.Execute(c.Request.Context(), ucBooking.RescheduleInput{
		BusinessID: businessID,
		BookingID:  uint(id),
		Date:       req.Date,
		Time:       req.Time,
		Actor:      domain.ActorBusiness,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(200, b)
}
