package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
	"github.com/slotwise/scheduler-api/internal/httperr"
	"github.com/slotwise/scheduler-api/internal/httpresp"
	"github.com/slotwise/scheduler-api/internal/models"
	"github.com/slotwise/scheduler-api/internal/notification"
	ucBooking "github.com/slotwise/scheduler-api/internal/usecase/booking"
)

// ======================================================
// PUBLIC SURFACE (slug-scoped, unauthenticated)
// ======================================================

// PublicHandler serves the customer-facing booking page. Nothing here
// requires a token; bookings are addressed by their opaque reference.
type PublicHandler struct {
	db   *gorm.DB
	repo domain.Repository

	availability *AvailabilityHandler
	createUC     *ucBooking.Create
	transitionUC *ucBooking.Transition
	rescheduleUC *ucBooking.Reschedule
	emitter      notification.Emitter
}

func NewPublicHandler(
	db *gorm.DB,
	repo domain.Repository,
	availability *AvailabilityHandler,
	createUC *ucBooking.Create,
	transitionUC *ucBooking.Transition,
	rescheduleUC *ucBooking.Reschedule,
	emitter notification.Emitter,
) *PublicHandler {
	return &PublicHandler{
		db:           db,
		repo:         repo,
		availability: availability,
		createUC:     createUC,
		transitionUC: transitionUC,
		rescheduleUC: rescheduleUC,
		emitter:      emitter,
	}
}

// businessBySlug resolves the tenant through the bounded store so a slow
// database answers 503 here too, not just on the booking paths.
func (h *PublicHandler) businessBySlug(c *gin.Context) (*models.Business, bool) {
	biz, err := h.repo.GetBusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeLookupError(c, err, "business_not_found", "Business not found.")
		return nil, false
	}
	return biz, true
}

func (h *PublicHandler) bookingByReference(c *gin.Context, businessID uint) (*models.Booking, bool) {
	var b models.Booking
	if err := h.db.
		Preload("Client").
		Preload("Service").
		Where("business_id = ? AND reference = ?", businessID, c.Param("reference")).
		First(&b).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return nil, false
	}
	return &b, true
}

// publicBookingView hides internal ids and client contact data from the
// unauthenticated surface.
type publicBookingView struct {
	Reference       string     `json:"reference"`
	ServiceName     string     `json:"service_name"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	Status          string     `json:"status"`
	RescheduleCount int        `json:"reschedule_count"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}

func toPublicView(b *models.Booking) publicBookingView {
	return publicBookingView{
		Reference:       b.Reference,
		ServiceName:     b.Service.Name,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Status:          b.Status,
		RescheduleCount: b.RescheduleCount,
		CancelledAt:     b.CancelledAt,
	}
}

// ======================================================
// CATALOG + AVAILABILITY
// ======================================================

func (h *PublicHandler) GetBusiness(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	c.JSON(200, gin.H{
		"name":     biz.Name,
		"slug":     biz.Slug,
		"timezone": biz.Timezone,
	})
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.
		Where("business_id = ? AND is_active = true", biz.ID).
		Order("id ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

func (h *PublicHandler) ListStaff(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	var staff []models.Staff
	if err := h.db.
		Where("business_id = ? AND is_active = true", biz.ID).
		Order("id ASC").
		Find(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_list_staff", "Could not list staff.")
		return
	}

	httpresp.List(c, staff)
}

func (h *PublicHandler) GetAvailability(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	h.availability.serve(c, biz)
}

// ======================================================
// BOOKINGS
// ======================================================

func (h *PublicHandler) CreateBooking(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateInput{
		BusinessID:  biz.ID,
		ServiceID:   req.ServiceID,
		StaffID:     req.StaffID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Source:      "online",
		Actor:       domain.ActorCustomer,
		Notes:       req.Notes,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	// Re-read with the service preloaded for the confirmation view.
	if full, ok := h.reload(b.ID); ok {
		b = full
	}

	c.JSON(201, toPublicView(b))
}

func (h *PublicHandler) reload(id uint) (*models.Booking, bool) {
	var b models.Booking
	if err := h.db.Preload("Service").First(&b, id).Error; err != nil {
		return nil, false
	}
	return &b, true
}

func (h *PublicHandler) GetBooking(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	b, ok := h.bookingByReference(c, biz.ID)
	if !ok {
		return
	}

	c.JSON(200, toPublicView(b))
}

func (h *PublicHandler) CancelBooking(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	b, ok := h.bookingByReference(c, biz.ID)
	if !ok {
		return
	}

	updated, err := h.transitionUC.Execute(c.Request.Context(), ucBooking.TransitionInput{
		BusinessID: biz.ID,
		BookingID:  b.ID,
		Action:     ucBooking.ActionCancel,
		Actor:      domain.ActorCustomer,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	if full, ok := h.reload(updated.ID); ok {
		updated = full
	}

	c.JSON(200, toPublicView(updated))
}

func (h *PublicHandler) RescheduleBooking(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	b, ok := h.bookingByReference(c, biz.ID)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	updated, err := h.rescheduleUC.Execute(c.Request.Context(), ucBooking.RescheduleInput{
		BusinessID: biz.ID,
		BookingID:  b.ID,
		Date:       req.Date,
		Time:       req.Time,
		Actor:      domain.ActorCustomer,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	if full, ok := h.reload(updated.ID); ok {
		updated = full
	}

	c.JSON(200, toPublicView(updated))
}

// ======================================================
// REVIEWS
// ======================================================

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// SubmitReview accepts one review for a completed booking and surfaces
// it to the operator through the notification inbox.
func (h *PublicHandler) SubmitReview(c *gin.Context) {
	biz, ok := h.businessBySlug(c)
	if !ok {
		return
	}

	b, ok := h.bookingByReference(c, biz.ID)
	if !ok {
		return
	}

	if domain.Status(b.Status) != domain.StatusCompleted {
		httperr.Conflict(c, "booking_not_completed", "Only completed bookings can be reviewed.")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Rating must be between 1 and 5.")
		return
	}

	h.emitter.Emit(notification.Intent{
		Type:        notification.TypeNewReview,
		Recipient:   notification.RecipientBusiness,
		BusinessID:  biz.ID,
		BookingID:   &b.ID,
		ClientName:  b.Client.Name,
		ClientEmail: b.ClientEmail,
		Rating:      req.Rating,
		Comment:     req.Comment,
	})

	c.JSON(202, gin.H{"status": "received"})
}
