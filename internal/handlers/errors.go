package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
	"github.com/slotwise/scheduler-api/internal/httperr"
)

// writeBookingError maps engine errors onto the HTTP envelope in one
// place so every booking endpoint fails the same way. Conflicts carry
// the conflicting booking so the caller can show it to the user.
func writeBookingError(c *gin.Context, err error) {
	var dup *domain.DuplicateActiveBookingError
	if errors.As(err, &dup) {
		c.JSON(http.StatusConflict, gin.H{
			"error_code": "duplicate_active_booking",
			"message":    "Client already has an active booking for this service.",
			"conflicting_booking": gin.H{
				"id":        dup.BookingID,
				"reference": dup.Reference,
				"start":     dup.Start,
				"end":       dup.End,
			},
		})
		return
	}

	var taken *domain.SlotTakenError
	if errors.As(err, &taken) {
		c.JSON(http.StatusConflict, gin.H{
			"error_code": "slot_taken",
			"message":    "The requested time is no longer available.",
			"conflicting_booking": gin.H{
				"id":    taken.BookingID,
				"start": taken.Start,
				"end":   taken.End,
			},
		})
		return
	}

	var already *domain.AlreadyRescheduledError
	if errors.As(err, &already) {
		httperr.Conflict(c, "already_rescheduled", "This booking was already rescheduled once.")
		return
	}

	var invalid *domain.InvalidTransitionError
	if errors.As(err, &invalid) {
		httperr.Conflict(c, "invalid_transition", invalid.Error())
		return
	}

	if errors.Is(err, domain.ErrStoreUnavailable) {
		// Unknown outcome for writes; the caller must re-read before
		// retrying. Never disguised as an empty result.
		httperr.Unavailable(c, "store_timeout", "The schedule store did not respond in time. Retry after checking current state.")
		return
	}

	var be httperr.BusinessError
	if errors.As(err, &be) {
		switch be.Code {
		case "booking_not_found", "service_not_found", "staff_not_found", "business_not_found":
			httperr.NotFound(c, be.Code, "Not found.")
		case "not_allowed":
			httperr.Write(c, http.StatusForbidden, be.Code, "Action not allowed for this caller.")
		default:
			httperr.BadRequest(c, be.Code, "Invalid request.")
		}
		return
	}

	httperr.Internal(c, "internal_error", "Unexpected error.")
}
