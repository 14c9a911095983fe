package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/slotwise/scheduler-api/internal/httperr"
	"github.com/slotwise/scheduler-api/internal/httpresp"
	"github.com/slotwise/scheduler-api/internal/middleware"
	"github.com/slotwise/scheduler-api/internal/notification"
)

// NotificationHandler exposes the operator inbox: unacknowledged rows
// from the last 30 days, dismissable one by one.
type NotificationHandler struct {
	store *notification.Store
}

func NewNotificationHandler(store *notification.Store) *NotificationHandler {
	return &NotificationHandler{store: store}
}

func (h *NotificationHandler) List(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	rows, err := h.store.ListUnacknowledged(c.Request.Context(), businessID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_notifications", "Could not load notifications.")
		return
	}

	httpresp.List(c, rows)
}

func (h *NotificationHandler) Acknowledge(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	err := h.store.Acknowledge(c.Request.Context(), businessID, c.Param("id"))
	if err == gorm.ErrRecordNotFound {
		httperr.NotFound(c, "notification_not_found", "Notification not found.")
		return
	}
	if err != nil {
		httperr.Internal(c, "failed_to_acknowledge", "Could not acknowledge notification.")
		return
	}

	c.JSON(200, gin.H{"status": "ok"})
}
