package handlers

import (
	"time"

	"github.com/slotwise/scheduler-api/internal/models"
	"github.com/slotwise/scheduler-api/internal/timezone"
)

// resolve the official timezone of the business
func locationFromBusiness(biz *models.Business) *time.Location {
	return timezone.Location(biz.Timezone)
}

func parseDateInBusiness(biz *models.Business, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromBusiness(biz),
	)
}
