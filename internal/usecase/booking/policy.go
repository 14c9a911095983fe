package booking

import (
	"context"
	"time"

	"github.com/slotwise/scheduler-api/internal/httperr"
	"github.com/slotwise/scheduler-api/internal/models"
)

// Invalidator drops cached availability for one staff member and date
// after a booking mutation. A nil invalidator is a no-op.
type Invalidator interface {
	Invalidate(ctx context.Context, staffID uint, date string)
}

func invalidateFor(ctx context.Context, inv Invalidator, b *models.Booking, loc *time.Location) {
	if inv == nil || b.StaffID == nil {
		return
	}
	inv.Invalidate(ctx, *b.StaffID, b.StartTime.In(loc).Format("2006-01-02"))
}

// checkLeadAndHorizon rejects starts inside the minimum lead window or
// past the booking horizon. Business values win over server defaults.
func checkLeadAndHorizon(
	biz *models.Business,
	start time.Time,
	now time.Time,
	defaultMinLead int,
	defaultHorizonDays int,
) error {

	minLead := biz.MinLeadMinutes
	if minLead <= 0 {
		minLead = defaultMinLead
	}
	if start.Before(now.Add(time.Duration(minLead) * time.Minute)) {
		return httperr.ErrBusiness("too_soon")
	}

	horizon := biz.HorizonDays
	if horizon <= 0 {
		horizon = defaultHorizonDays
	}
	if horizon > 0 {
		limit := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, horizon).
			Add(24 * time.Hour)
		if !start.Before(limit) {
			return httperr.ErrBusiness("beyond_horizon")
		}
	}

	return nil
}
