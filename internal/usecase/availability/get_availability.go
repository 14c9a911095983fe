package availability

import (
	"context"
	"time"

	domain "github.com/slotwise/scheduler-api/internal/domain/booking"
	"github.com/slotwise/scheduler-api/internal/domain/schedule"
	"github.com/slotwise/scheduler-api/internal/httperr"
	"github.com/slotwise/scheduler-api/internal/models"
	"github.com/slotwise/scheduler-api/internal/timezone"
)

type Input struct {
	BusinessID  uint
	StaffID     uint
	DurationMin int
	Date        time.Time // any instant on the requested day, business timezone
}

type GetAvailability struct {
	repo domain.Repository

	// Fallback policy when the business record holds zeros.
	defaultMinLeadMinutes int
	defaultHorizonDays    int

	now func() time.Time
}

func NewGetAvailability(
	repo domain.Repository,
	minLeadMinutes int,
	horizonDays int,
) *GetAvailability {
	return &GetAvailability{
		repo:                  repo,
		defaultMinLeadMinutes: minLeadMinutes,
		defaultHorizonDays:    horizonDays,
		now:                   time.Now,
	}
}

// WithClock overrides the time source; used by tests.
func (uc *GetAvailability) WithClock(now func() time.Time) *GetAvailability {
	uc.now = now
	return uc
}

// Execute computes the bookable start times for one staff member, date
// and duration. Resolution order: time-off blocks the whole day; an
// override replaces the templates; otherwise the merged template windows
// apply. Candidates stride by duration and are dropped when they overlap
// any active booking.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in Input,
) ([]schedule.TimeSlot, error) {

	if in.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	staff, err := uc.repo.GetStaff(ctx, in.BusinessID, in.StaffID)
	if err != nil {
		return nil, err
	}
	if !staff.IsActive {
		return []schedule.TimeSlot{}, nil
	}

	loc := timezone.Location(biz.Timezone)
	day := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, loc)
	now := uc.now().In(loc)

	if uc.beyondHorizon(biz, day, now) {
		return []schedule.TimeSlot{}, nil
	}

	windows, err := uc.resolveWindows(ctx, biz, in.StaffID, day)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return []schedule.TimeSlot{}, nil
	}

	bookings, err := uc.repo.ListActiveBookingsForDay(
		ctx,
		in.StaffID,
		day,
		day.Add(24*time.Hour),
	)
	if err != nil {
		return nil, err
	}

	// Slots offered for today must still respect the minimum lead time.
	var minStart time.Time
	if sameDay(day, now) {
		minStart = now.Add(time.Duration(uc.minLead(biz)) * time.Minute)
	}

	duration := time.Duration(in.DurationMin) * time.Minute
	slots := make([]schedule.TimeSlot, 0)

	for _, w := range windows {
		windowStart := schedule.At(day, w.Start, loc)
		windowEnd := schedule.At(day, w.End, loc)

		for cur := windowStart; !cur.Add(duration).After(windowEnd); cur = cur.Add(duration) {
			slotStart := cur
			slotEnd := cur.Add(duration)

			if !minStart.IsZero() && slotStart.Before(minStart) {
				continue
			}

			if overlapsAny(slotStart, slotEnd, bookings) {
				continue
			}

			slots = append(slots, schedule.TimeSlot{
				Start: slotStart.Format("15:04"),
				End:   slotEnd.Format("15:04"),
			})
		}
	}

	return slots, nil
}

// WithinWindows reports whether [start, end) fits inside the staff
// member's working windows for start's date. Used when re-validating a
// concrete interval (create, reschedule) instead of a whole day.
func (uc *GetAvailability) WithinWindows(
	ctx context.Context,
	businessID uint,
	staffID uint,
	start time.Time,
	end time.Time,
) (bool, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return false, err
	}

	loc := timezone.Location(biz.Timezone)
	start = start.In(loc)
	end = end.In(loc)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	windows, err := uc.resolveWindows(ctx, biz, staffID, day)
	if err != nil {
		return false, err
	}

	for _, w := range windows {
		windowStart := schedule.At(day, w.Start, loc)
		windowEnd := schedule.At(day, w.End, loc)
		if !start.Before(windowStart) && !end.After(windowEnd) {
			return true, nil
		}
	}

	return false, nil
}

// resolveWindows applies the layering rules. An empty result means the
// day is closed. Misconfigured overrides fail closed.
func (uc *GetAvailability) resolveWindows(
	ctx context.Context,
	biz *models.Business,
	staffID uint,
	day time.Time,
) ([]schedule.Window, error) {

	blocked, err := uc.repo.HasTimeOff(ctx, staffID, day)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, nil
	}

	override, err := uc.repo.GetOverride(ctx, staffID, day)
	if err != nil {
		return nil, err
	}

	if override != nil {
		return overrideWindow(biz, override), nil
	}

	templates, err := uc.repo.ListShiftTemplates(ctx, staffID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}

	windows := make([]schedule.Window, 0, len(templates))
	for _, tpl := range templates {
		start, err := schedule.ParseClock(tpl.StartTime)
		if err != nil {
			continue
		}
		end, err := schedule.ParseClock(tpl.EndTime)
		if err != nil {
			continue
		}
		windows = append(windows, schedule.Window{Start: start, End: end})
	}

	return schedule.Merge(windows), nil
}

// overrideWindow turns a single override row into the day's only window.
// An available override without hours falls back to the business default
// window; with no default configured the day stays closed.
func overrideWindow(biz *models.Business, ov *models.AvailabilityOverride) []schedule.Window {
	if !ov.IsAvailable {
		return nil
	}

	startStr, endStr := "", ""
	if ov.StartTime != nil && ov.EndTime != nil {
		startStr, endStr = *ov.StartTime, *ov.EndTime
	} else if biz.DefaultDayStart != "" && biz.DefaultDayEnd != "" {
		startStr, endStr = biz.DefaultDayStart, biz.DefaultDayEnd
	} else {
		return nil
	}

	start, err := schedule.ParseClock(startStr)
	if err != nil {
		return nil
	}
	end, err := schedule.ParseClock(endStr)
	if err != nil {
		return nil
	}

	w := schedule.Window{Start: start, End: end}
	if !w.Valid() {
		return nil
	}
	return []schedule.Window{w}
}

func (uc *GetAvailability) minLead(biz *models.Business) int {
	if biz.MinLeadMinutes > 0 {
		return biz.MinLeadMinutes
	}
	return uc.defaultMinLeadMinutes
}

func (uc *GetAvailability) horizonDays(biz *models.Business) int {
	if biz.HorizonDays > 0 {
		return biz.HorizonDays
	}
	return uc.defaultHorizonDays
}

func (uc *GetAvailability) beyondHorizon(biz *models.Business, day, now time.Time) bool {
	horizon := uc.horizonDays(biz)
	if horizon <= 0 {
		return false
	}
	limit := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, horizon)
	return day.After(limit)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func overlapsAny(start, end time.Time, bookings []models.Booking) bool {
	for _, b := range bookings {
		if domain.Overlaps(start, end, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}
