package booking

import (
	"errors"
	"fmt"
	"time"
)

// ErrStoreUnavailable marks a store call that timed out or failed. Reads
// may be retried; a timed-out write has unknown outcome and must be
// reconciled by re-reading before any retry.
var ErrStoreUnavailable = errors.New("schedule store unavailable")

type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

// DuplicateActiveBookingError carries the conflicting booking so callers
// can show the client what they already hold.
type DuplicateActiveBookingError struct {
	BookingID uint
	Reference string
	Start     time.Time
	End       time.Time
}

func (e *DuplicateActiveBookingError) Error() string {
	return fmt.Sprintf("client already holds active booking %d (%s - %s)",
		e.BookingID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

type SlotTakenError struct {
	BookingID uint
	Start     time.Time
	End       time.Time
}

func (e *SlotTakenError) Error() string {
	return fmt.Sprintf("slot taken by booking %d (%s - %s)",
		e.BookingID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

type AlreadyRescheduledError struct {
	BookingID uint
}

func (e *AlreadyRescheduledError) Error() string {
	return fmt.Sprintf("booking %d was already rescheduled once", e.BookingID)
}
