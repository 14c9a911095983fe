package booking

// ===============================
// Booking status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Actors allowed to mutate a booking; stamped on every write.
const (
	ActorBusiness = "business"
	ActorCustomer = "customer"
	ActorSystem   = "system"
)

// ActiveStatuses are the statuses that hold a slot and count toward the
// duplicate-booking rule.
func ActiveStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}

func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition validates a state-machine edge. cancelled and completed
// are terminal.
func CanTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if to == allowed {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

func InitialStatus() Status {
	return StatusPending
}
