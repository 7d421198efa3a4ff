package booking

// Status is the lifecycle state of a booking. Transitions are append-only:
// a cancelled booking is never resurrected.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// BlocksSchedule reports whether a booking in this status occupies its staff
// member's time. Cancelled and no-show bookings are excluded from every
// conflict and capacity computation.
func (s Status) BlocksSchedule() bool {
	return s != StatusCancelled && s != StatusNoShow
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusDone, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusDraft:     {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusDone, StatusCancelled, StatusNoShow},
}

// CanTransition reports whether from -> to is a legal lifecycle step.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Source records how the booking entered the system.
type Source string

const (
	SourceManual Source = "manual"
	SourceOnline Source = "online"
)
