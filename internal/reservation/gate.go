package reservation

// Decision is the outcome of a requested status change.
type Decision int

const (
	DecisionRejected Decision = iota
	DecisionProceed
	DecisionNeedsRoomAssignment
)

func (d Decision) String() string {
	switch d {
	case DecisionProceed:
		return "proceed"
	case DecisionNeedsRoomAssignment:
		return "needs_room_assignment"
	}
	return "rejected"
}

var allowedTransitions = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	m, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

// Decide has no side effects. Confirming a reservation that has no room is
// deferred until a room is assigned.
func Decide(current, target Status, hasRoom bool) Decision {
	if !CanTransition(current, target) {
		return DecisionRejected
	}
	if target == StatusConfirmed && !hasRoom {
		return DecisionNeedsRoomAssignment
	}
	return DecisionProceed
}
