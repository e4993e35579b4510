package reservation

import "testing"

func TestDecide(t *testing.T) {
	cases := []struct {
		current, target Status
		hasRoom         bool
		want            Decision
	}{
		{StatusPending, StatusConfirmed, true, DecisionProceed},
		{StatusPending, StatusConfirmed, false, DecisionNeedsRoomAssignment},
		{StatusPending, StatusCancelled, false, DecisionProceed},
		{StatusPending, StatusCancelled, true, DecisionProceed},
		{StatusPending, StatusPending, false, DecisionRejected},
		{StatusConfirmed, StatusCancelled, true, DecisionRejected},
		{StatusConfirmed, StatusPending, true, DecisionRejected},
		{StatusCancelled, StatusConfirmed, true, DecisionRejected},
		{StatusCancelled, StatusPending, false, DecisionRejected},
	}
	for _, c := range cases {
		if got := Decide(c.current, c.target, c.hasRoom); got != c.want {
			t.Fatalf("Decide(%s, %s, %v) = %s, want %s", c.current, c.target, c.hasRoom, got, c.want)
		}
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	for _, from := range []Status{StatusConfirmed, StatusCancelled} {
		for _, to := range []Status{StatusPending, StatusConfirmed, StatusCancelled} {
			if CanTransition(from, to) {
				t.Fatalf("expected %s -> %s to be rejected", from, to)
			}
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	if CanTransition(Status("ARCHIVED"), StatusPending) {
		t.Fatal("expected unknown status to have no transitions")
	}
}
