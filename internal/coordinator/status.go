package coordinator

// Status is the lifecycle state of a saga.
type Status string

const (
	StatusPending      Status = "PENDING"
	StatusRunning      Status = "RUNNING"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
	StatusCancelled    Status = "CANCELLED"
)

// transitions lists every legal edge of the saga state machine.
// PENDING→COMPENSATING covers a Cancel that wins the race against a Run
// that has not been scheduled yet.
var transitions = map[Status][]Status{
	StatusPending:      {StatusRunning, StatusCompensating},
	StatusRunning:      {StatusCompleted, StatusCompensating},
	StatusCompleted:    {StatusCompensating},
	StatusCompensating: {StatusFailed, StatusCancelled},
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// CanTransition reports whether from→to is an edge of the state machine.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }
