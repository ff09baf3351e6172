package dispatcher

import (
	"fmt"
	"time"

	"peerlift/src/timer"
	"peerlift/src/types"
)

type State int

const (
	StateNew State = iota
	StateRemoteCabWatch
	StateBidding
	StateCompletionWatch
	StateClaim
	StateAwaitLocalCompletion
	StateDone
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "New"
	case StateRemoteCabWatch:
		return "RemoteCabWatch"
	case StateBidding:
		return "Bidding"
	case StateCompletionWatch:
		return "CompletionWatch"
	case StateClaim:
		return "Claim"
	case StateAwaitLocalCompletion:
		return "AwaitLocalCompletion"
	case StateDone:
		return "Done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Task tracks one outstanding request through the bidding protocol.
// claimed and fulfilled are latched by inbound events and only read when the
// registry steps the task.
type Task struct {
	types.Order
	State       State
	Deadline    timer.Deadline
	FulfilledAt time.Time

	claimed   bool
	fulfilled bool
}

func newTask(order types.Order) Task {
	return Task{Order: order, State: StateNew}
}

// matches reports whether order identifies this task. Hall calls are
// identified by floor and direction; cab calls also by their owning node.
func (t *Task) matches(order types.Order) bool {
	if t.Request != order.Request {
		return false
	}
	return !t.IsCab() || t.Origin == order.Origin
}

func (t *Task) reset(origin int) {
	t.State = StateNew
	t.Origin = origin
	t.claimed = false
	t.fulfilled = false
	t.FulfilledAt = time.Time{}
}
