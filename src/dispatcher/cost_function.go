package dispatcher

import (
	"time"

	"peerlift/src/config"
	"peerlift/src/types"
)

// CostModel turns a node's view of a task into a bid delay. Every node bids on
// every task it sees; the node whose delay expires first claims the task. The
// node id term is the only tie-breaker between otherwise equal nodes.
type CostModel struct {
	w         config.CostWeights
	numFloors int
}

func NewCostModel(t config.Tunables) CostModel {
	return CostModel{w: t.Cost, numFloors: t.NumFloors}
}

// BidDelay is the time to wait before claiming task. It has no side effects.
//   - empty queue: own cab calls are claimed almost at once, hall calls wait
//     in proportion to the distance from the car
//   - busy car: the delay shrinks with how well task lies on the current path
//     and grows with the queue length
//   - a task at the head-of-queue floor, or an own cab call, only pays the
//     base delay
func (c CostModel) BidDelay(task Task, others []Task, queue []types.Order, currentFloor, lastFloor, nodeID int) time.Duration {
	ownCab := task.IsCab() && task.Origin == nodeID
	if len(queue) == 0 {
		if ownCab {
			return c.w.IdleCab
		}
		distance := c.distance(task.Floor, currentFloor, lastFloor)
		return c.w.IdleBase +
			c.w.IdleDistance*time.Duration(distance) +
			c.w.IDTiebreak*time.Duration(nodeID) +
			c.w.PendingBidPenalty*time.Duration(pendingBids(task, others))
	}

	head := queue[0]
	if ownCab || task.Floor == head.Floor {
		return c.w.BusyBase
	}
	score := c.score(task.Floor, head, currentFloor, lastFloor)
	return c.w.BusyBase +
		c.w.BusySpread/time.Duration(score) +
		c.w.QueuePenalty*time.Duration(len(queue)) +
		c.w.IDTiebreak*time.Duration(nodeID)
}

// CompletionDelay is how long to wait for a claimant to fulfil task before
// taking it over. It scales with the shaft height so a busy claimant is not
// pre-empted.
func (c CostModel) CompletionDelay(task Task, others []Task, queue []types.Order, currentFloor, lastFloor, nodeID int) time.Duration {
	return c.w.CompletionPerFloor*time.Duration(c.numFloors) +
		c.BidDelay(task, others, queue, currentFloor, lastFloor, nodeID)
}

// score rates how well target fits the car's path, in [1, numFloors+2].
// Higher is better.
func (c CostModel) score(target int, head types.Order, currentFloor, lastFloor int) int {
	ref := lastFloor
	if ref == types.BetweenFloors {
		ref = currentFloor
	}
	if ref == types.BetweenFloors {
		return 1
	}
	dir := travelDirection(currentFloor, lastFloor, head.Floor)
	dist := abs(target - ref)
	towards := (dir == types.MD_Up && ref < target) || (dir == types.MD_Down && ref > target)

	score := 1
	switch head.Button {
	case types.BT_Cab:
		if towards {
			score = c.numFloors + 2 - dist
		}
	case types.BT_HallUp:
		if dir == types.MD_Up && ref < target {
			score = c.numFloors + 2 - dist
		} else if dir == types.MD_Down && ref > target {
			score = c.numFloors + 1 - dist
		}
	case types.BT_HallDown:
		if dir == types.MD_Down && ref > target {
			score = c.numFloors + 2 - dist
		} else if dir == types.MD_Up && ref < target {
			score = c.numFloors + 1 - dist
		}
	}
	return min(max(score, 1), c.numFloors+2)
}

func (c CostModel) distance(target, currentFloor, lastFloor int) int {
	from := currentFloor
	if from == types.BetweenFloors {
		from = lastFloor
	}
	if from == types.BetweenFloors {
		return c.numFloors
	}
	return abs(target - from)
}

// travelDirection compares the floor the car is at with the one it last
// stood at. Without that information it assumes the car heads for its
// current target.
func travelDirection(currentFloor, lastFloor, headFloor int) types.MotorDirection {
	if currentFloor != types.BetweenFloors && lastFloor != types.BetweenFloors && currentFloor != lastFloor {
		return types.DirectionTo(lastFloor, currentFloor)
	}
	if lastFloor != types.BetweenFloors {
		if dir := types.DirectionTo(lastFloor, headFloor); dir != types.MD_Stop {
			return dir
		}
	}
	return types.MD_Down
}

// pendingBids counts the other tasks still waiting to be claimed.
func pendingBids(task Task, others []Task) int {
	n := 0
	for i := range others {
		other := &others[i]
		if other.matches(task.Order) {
			continue
		}
		if other.State == StateNew || other.State == StateBidding {
			n++
		}
	}
	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
