package dispatcher

import (
	"testing"
	"time"

	"peerlift/src/config"
	"peerlift/src/types"
)

func hallTask(floor int, btn types.ButtonType, origin int) Task {
	return newTask(types.Order{Request: types.Request{Floor: floor, Button: btn}, Origin: origin})
}

func TestIdleBidDelay(t *testing.T) {
	cost := NewCostModel(config.Defaults())
	testCases := []struct {
		name     string
		task     Task
		current  int
		last     int
		nodeID   int
		expected time.Duration
	}{
		{"own cab call", hallTask(3, types.BT_Cab, 1), 0, 0, 1, 20 * time.Millisecond},
		{"hall call at the car", hallTask(0, types.BT_HallUp, 2), 0, 0, 1, 1150 * time.Millisecond},
		{"hall call two floors away", hallTask(2, types.BT_HallDown, 2), 0, 0, 1, 2150 * time.Millisecond},
		{"higher node id", hallTask(2, types.BT_HallDown, 2), 0, 0, 3, 2450 * time.Millisecond},
		{"between floors uses last floor", hallTask(3, types.BT_HallDown, 2), types.BetweenFloors, 1, 0, 2000 * time.Millisecond},
	}
	for _, tc := range testCases {
		got := cost.BidDelay(tc.task, nil, nil, tc.current, tc.last, tc.nodeID)
		if got != tc.expected {
			t.Errorf("%s: BidDelay() = %v, expected %v", tc.name, got, tc.expected)
		}
	}
}

func TestIdleBidDelayCountsPendingBids(t *testing.T) {
	cost := NewCostModel(config.Defaults())
	task := hallTask(1, types.BT_HallUp, 1)
	bidding := hallTask(2, types.BT_HallUp, 1)
	bidding.State = StateBidding
	watching := hallTask(3, types.BT_HallDown, 1)
	watching.State = StateCompletionWatch
	others := []Task{task, bidding, watching}

	alone := cost.BidDelay(task, nil, nil, 0, 0, 0)
	crowded := cost.BidDelay(task, others, nil, 0, 0, 0)
	if crowded-alone != time.Millisecond {
		t.Errorf("pending bid penalty = %v, expected 1ms for the one other bidding task", crowded-alone)
	}
}

func TestBusyBidDelay(t *testing.T) {
	cost := NewCostModel(config.Defaults())
	headUp := []types.Order{{Request: types.Request{Floor: 3, Button: types.BT_HallUp}, Origin: 2}}

	// Car passing floor 1 on its way up from 0.
	onPath := cost.BidDelay(hallTask(2, types.BT_HallUp, 2), nil, headUp, 1, 0, 1)
	behind := cost.BidDelay(hallTask(0, types.BT_HallUp, 2), nil, headUp, 1, 0, 1)
	if onPath >= behind {
		t.Errorf("on-path delay %v not below behind-car delay %v", onPath, behind)
	}
	// score = 4+2-2 = 4: 2000 + 5000/4 + 2500 + 150
	if onPath != 5900*time.Millisecond {
		t.Errorf("on-path delay = %v, expected 5.9s", onPath)
	}
	// score = 1: 2000 + 5000 + 2500 + 150
	if behind != 9650*time.Millisecond {
		t.Errorf("behind-car delay = %v, expected 9.65s", behind)
	}
}

func TestBusyBidDelayShortCircuits(t *testing.T) {
	cost := NewCostModel(config.Defaults())
	queue := []types.Order{
		{Request: types.Request{Floor: 3, Button: types.BT_HallDown}, Origin: 2},
		{Request: types.Request{Floor: 1, Button: types.BT_Cab}, Origin: 1},
	}
	sameFloor := cost.BidDelay(hallTask(3, types.BT_HallUp, 2), nil, queue, 0, 0, 4)
	ownCab := cost.BidDelay(hallTask(0, types.BT_Cab, 4), nil, queue, 0, 0, 4)
	for name, got := range map[string]time.Duration{"head floor": sameFloor, "own cab": ownCab} {
		if got != 2*time.Second {
			t.Errorf("%s: BidDelay() = %v, expected the 2s base only", name, got)
		}
	}
}

func TestScoreBounds(t *testing.T) {
	cost := NewCostModel(config.Defaults())
	for _, btn := range types.ButtonTypes {
		head := types.Order{Request: types.Request{Floor: 3, Button: btn}}
		for target := 0; target < 4; target++ {
			for last := 0; last < 4; last++ {
				for _, current := range []int{types.BetweenFloors, 0, 1, 2, 3} {
					s := cost.score(target, head, current, last)
					if s < 1 || s > 6 {
						t.Fatalf("score(%d, %v, %d, %d) = %d, outside [1, 6]", target, btn, current, last, s)
					}
				}
			}
		}
	}
}

func TestCompletionDelayExceedsBid(t *testing.T) {
	cost := NewCostModel(config.Defaults())
	task := hallTask(2, types.BT_HallUp, 1)
	bid := cost.BidDelay(task, nil, nil, 0, 0, 1)
	done := cost.CompletionDelay(task, nil, nil, 0, 0, 1)
	if done-bid != 12*time.Second {
		t.Errorf("CompletionDelay() - BidDelay() = %v, expected 12s for 4 floors", done-bid)
	}
}

func TestTravelDirection(t *testing.T) {
	testCases := []struct {
		current, last, head int
		expected            types.MotorDirection
	}{
		{2, 0, 3, types.MD_Up},
		{1, 3, 3, types.MD_Down},
		{types.BetweenFloors, 1, 3, types.MD_Up},
		{types.BetweenFloors, 2, 0, types.MD_Down},
		{2, 2, 2, types.MD_Down},
		{types.BetweenFloors, types.BetweenFloors, 2, types.MD_Down},
	}
	for _, tc := range testCases {
		if got := travelDirection(tc.current, tc.last, tc.head); got != tc.expected {
			t.Errorf("travelDirection(%d, %d, %d) = %v, expected %v", tc.current, tc.last, tc.head, got, tc.expected)
		}
	}
}
