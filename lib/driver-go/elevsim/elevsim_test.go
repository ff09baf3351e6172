package elevsim

import (
	"errors"
	"testing"

	"peerlift/src/types"
)

func TestCarMovesHalfFloorPerStep(t *testing.T) {
	car := New(4, 0, false)
	car.SetMotorDirection(types.MD_Up)

	expected := []int{types.BetweenFloors, 1, types.BetweenFloors, 2}
	for i, floor := range expected {
		car.Step()
		if got := car.Floor(); got != floor {
			t.Errorf("after step %d Floor() = %d, expected %d", i+1, got, floor)
		}
	}
}

func TestCarStaysInShaft(t *testing.T) {
	car := New(2, 0, false)
	car.SetMotorDirection(types.MD_Down)
	car.Step()
	if got := car.Floor(); got != 0 {
		t.Errorf("car left the bottom of the shaft: Floor() = %d", got)
	}
}

func TestCarFault(t *testing.T) {
	car := New(4, 0, false)
	boom := errors.New("boom")
	car.Fail(boom)
	if _, err := car.GetFloor(); !errors.Is(err, boom) {
		t.Errorf("GetFloor() returned %v, expected injected fault", err)
	}
	if err := car.SetDoorOpenLamp(true); !errors.Is(err, boom) {
		t.Errorf("SetDoorOpenLamp() returned %v, expected injected fault", err)
	}
}
