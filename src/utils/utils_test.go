package utils

import (
	"testing"

	"peerlift/src/types"
)

func TestForEachButtonSkipsMissingHallButtons(t *testing.T) {
	seen := map[types.Request]bool{}
	ForEachButton(4, func(btn types.ButtonType, floor int) {
		seen[types.Request{Floor: floor, Button: btn}] = true
	})

	if len(seen) != 10 {
		t.Errorf("ForEachButton(4) visited %d buttons, expected 10", len(seen))
	}
	if seen[types.Request{Floor: 3, Button: types.BT_HallUp}] {
		t.Errorf("visited HallUp on the top floor")
	}
	if seen[types.Request{Floor: 0, Button: types.BT_HallDown}] {
		t.Errorf("visited HallDown on the bottom floor")
	}
	if !seen[types.Request{Floor: 0, Button: types.BT_Cab}] || !seen[types.Request{Floor: 3, Button: types.BT_Cab}] {
		t.Errorf("cab buttons missing at shaft ends")
	}
}
