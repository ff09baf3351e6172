package utils

import "peerlift/src/types"

// ForEachButton calls action for every button that exists on a shaft with
// numFloors floors. There is no HallUp at the top floor and no HallDown at
// the bottom floor.
func ForEachButton(numFloors int, action func(btn types.ButtonType, floor int)) {
	for floor := 0; floor < numFloors; floor++ {
		for _, btn := range types.ButtonTypes {
			if btn == types.BT_HallUp && floor == numFloors-1 {
				continue
			}
			if btn == types.BT_HallDown && floor == 0 {
				continue
			}
			action(btn, floor)
		}
	}
}
