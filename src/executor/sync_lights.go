package executor

import (
	"peerlift/src/types"
	"peerlift/src/utils"
)

// SetIndicator switches the call lamp for button at floor.
func (e *Engine) SetIndicator(button types.ButtonType, floor int, on bool) error {
	return e.hw.SetButtonLamp(button, floor, on)
}

// scanButtons publishes a Request for every button that went from released
// to pressed since the last scan.
func (e *Engine) scanButtons() error {
	var err error
	forEachButton(e.numFloors, func(btn types.ButtonType, floor int) {
		if err != nil {
			return
		}
		var v bool
		if v, err = e.hw.GetButton(btn, floor); err != nil {
			return
		}
		if v && !e.pressed[floor][btn] {
			req := types.Request{Floor: floor, Button: btn}
			log.Debug().Stringer("request", req).Msg("Button pressed")
			e.pub.Publish(types.Event{Verb: types.VerbRequest, Request: req, Origin: e.nodeID})
		}
		e.pressed[floor][btn] = v
	})
	return err
}

func forEachButton(numFloors int, action func(btn types.ButtonType, floor int)) {
	utils.ForEachButton(numFloors, action)
}
