package executor

import "time"

type door struct {
	dwell    time.Duration
	open     bool
	openedAt time.Time
}

// holding reports whether the door must stay open at now.
func (d door) holding(now time.Time) bool {
	return now.Sub(d.openedAt) < d.dwell
}

func (e *Engine) openDoor(now time.Time) error {
	if err := e.hw.SetDoorOpenLamp(true); err != nil {
		return err
	}
	e.door.open = true
	e.door.openedAt = now
	log.Debug().Int("floor", e.floor).Msg("Door opened")
	return nil
}

func (e *Engine) closeDoor() error {
	if err := e.hw.SetDoorOpenLamp(false); err != nil {
		return err
	}
	e.door.open = false
	log.Debug().Int("floor", e.floor).Msg("Door closed")
	return nil
}
