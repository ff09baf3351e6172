// Package elevsim is an in-process car with the same call surface as the
// elevio driver. The car moves half a floor per Step in the direction the
// motor was last set to.
package elevsim

import (
	"fmt"
	"sync"

	"peerlift/src/types"
)

type lampKey struct {
	button types.ButtonType
	floor  int
}

type Car struct {
	mu        sync.Mutex
	numFloors int
	pos       int // in half floors; even positions are level with a floor
	motor     types.MotorDirection
	buttons   map[lampKey]bool
	lamps     map[lampKey]bool
	door      bool
	doorOpens int
	indicator int
	stop      bool
	stopLamp  bool
	fault     error
}

// New returns a car resting at floor, or between floor and floor+1 when
// between is set.
func New(numFloors, floor int, between bool) *Car {
	pos := 2 * floor
	if between {
		pos++
	}
	return &Car{
		numFloors: numFloors,
		pos:       pos,
		buttons:   make(map[lampKey]bool),
		lamps:     make(map[lampKey]bool),
		indicator: -1,
	}
}

// Step moves the car half a floor along the motor direction.
func (c *Car) Step() {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.pos + int(c.motor)
	if next < 0 || next > 2*(c.numFloors-1) {
		return
	}
	c.pos = next
}

func (c *Car) Press(button types.ButtonType, floor int) {
	c.setButton(button, floor, true)
}

func (c *Car) Release(button types.ButtonType, floor int) {
	c.setButton(button, floor, false)
}

func (c *Car) setButton(button types.ButtonType, floor int, v bool) {
	c.mu.Lock()
	c.buttons[lampKey{button, floor}] = v
	c.mu.Unlock()
}

func (c *Car) SetStopSignal(v bool) {
	c.mu.Lock()
	c.stop = v
	c.mu.Unlock()
}

// Fail makes every subsequent call return err.
func (c *Car) Fail(err error) {
	c.mu.Lock()
	c.fault = err
	c.mu.Unlock()
}

func (c *Car) Floor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.floorLocked()
}

func (c *Car) floorLocked() int {
	if c.pos%2 != 0 {
		return types.BetweenFloors
	}
	return c.pos / 2
}

func (c *Car) Motor() types.MotorDirection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.motor
}

func (c *Car) Lamp(button types.ButtonType, floor int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lamps[lampKey{button, floor}]
}

func (c *Car) DoorOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.door
}

// DoorOpenings counts off-to-on transitions of the door lamp.
func (c *Car) DoorOpenings() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doorOpens
}

func (c *Car) FloorIndicator() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indicator
}

func (c *Car) StopLamp() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLamp
}

func (c *Car) SetMotorDirection(dir types.MotorDirection) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fault != nil {
		return c.fault
	}
	c.motor = dir
	return nil
}

func (c *Car) SetButtonLamp(button types.ButtonType, floor int, value bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fault != nil {
		return c.fault
	}
	if floor < 0 || floor >= c.numFloors {
		return fmt.Errorf("elevsim: lamp floor %d out of range", floor)
	}
	c.lamps[lampKey{button, floor}] = value
	return nil
}

func (c *Car) SetFloorIndicator(floor int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fault != nil {
		return c.fault
	}
	c.indicator = floor
	return nil
}

func (c *Car) SetDoorOpenLamp(value bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fault != nil {
		return c.fault
	}
	if value && !c.door {
		c.doorOpens++
	}
	c.door = value
	return nil
}

func (c *Car) SetStopLamp(value bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fault != nil {
		return c.fault
	}
	c.stopLamp = value
	return nil
}

func (c *Car) GetButton(button types.ButtonType, floor int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fault != nil {
		return false, c.fault
	}
	return c.buttons[lampKey{button, floor}], nil
}

func (c *Car) GetFloor() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fault != nil {
		return types.BetweenFloors, c.fault
	}
	return c.floorLocked(), nil
}

func (c *Car) GetStop() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fault != nil {
		return false, c.fault
	}
	return c.stop, nil
}
