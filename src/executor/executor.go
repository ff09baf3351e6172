// Package executor drives one physical car through its drive queue.
package executor

import (
	"slices"
	"time"

	"peerlift/src/config"
	"peerlift/src/logger"
	"peerlift/src/timer"
	"peerlift/src/types"
)

var log = logger.Get()

// Hardware is the capability set of one car. Any error is fatal to the node.
type Hardware interface {
	GetFloor() (int, error)
	GetButton(button types.ButtonType, floor int) (bool, error)
	GetStop() (bool, error)
	SetMotorDirection(dir types.MotorDirection) error
	SetButtonLamp(button types.ButtonType, floor int, value bool) error
	SetFloorIndicator(floor int) error
	SetDoorOpenLamp(value bool) error
	SetStopLamp(value bool) error
}

// Publisher receives the events the engine reports outward.
type Publisher interface {
	Publish(ev types.Event)
}

// Engine is the single owner of a car and its drive queue. It is not safe
// for concurrent use; the node's tick loop is its only caller.
type Engine struct {
	hw        Hardware
	pub       Publisher
	clock     timer.Clock
	nodeID    int
	numFloors int

	queue       []types.Order
	door        door
	floor       int
	lastFloor   int
	passedFloor int
	indicator   int
	motor       types.MotorDirection
	motorSet    bool
	stopped     bool
	pressed     [][len(types.ButtonTypes)]bool
}

func New(hw Hardware, pub Publisher, clock timer.Clock, nodeID int, tunables config.Tunables) *Engine {
	return &Engine{
		hw:          hw,
		pub:         pub,
		clock:       clock,
		nodeID:      nodeID,
		numFloors:   tunables.NumFloors,
		door:        door{dwell: tunables.DoorOpenDuration},
		floor:       types.BetweenFloors,
		lastFloor:   types.BetweenFloors,
		passedFloor: types.BetweenFloors,
		indicator:   types.BetweenFloors,
		pressed:     make([][len(types.ButtonTypes)]bool, tunables.NumFloors),
	}
}

// Init switches every lamp off and, if the car is between floors, starts
// moving it down so the first tick that sees a floor can settle there.
func (e *Engine) Init() error {
	var err error
	forEachButton(e.numFloors, func(btn types.ButtonType, floor int) {
		if err == nil {
			err = e.hw.SetButtonLamp(btn, floor, false)
		}
	})
	if err != nil {
		return err
	}
	if err := e.hw.SetDoorOpenLamp(false); err != nil {
		return err
	}
	if err := e.hw.SetStopLamp(false); err != nil {
		return err
	}
	floor, err := e.hw.GetFloor()
	if err != nil {
		return err
	}
	e.floor = floor
	if floor == types.BetweenFloors {
		log.Info().Msg("No floor detected, moving down to first floor sensor")
		return e.setMotor(types.MD_Down)
	}
	e.lastFloor = floor
	e.passedFloor = floor
	return e.setMotor(types.MD_Stop)
}

// Tick advances the car one scheduling step:
//   - keeps the door open for the dwell time, then closes it
//   - otherwise moves towards the head of the drive queue, serving it on arrival
//   - latches the stop signal
//   - reports newly pressed buttons as Request events
func (e *Engine) Tick() error {
	if !e.stopped {
		if err := e.drive(e.clock.Now()); err != nil {
			return err
		}
	}
	if err := e.checkStop(); err != nil {
		return err
	}
	return e.scanButtons()
}

func (e *Engine) drive(now time.Time) error {
	if e.door.open {
		if e.door.holding(now) {
			return nil
		}
		return e.closeDoor()
	}

	floor, err := e.hw.GetFloor()
	if err != nil {
		return err
	}
	e.floor = floor

	if floor == types.BetweenFloors {
		if len(e.queue) == 0 {
			return e.setMotor(types.MD_Down)
		}
		return e.setMotor(e.directionBetweenFloors(e.queue[0].Floor))
	}

	e.passedFloor = floor
	if floor != e.indicator {
		if err := e.hw.SetFloorIndicator(floor); err != nil {
			return err
		}
		e.indicator = floor
	}

	if len(e.queue) == 0 {
		e.lastFloor = floor
		return e.setMotor(types.MD_Stop)
	}

	head := e.queue[0]
	if dir := types.DirectionTo(floor, head.Floor); dir != types.MD_Stop {
		return e.setMotor(dir)
	}
	return e.arrive(floor, now)
}

// directionBetweenFloors picks a direction while the floor sensor is silent.
// When the target is the floor just left, the car turns around. A car that
// has not sensed any floor yet keeps homing.
func (e *Engine) directionBetweenFloors(target int) types.MotorDirection {
	if e.passedFloor == types.BetweenFloors {
		if e.motor != types.MD_Stop {
			return e.motor
		}
		return types.MD_Down
	}
	if dir := types.DirectionTo(e.passedFloor, target); dir != types.MD_Stop {
		return dir
	}
	if e.motor == types.MD_Down {
		return types.MD_Up
	}
	return types.MD_Down
}

func (e *Engine) arrive(floor int, now time.Time) error {
	if err := e.setMotor(types.MD_Stop); err != nil {
		return err
	}
	if err := e.openDoor(now); err != nil {
		return err
	}
	e.lastFloor = floor
	for _, order := range e.takeOrdersAt(floor) {
		log.Info().Stringer("request", order.Request).Int("origin", order.Origin).Msg("Order fulfilled")
		e.pub.Publish(types.NewEvent(types.VerbFulfilled, order))
	}
	return nil
}

func (e *Engine) checkStop() error {
	stop, err := e.hw.GetStop()
	if err != nil {
		return err
	}
	if !stop || e.stopped {
		return nil
	}
	log.Warn().Int("floor", e.floor).Msg("Stop signal asserted, halting car")
	e.stopped = true
	if err := e.hw.SetMotorDirection(types.MD_Stop); err != nil {
		return err
	}
	e.motor = types.MD_Stop
	return e.hw.SetStopLamp(true)
}

func (e *Engine) setMotor(dir types.MotorDirection) error {
	if e.motorSet && e.motor == dir {
		return nil
	}
	if err := e.hw.SetMotorDirection(dir); err != nil {
		return err
	}
	log.Debug().Stringer("direction", dir).Int("floor", e.floor).Msg("Motor direction changed")
	e.motor = dir
	e.motorSet = true
	return nil
}

// CurrentFloor is the floor the car was level with at the last tick, or
// types.BetweenFloors.
func (e *Engine) CurrentFloor() int { return e.floor }

// LastFloor is the floor the car last stood at.
func (e *Engine) LastFloor() int { return e.lastFloor }

func (e *Engine) Motor() types.MotorDirection { return e.motor }

func (e *Engine) Stopped() bool { return e.stopped }

func (e *Engine) DoorOpen() bool { return e.door.open }

// Queue returns a copy of the drive queue, head first.
func (e *Engine) Queue() []types.Order {
	return slices.Clone(e.queue)
}
