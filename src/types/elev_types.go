package types

// BetweenFloors is returned by floor sensors and floor accessors when the car
// is not level with any floor. It never collides with a valid floor index.
const BetweenFloors = -1

type MotorDirection int

const (
	MD_Up   MotorDirection = 1
	MD_Down MotorDirection = -1
	MD_Stop MotorDirection = 0
)

func (d MotorDirection) String() string {
	switch d {
	case MD_Up:
		return "up"
	case MD_Down:
		return "down"
	}
	return "stop"
}

// DirectionTo returns the motor direction that moves a car at from towards to.
func DirectionTo(from, to int) MotorDirection {
	switch {
	case from < to:
		return MD_Up
	case from > to:
		return MD_Down
	}
	return MD_Stop
}
