// Package elevio talks to the elevator server over its 4-byte TCP protocol.
// Every call is a short blocking round trip; any I/O failure is returned to
// the caller, which treats it as fatal.
package elevio

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"peerlift/src/types"
)

const ioTimeout = time.Second

var ErrNotConnected = errors.New("elevio: not connected")

const (
	cmdMotor       = 1
	cmdButtonLamp  = 2
	cmdFloorLamp   = 3
	cmdDoorLamp    = 4
	cmdStopLamp    = 5
	cmdButton      = 6
	cmdFloorSensor = 7
	cmdStop        = 8
	cmdObstruction = 9
)

// Driver owns the connection to one elevator server.
type Driver struct {
	mtx  sync.Mutex
	conn net.Conn
}

// Dial connects to the elevator server at addr.
func Dial(addr string) (*Driver, error) {
	conn, err := net.DialTimeout("tcp", addr, ioTimeout)
	if err != nil {
		return nil, fmt.Errorf("connecting to elevator server at %s: %w", addr, err)
	}
	return New(conn), nil
}

// New wraps an established connection.
func New(conn net.Conn) *Driver {
	return &Driver{conn: conn}
}

func (d *Driver) Close() error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

func (d *Driver) SetMotorDirection(dir types.MotorDirection) error {
	return d.write([4]byte{cmdMotor, byte(dir), 0, 0})
}

func (d *Driver) SetButtonLamp(button types.ButtonType, floor int, value bool) error {
	return d.write([4]byte{cmdButtonLamp, byte(button), byte(floor), toByte(value)})
}

func (d *Driver) SetFloorIndicator(floor int) error {
	return d.write([4]byte{cmdFloorLamp, byte(floor), 0, 0})
}

func (d *Driver) SetDoorOpenLamp(value bool) error {
	return d.write([4]byte{cmdDoorLamp, toByte(value), 0, 0})
}

func (d *Driver) SetStopLamp(value bool) error {
	return d.write([4]byte{cmdStopLamp, toByte(value), 0, 0})
}

func (d *Driver) GetButton(button types.ButtonType, floor int) (bool, error) {
	a, err := d.read([4]byte{cmdButton, byte(button), byte(floor), 0})
	return toBool(a[1]), err
}

// GetFloor returns the floor the car is level with, or types.BetweenFloors.
func (d *Driver) GetFloor() (int, error) {
	a, err := d.read([4]byte{cmdFloorSensor, 0, 0, 0})
	if err != nil {
		return types.BetweenFloors, err
	}
	if a[1] != 0 {
		return int(a[2]), nil
	}
	return types.BetweenFloors, nil
}

func (d *Driver) GetStop() (bool, error) {
	a, err := d.read([4]byte{cmdStop, 0, 0, 0})
	return toBool(a[1]), err
}

func (d *Driver) GetObstruction() (bool, error) {
	a, err := d.read([4]byte{cmdObstruction, 0, 0, 0})
	return toBool(a[1]), err
}

func (d *Driver) read(in [4]byte) ([4]byte, error) {
	var out [4]byte
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if d.conn == nil {
		return out, ErrNotConnected
	}
	if err := d.conn.SetDeadline(time.Now().Add(ioTimeout)); err != nil {
		return out, fmt.Errorf("elevio: %w", err)
	}
	if _, err := d.conn.Write(in[:]); err != nil {
		return out, fmt.Errorf("elevio: lost connection to elevator server: %w", err)
	}
	if _, err := io.ReadFull(d.conn, out[:]); err != nil {
		return out, fmt.Errorf("elevio: lost connection to elevator server: %w", err)
	}
	return out, nil
}

func (d *Driver) write(in [4]byte) error {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	if d.conn == nil {
		return ErrNotConnected
	}
	if err := d.conn.SetWriteDeadline(time.Now().Add(ioTimeout)); err != nil {
		return fmt.Errorf("elevio: %w", err)
	}
	if _, err := d.conn.Write(in[:]); err != nil {
		return fmt.Errorf("elevio: lost connection to elevator server: %w", err)
	}
	return nil
}

func toByte(a bool) byte {
	if a {
		return 1
	}
	return 0
}

func toBool(a byte) bool {
	return a != 0
}
