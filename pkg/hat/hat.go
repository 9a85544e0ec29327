// Package hat is the actuator driver boundary: DC motors on a PCA9685-based motor hat.
//
// Neither the driver nor its motors are safe for concurrent use. They share one bus
// handle and must be driven from a single goroutine.
package hat

import (
	"errors"
	"fmt"
)

// ErrUnknownPort is returned for a port the hat does not have.
var ErrUnknownPort = errors.New("unknown motor port")

// ErrPortInUse is returned when a port already has a motor handle.
var ErrPortInUse = errors.New("motor port already in use")

// Port identifies a DC motor terminal on the hat.
type Port int

const (
	Motor1 Port = iota + 1
	Motor2
	Motor3
	Motor4
)

func (p Port) String() string {
	if p < Motor1 || p > Motor4 {
		return fmt.Sprintf("Port(%d)", int(p))
	}
	return fmt.Sprintf("M%d", int(p))
}

// Motor is a single DC motor.
type Motor interface {
	// SetThrottle drives the motor at throttle in [-1, 1]; negative runs in reverse
	// and zero releases it.
	SetThrottle(throttle float32) error
}

// Driver owns the shared PWM controller and hands out motor handles.
type Driver interface {
	Motor(port Port) (Motor, error)
	Close() error
}

// Opener opens the actuator driver. It is called once, after shutdown signals are
// intercepted.
type Opener func() (Driver, error)
