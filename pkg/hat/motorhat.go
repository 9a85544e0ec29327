package hat

import (
	"fmt"
	"io"
	"math"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/pca9685"
	"periph.io/x/host/v3"
)

// pwmSteps is the PCA9685 resolution: counts per PWM period.
const pwmSteps = 4096

// PWM is the subset of the PCA9685 controller used by the hat.
// Duty values are raw counts out of pwmSteps.
type PWM interface {
	SetPwm(channel int, on, off gpio.Duty) error
	SetFullOn(channel int) error
	SetFullOff(channel int) error
}

type motorPins struct {
	pwm, in1, in2 int
}

// Channel assignment of the Adafruit DC motor hat.
var hatPins = map[Port]motorPins{
	Motor1: {pwm: 8, in1: 10, in2: 9},
	Motor2: {pwm: 13, in1: 11, in2: 12},
	Motor3: {pwm: 2, in1: 4, in2: 3},
	Motor4: {pwm: 7, in1: 5, in2: 6},
}

// MotorHat is a Driver for the Adafruit DC motor hat.
type MotorHat struct {
	pwm    PWM
	bus    io.Closer
	inUse  map[Port]bool
	closed bool
}

var _ Driver = (*MotorHat)(nil)

// OpenMotorHat opens the I2C bus at dev and configures the PCA9685 at addr.
func OpenMotorHat(dev string, addr uint16, freqHz int) (*MotorHat, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize host drivers: %w", err)
	}

	bus, err := i2creg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C device %s: %w", dev, err)
	}

	pwm, err := pca9685.NewI2C(bus, addr)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to initialize PWM controller at 0x%02x: %w", addr, err)
	}
	if err := pwm.SetPwmFreq(physic.Frequency(freqHz) * physic.Hertz); err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to set PWM frequency to %dHz: %w", freqHz, err)
	}

	return NewMotorHat(pwm, bus), nil
}

// NewMotorHat wraps an already configured PWM controller. bus may be nil.
func NewMotorHat(pwm PWM, bus io.Closer) *MotorHat {
	return &MotorHat{
		pwm:   pwm,
		bus:   bus,
		inUse: make(map[Port]bool),
	}
}

// Motor constructs the handle for port and leaves the motor released.
func (h *MotorHat) Motor(port Port) (Motor, error) {
	pins, ok := hatPins[port]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownPort, port)
	}
	if h.inUse[port] {
		return nil, fmt.Errorf("%w: %v", ErrPortInUse, port)
	}

	// Speed is modulated on the direction inputs, the enable channel stays on.
	if err := h.pwm.SetFullOn(pins.pwm); err != nil {
		return nil, fmt.Errorf("failed to enable motor %v: %w", port, err)
	}
	m := &dcMotor{port: port, pins: pins, pwm: h.pwm}
	if err := m.SetThrottle(0); err != nil {
		return nil, err
	}

	h.inUse[port] = true
	return m, nil
}

// Close releases the bus. Motors must not be used afterwards.
func (h *MotorHat) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	if h.bus == nil {
		return nil
	}
	return h.bus.Close()
}

type dcMotor struct {
	port Port
	pins motorPins
	pwm  PWM
}

func (m *dcMotor) SetThrottle(throttle float32) error {
	if math.IsNaN(float64(throttle)) {
		return fmt.Errorf("motor %v: throttle is NaN", m.port)
	}
	if throttle > 1 {
		throttle = 1
	} else if throttle < -1 {
		throttle = -1
	}

	duty := dutyFor(throttle)
	var err error
	switch {
	case throttle > 0:
		err = m.set(m.pins.in2, 0)
		if err == nil {
			err = m.set(m.pins.in1, duty)
		}
	case throttle < 0:
		err = m.set(m.pins.in1, 0)
		if err == nil {
			err = m.set(m.pins.in2, duty)
		}
	default:
		err = m.set(m.pins.in1, 0)
		if err == nil {
			err = m.set(m.pins.in2, 0)
		}
	}
	if err != nil {
		return fmt.Errorf("motor %v: failed to set throttle %.3f: %w", m.port, throttle, err)
	}
	return nil
}

func (m *dcMotor) set(channel int, duty gpio.Duty) error {
	switch {
	case duty == 0:
		return m.pwm.SetFullOff(channel)
	case duty >= pwmSteps-1:
		return m.pwm.SetFullOn(channel)
	default:
		return m.pwm.SetPwm(channel, 0, duty)
	}
}

func dutyFor(throttle float32) gpio.Duty {
	return gpio.Duty(math.Round(math.Abs(float64(throttle)) * (pwmSteps - 1)))
}
