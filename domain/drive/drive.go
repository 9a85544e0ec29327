// Package drive turns movement intents into per-wheel throttles for a four-wheel
// holonomic base and writes them to the motor hat.
package drive

import (
	"fmt"
	"math"

	"github.com/open-teleop/rover/pkg/command"
	"github.com/open-teleop/rover/pkg/hat"
	customlog "github.com/open-teleop/rover/pkg/log"
)

// WheelSpeeds holds one throttle per wheel, each in [-1, 1].
type WheelSpeeds struct {
	FrontLeft  float32 `json:"front_left"`
	FrontRight float32 `json:"front_right"`
	BackLeft   float32 `json:"back_left"`
	BackRight  float32 `json:"back_right"`
}

func (w WheelSpeeds) String() string {
	return fmt.Sprintf("fl=%.3f fr=%.3f bl=%.3f br=%.3f", w.FrontLeft, w.FrontRight, w.BackLeft, w.BackRight)
}

// Mix applies the deadzone to each axis and computes the clamped holonomic mix.
func Mix(cmd command.MovementCommand, deadzone float32) WheelSpeeds {
	tx := filter(cmd.Translate.X, deadzone)
	ty := filter(cmd.Translate.Y, deadzone)
	r := filter(cmd.Rotate, deadzone)

	return WheelSpeeds{
		FrontLeft:  clamp(ty + tx + r),
		FrontRight: clamp(ty - tx - r),
		BackLeft:   clamp(ty - tx + r),
		BackRight:  clamp(ty + tx - r),
	}
}

func filter(v, deadzone float32) float32 {
	if abs(v) < abs(deadzone) {
		return 0
	}
	return v
}

func clamp(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	case math.IsNaN(float64(v)):
		return 0
	default:
		return v
	}
}

func abs(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

// wheel is one motor plus its mounting polarity.
type wheel struct {
	name  string
	port  hat.Port
	sign  float32
	motor hat.Motor
}

// Drive owns the four wheel motors. It must only be used from one goroutine.
type Drive struct {
	deadzone float32
	logger   customlog.Logger

	// fl, fr, bl, br
	wheels [4]wheel
}

// New constructs the four wheel motors from driver. Any failure is fatal and
// nothing is left armed.
func New(driver hat.Driver, deadzone float32, logger customlog.Logger) (*Drive, error) {
	d := &Drive{
		deadzone: deadzone,
		logger:   logger,
		wheels: [4]wheel{
			// Left side motors are mounted mirrored.
			{name: "front left", port: hat.Motor3, sign: -1},
			{name: "front right", port: hat.Motor4, sign: 1},
			{name: "back left", port: hat.Motor1, sign: -1},
			{name: "back right", port: hat.Motor2, sign: 1},
		},
	}

	for i := range d.wheels {
		w := &d.wheels[i]
		m, err := driver.Motor(w.port)
		if err != nil {
			return nil, fmt.Errorf("unable to construct %s motor: %w", w.name, err)
		}
		w.motor = m
	}
	return d, nil
}

// Deadzone returns the configured deadzone.
func (d *Drive) Deadzone() float32 {
	return d.deadzone
}

// Apply mixes cmd and writes the result to every wheel. A failed write is logged
// and counted; the remaining wheels are still written. The returned speeds are
// before polarity correction.
func (d *Drive) Apply(cmd command.MovementCommand) (WheelSpeeds, int) {
	speeds := Mix(cmd, d.deadzone)
	values := [4]float32{speeds.FrontLeft, speeds.FrontRight, speeds.BackLeft, speeds.BackRight}

	failures := 0
	for i := range d.wheels {
		w := &d.wheels[i]
		if err := w.motor.SetThrottle(w.sign * values[i]); err != nil {
			failures++
			d.logger.Warnf("Failed to set %s wheel to %.3f: %v", w.name, values[i], err)
		}
	}
	return speeds, failures
}

// Reset commands zero throttle on every wheel, ignoring write errors.
func (d *Drive) Reset() {
	for i := range d.wheels {
		_ = d.wheels[i].motor.SetThrottle(0)
	}
}

// Wheel names one of the four wheels.
type Wheel int

const (
	FrontLeft Wheel = iota
	FrontRight
	BackLeft
	BackRight
)

var wheelNames = map[string]Wheel{
	"fl": FrontLeft,
	"fr": FrontRight,
	"bl": BackLeft,
	"br": BackRight,
}

// ParseWheel parses a short wheel name: fl, fr, bl or br.
func ParseWheel(name string) (Wheel, error) {
	w, ok := wheelNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown wheel %q (want fl, fr, bl or br)", name)
	}
	return w, nil
}

// SetWheel drives a single wheel at throttle, clamped to [-1, 1], with the same
// polarity correction as Apply.
func (d *Drive) SetWheel(w Wheel, throttle float32) error {
	if w < FrontLeft || w > BackRight {
		return fmt.Errorf("unknown wheel %d", int(w))
	}
	wh := &d.wheels[w]
	if err := wh.motor.SetThrottle(wh.sign * clamp(throttle)); err != nil {
		return fmt.Errorf("failed to set %s wheel: %w", wh.name, err)
	}
	return nil
}
