// Package teleop runs the fixed cadence control loop that drives the wheels from
// operator commands, falling back to a stop whenever the operator goes quiet.
package teleop

import (
	"context"
	"errors"
	"time"

	"github.com/open-teleop/rover/domain/drive"
	"github.com/open-teleop/rover/pkg/command"
	customlog "github.com/open-teleop/rover/pkg/log"
)

// ErrControlLost is returned when the command source closes while the loop is running.
var ErrControlLost = errors.New("control source unexpectedly lost")

// TickCause says why a tick happened.
type TickCause uint8

const (
	// CauseCommand ticks apply a command received from the queue.
	CauseCommand TickCause = iota + 1
	// CauseTimeout ticks apply the stop command because nothing arrived within one period.
	CauseTimeout
)

func (c TickCause) String() string {
	switch c {
	case CauseCommand:
		return "command"
	case CauseTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// TickReport describes one applied tick.
type TickReport struct {
	Seq      uint64
	Cause    TickCause
	Command  command.MovementCommand
	Speeds   drive.WheelSpeeds
	Failures int
	At       time.Time
}

// Observer is notified after every tick. ObserveTick is called from the loop
// goroutine and must not block.
type Observer interface {
	ObserveTick(report TickReport)
}

// Actuator applies a command to the wheels and reports the speeds and the number
// of failed wheel writes.
type Actuator interface {
	Apply(cmd command.MovementCommand) (drive.WheelSpeeds, int)
}

// ControlLoop races the command queue against a period timer and applies one
// command per tick.
type ControlLoop struct {
	commands <-chan command.MovementCommand
	actuator Actuator
	period   time.Duration
	observer Observer
	logger   customlog.Logger

	seq uint64
}

// NewControlLoop creates a control loop. observer may be nil.
func NewControlLoop(commands <-chan command.MovementCommand, actuator Actuator, period time.Duration, observer Observer, logger customlog.Logger) *ControlLoop {
	return &ControlLoop{
		commands: commands,
		actuator: actuator,
		period:   period,
		observer: observer,
		logger:   logger,
	}
}

// Run ticks until ctx is done or the command source closes. On cancellation it
// returns the context's cause.
func (l *ControlLoop) Run(ctx context.Context) error {
	l.logger.Infof("Control loop started (period %v)", l.period)

	timer := time.NewTimer(l.period)
	defer timer.Stop()

	for {
		var active command.MovementCommand
		var cause TickCause

		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case cmd, ok := <-l.commands:
			if !ok {
				if ctx.Err() != nil {
					return context.Cause(ctx)
				}
				l.logger.Errorf("Control channel closed. Exiting control connection")
				return ErrControlLost
			}
			active, cause = cmd, CauseCommand
		case <-timer.C:
			active, cause = command.Stop(), CauseTimeout
		}

		// Whichever side won, the next forced tick is one full period away.
		timer.Reset(l.period)
		l.tick(active, cause)
	}
}

func (l *ControlLoop) tick(cmd command.MovementCommand, cause TickCause) {
	speeds, failures := l.actuator.Apply(cmd)
	l.seq++

	if cause == CauseCommand {
		l.logger.Debugf("Applied %v -> %v", cmd, speeds)
	}
	if failures > 0 {
		l.logger.Warnf("Tick %d: %d wheel write(s) failed", l.seq, failures)
	}

	if l.observer != nil {
		l.observer.ObserveTick(TickReport{
			Seq:      l.seq,
			Cause:    cause,
			Command:  cmd,
			Speeds:   speeds,
			Failures: failures,
			At:       time.Now(),
		})
	}
}

// MarshalText encodes the cause by name.
func (c TickCause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
