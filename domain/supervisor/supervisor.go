// Package supervisor owns the process lifetime: it intercepts shutdown signals,
// arms the actuators, runs the control loop and guarantees the wheels are zeroed
// on every way out.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/open-teleop/rover/domain/drive"
	"github.com/open-teleop/rover/domain/teleop"
	"github.com/open-teleop/rover/pkg/command"
	"github.com/open-teleop/rover/pkg/hat"
	customlog "github.com/open-teleop/rover/pkg/log"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrShutdownRequested is the outcome of an intercepted termination signal.
	ErrShutdownRequested = errors.New("shutdown requested")
	// ErrActuatorInit is returned when the actuators cannot be armed. Nothing is left running.
	ErrActuatorInit = errors.New("actuator initialization failed")
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGQUIT, syscall.SIGTERM}

// CommandSource is the consumer side of the command queue.
type CommandSource interface {
	Receive() <-chan command.MovementCommand
	// Close tells producers the consumer is gone.
	Close()
}

// Task runs alongside the control loop until its context is cancelled. Tasks never
// touch the actuators.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Options configures a Supervisor.
type Options struct {
	Open     hat.Opener
	Commands CommandSource
	Period   time.Duration
	Deadzone float32
	// Observer is optional.
	Observer teleop.Observer
	Tasks    []Task
}

// Supervisor runs the control loop inside the actuator guard.
type Supervisor struct {
	opts   Options
	logger customlog.Logger

	notify     func(c chan<- os.Signal, sig ...os.Signal)
	stopNotify func(c chan<- os.Signal)
}

// New creates a supervisor.
func New(opts Options, logger customlog.Logger) *Supervisor {
	return &Supervisor{
		opts:       opts,
		logger:     logger,
		notify:     signal.Notify,
		stopNotify: signal.Stop,
	}
}

// Run blocks until the control loop ends. A termination signal yields an error
// wrapping ErrShutdownRequested; any other return is a failure. Actuators are
// zeroed before Run returns or a panic leaves it.
func (s *Supervisor) Run(ctx context.Context) error {
	// Signals are intercepted before anything is armed.
	sigCh := make(chan os.Signal, 1)
	s.notify(sigCh, shutdownSignals...)
	defer s.stopNotify(sigCh)

	driver, err := s.opts.Open()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrActuatorInit, err)
	}
	d, err := drive.New(driver, s.opts.Deadzone, s.logger.WithField("component", "drive"))
	if err != nil {
		if closeErr := driver.Close(); closeErr != nil {
			s.logger.Warnf("Failed to close actuator driver: %v", closeErr)
		}
		return fmt.Errorf("%w: %w", ErrActuatorInit, err)
	}
	s.logger.Infof("Actuators armed")

	loopCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	guard := NewGuard(d, driver, s.logger.WithField("component", "guard"))
	bg := s.startBackground(loopCtx, sigCh, cancel)
	defer func() {
		guard.Release()
		if bgErr := bg.stop(); bgErr != nil {
			s.logger.Warnf("Background tasks ended with errors: %v", bgErr)
		}
	}()

	loop := teleop.NewControlLoop(s.opts.Commands.Receive(), d, s.opts.Period, s.opts.Observer, s.logger.WithField("component", "control"))
	return loop.Run(loopCtx)
}

type background struct {
	stopWatch   chan struct{}
	watchDone   chan struct{}
	cancelTasks context.CancelFunc
	commands    CommandSource
	group       *errgroup.Group
}

func (s *Supervisor) startBackground(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelCauseFunc) *background {
	bg := &background{
		stopWatch: make(chan struct{}),
		watchDone: make(chan struct{}),
		commands:  s.opts.Commands,
		group:     &errgroup.Group{},
	}

	go func() {
		defer close(bg.watchDone)
		select {
		case sig := <-sigCh:
			s.logger.Infof("Received %v, shutting down", sig)
			cancel(fmt.Errorf("%w: %v", ErrShutdownRequested, sig))
		case <-bg.stopWatch:
		}
	}()

	taskCtx, cancelTasks := context.WithCancel(ctx)
	bg.cancelTasks = cancelTasks
	for _, task := range s.opts.Tasks {
		task := task
		bg.group.Go(func() error {
			if err := task.Run(taskCtx); err != nil {
				s.logger.Warnf("%s stopped: %v", task.Name, err)
				return fmt.Errorf("%s: %w", task.Name, err)
			}
			return nil
		})
	}
	return bg
}

// stop ends the signal watcher and every task and waits for them.
func (bg *background) stop() error {
	close(bg.stopWatch)
	bg.cancelTasks()
	// Producers blocked on a full queue give up once the consumer is gone.
	bg.commands.Close()
	err := bg.group.Wait()
	<-bg.watchDone
	return err
}
