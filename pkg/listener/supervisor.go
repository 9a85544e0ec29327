package listener

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	customlog "github.com/open-teleop/rover/pkg/log"
)

// Runner is a restartable task.
type Runner interface {
	Run(ctx context.Context) error
}

// ProducerCloser is the producer side of the command queue.
type ProducerCloser interface {
	CloseProducer()
}

// Supervisor restarts a failed listener and closes the queue's producer side once
// no listener will run again. The queue itself survives restarts.
type Supervisor struct {
	runner      Runner
	queue       ProducerCloser
	backoff     time.Duration
	maxRestarts int
	logger      customlog.Logger
	restarts    atomic.Uint64
}

// NewSupervisor creates a restart policy around runner. maxRestarts of 0 means unlimited.
func NewSupervisor(runner Runner, queue ProducerCloser, backoff time.Duration, maxRestarts int, logger customlog.Logger) *Supervisor {
	return &Supervisor{
		runner:      runner,
		queue:       queue,
		backoff:     backoff,
		maxRestarts: maxRestarts,
		logger:      logger,
	}
}

// Restarts returns how many times the listener has been restarted.
func (s *Supervisor) Restarts() uint64 {
	return s.restarts.Load()
}

// Run runs the listener until it ends cleanly, ctx ends, or the restart budget is spent.
func (s *Supervisor) Run(ctx context.Context) error {
	defer s.queue.CloseProducer()

	failures := 0
	for {
		err := s.runner.Run(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			s.logger.Infof("Control listener finished")
			return nil
		}

		failures++
		if s.maxRestarts > 0 && failures > s.maxRestarts {
			s.logger.Errorf("Control listener crashed: %v (giving up after %d restarts)", err, s.maxRestarts)
			return fmt.Errorf("control listener failed %d times: %w", failures, err)
		}

		s.logger.Warnf("Control listener crashed: %v; restarting in %v", err, s.backoff)
		timer := time.NewTimer(s.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		s.restarts.Add(1)
	}
}
