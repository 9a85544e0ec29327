package processing

import (
	"context"
	"errors"
	"sync"

	"github.com/open-teleop/rover/pkg/command"
	customlog "github.com/open-teleop/rover/pkg/log"
)

// ErrQueueClosed is returned by Send once the consumer side of the queue is gone
// or the sender's context has ended.
var ErrQueueClosed = errors.New("command queue closed")

// CommandQueue is a bounded FIFO of movement commands between one producer task and
// the control loop. Send suspends while the queue is full.
type CommandQueue struct {
	name     string
	logger   customlog.Logger
	commands chan command.MovementCommand
	done     chan struct{}

	closeOnce         sync.Once
	closeProducerOnce sync.Once

	metrics *QueueMetrics
}

// QueueMetrics tracks metrics for a command queue
type QueueMetrics struct {
	EnqueuedCount int64
	BlockedCount  int64 // sends that found the queue full and had to wait
	RejectedCount int64
	mu            sync.Mutex
}

// NewCommandQueue creates a new command queue with the given capacity
func NewCommandQueue(name string, capacity int, logger customlog.Logger) *CommandQueue {
	return &CommandQueue{
		name:     name,
		logger:   logger,
		commands: make(chan command.MovementCommand, capacity),
		done:     make(chan struct{}),
		metrics:  &QueueMetrics{},
	}
}

// Send enqueues cmd, waiting for room while the queue is full. It fails with
// ErrQueueClosed when the consumer has closed the queue or ctx ends first.
// Send must not be called after CloseProducer.
func (q *CommandQueue) Send(ctx context.Context, cmd command.MovementCommand) error {
	select {
	case <-q.done:
		q.reject()
		return ErrQueueClosed
	default:
	}

	// Fast path when there is room
	select {
	case q.commands <- cmd:
		q.enqueued()
		return nil
	default:
	}

	q.metrics.mu.Lock()
	q.metrics.BlockedCount++
	q.metrics.mu.Unlock()
	q.logger.Debugf("%s queue is full, waiting for the consumer", q.name)

	select {
	case q.commands <- cmd:
		q.enqueued()
		return nil
	case <-q.done:
		q.reject()
		return ErrQueueClosed
	case <-ctx.Done():
		q.reject()
		return ErrQueueClosed
	}
}

// Receive returns the consumer side of the queue. The channel is closed once the
// producer side has been closed and all queued commands were received.
func (q *CommandQueue) Receive() <-chan command.MovementCommand {
	return q.commands
}

// CloseProducer signals that no further commands will ever be sent.
func (q *CommandQueue) CloseProducer() {
	q.closeProducerOnce.Do(func() {
		q.logger.Debugf("%s queue producer closed", q.name)
		close(q.commands)
	})
}

// Close marks the consumer as gone. Pending and future sends fail with ErrQueueClosed.
func (q *CommandQueue) Close() {
	q.closeOnce.Do(func() {
		q.logger.Debugf("%s queue consumer closed", q.name)
		close(q.done)
	})
}

func (q *CommandQueue) enqueued() {
	q.metrics.mu.Lock()
	q.metrics.EnqueuedCount++
	q.metrics.mu.Unlock()
}

func (q *CommandQueue) reject() {
	q.metrics.mu.Lock()
	q.metrics.RejectedCount++
	q.metrics.mu.Unlock()
}

// GetMetrics returns a copy of the current metrics
func (q *CommandQueue) GetMetrics() QueueMetrics {
	q.metrics.mu.Lock()
	defer q.metrics.mu.Unlock()

	return QueueMetrics{
		EnqueuedCount: q.metrics.EnqueuedCount,
		BlockedCount:  q.metrics.BlockedCount,
		RejectedCount: q.metrics.RejectedCount,
	}
}

// GetName returns the queue name
func (q *CommandQueue) GetName() string {
	return q.name
}

// GetQueueLength returns the number of commands waiting to be received
func (q *CommandQueue) GetQueueLength() int {
	return len(q.commands)
}

// GetQueueCapacity returns the capacity of the queue
func (q *CommandQueue) GetQueueCapacity() int {
	return cap(q.commands)
}
