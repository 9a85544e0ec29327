package processing

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/open-teleop/rover/pkg/command"
	customlog "github.com/open-teleop/rover/pkg/log"
)

func newTestQueue(capacity int) *CommandQueue {
	return NewCommandQueue("test", capacity, customlog.NewLogrusLoggerWithWriter("error", io.Discard))
}

func move(x float32) command.MovementCommand {
	return command.MovementCommand{Translate: command.Vector2{X: x}}
}

func TestCommandQueueFIFO(t *testing.T) {
	q := newTestQueue(10)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := q.Send(ctx, move(float32(i))); err != nil {
			t.Fatalf("Send %d failed: %v", i, err)
		}
	}
	if q.GetQueueLength() != 5 {
		t.Errorf("Expected queue length 5, got %d", q.GetQueueLength())
	}

	for i := 0; i < 5; i++ {
		got := <-q.Receive()
		if got.Translate.X != float32(i) {
			t.Errorf("Expected command %d, got %v", i, got)
		}
	}
}

func TestCommandQueueBackpressure(t *testing.T) {
	q := newTestQueue(10)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := q.Send(ctx, move(float32(i))); err != nil {
			t.Fatalf("Send %d failed: %v", i, err)
		}
	}

	sent := make(chan error, 1)
	go func() {
		sent <- q.Send(ctx, move(10))
	}()

	select {
	case err := <-sent:
		t.Fatalf("Expected the 11th send to suspend, it returned %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	// Consuming one command makes room for the suspended sender
	if got := <-q.Receive(); got.Translate.X != 0 {
		t.Errorf("Expected oldest command first, got %v", got)
	}

	select {
	case err := <-sent:
		if err != nil {
			t.Fatalf("Expected suspended send to succeed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Suspended send did not complete after the consumer made room")
	}

	if m := q.GetMetrics(); m.BlockedCount != 1 || m.EnqueuedCount != 11 {
		t.Errorf("Unexpected metrics: %+v", &m)
	}

	// Nothing was dropped: the 11th command is last in line
	var last command.MovementCommand
	for i := 0; i < 10; i++ {
		last = <-q.Receive()
	}
	if last.Translate.X != 10 {
		t.Errorf("Expected last command 10, got %v", last)
	}
}

func TestCommandQueueConsumerClosed(t *testing.T) {
	q := newTestQueue(1)
	ctx := context.Background()

	if err := q.Send(ctx, move(1)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	sent := make(chan error, 1)
	go func() {
		sent <- q.Send(ctx, move(2))
	}()
	time.Sleep(20 * time.Millisecond)

	q.Close()

	select {
	case err := <-sent:
		if !errors.Is(err, ErrQueueClosed) {
			t.Fatalf("Expected ErrQueueClosed for blocked sender, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Blocked sender was not released by Close")
	}

	if err := q.Send(ctx, move(3)); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Expected ErrQueueClosed after Close, got %v", err)
	}

	// Close is idempotent
	q.Close()
}

func TestCommandQueueContextCancel(t *testing.T) {
	q := newTestQueue(1)
	ctx, cancel := context.WithCancel(context.Background())

	if err := q.Send(ctx, move(1)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	sent := make(chan error, 1)
	go func() {
		sent <- q.Send(ctx, move(2))
	}()
	cancel()

	select {
	case err := <-sent:
		if !errors.Is(err, ErrQueueClosed) {
			t.Fatalf("Expected ErrQueueClosed on cancel, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Blocked sender was not released by context cancellation")
	}
}

func TestCommandQueueCloseProducer(t *testing.T) {
	q := newTestQueue(2)

	if err := q.Send(context.Background(), move(1)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	q.CloseProducer()
	q.CloseProducer()

	if got, ok := <-q.Receive(); !ok || got.Translate.X != 1 {
		t.Fatalf("Expected queued command before close, got %v ok=%v", got, ok)
	}
	if _, ok := <-q.Receive(); ok {
		t.Error("Expected receive channel to report closed")
	}
}
