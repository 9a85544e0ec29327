package teleop

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/open-teleop/rover/domain/drive"
	"github.com/open-teleop/rover/pkg/command"
	customlog "github.com/open-teleop/rover/pkg/log"
)

func discardLogger() customlog.Logger {
	return customlog.NewLogrusLoggerWithWriter("error", io.Discard)
}

// recordingActuator mixes like the real drive but keeps every applied command.
type recordingActuator struct {
	mu      sync.Mutex
	applied []command.MovementCommand
}

func (a *recordingActuator) Apply(cmd command.MovementCommand) (drive.WheelSpeeds, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.applied = append(a.applied, cmd)
	return drive.Mix(cmd, 0.2), 0
}

type chanObserver struct {
	reports chan TickReport
}

func (o *chanObserver) ObserveTick(r TickReport) {
	select {
	case o.reports <- r:
	default:
	}
}

func newObserver() *chanObserver {
	return &chanObserver{reports: make(chan TickReport, 256)}
}

func nextReport(t *testing.T, o *chanObserver) TickReport {
	t.Helper()
	select {
	case r := <-o.reports:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a tick")
	}
	return TickReport{}
}

func TestControlLoopSafetyStop(t *testing.T) {
	commands := make(chan command.MovementCommand, 10)
	obs := newObserver()
	loop := NewControlLoop(commands, &recordingActuator{}, 10*time.Millisecond, obs, discardLogger())

	commands <- command.MovementCommand{Translate: command.Vector2{Y: 1}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	first := nextReport(t, obs)
	if first.Cause != CauseCommand || first.Speeds.FrontLeft != 1 {
		t.Fatalf("Expected command tick driving forward, got %+v", first)
	}

	// Nothing else is sent, so the next tick must be a stop.
	second := nextReport(t, obs)
	if second.Cause != CauseTimeout {
		t.Fatalf("Expected timeout tick, got %v", second.Cause)
	}
	if !second.Command.IsStop() || second.Speeds != (drive.WheelSpeeds{}) {
		t.Errorf("Expected stop with zero speeds, got %+v", second)
	}
	if second.Seq != first.Seq+1 {
		t.Errorf("Expected consecutive sequence numbers, got %d then %d", first.Seq, second.Seq)
	}
}

func TestControlLoopTicksWithoutTraffic(t *testing.T) {
	commands := make(chan command.MovementCommand)
	obs := newObserver()
	period := 5 * time.Millisecond
	loop := NewControlLoop(commands, &recordingActuator{}, period, obs, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	start := time.Now()
	for i := 0; i < 5; i++ {
		if r := nextReport(t, obs); r.Cause != CauseTimeout {
			t.Fatalf("Expected only timeout ticks, got %v", r.Cause)
		}
	}
	if elapsed := time.Since(start); elapsed < 4*period {
		t.Errorf("Five ticks took %v, faster than one per period", elapsed)
	}
}

func TestControlLoopAppliesInArrivalOrder(t *testing.T) {
	commands := make(chan command.MovementCommand, 10)
	for i := 1; i <= 5; i++ {
		commands <- command.MovementCommand{Rotate: float32(i) / 10}
	}
	actuator := &recordingActuator{}
	obs := newObserver()
	loop := NewControlLoop(commands, actuator, time.Hour, obs, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	for i := 1; i <= 5; i++ {
		r := nextReport(t, obs)
		if r.Cause != CauseCommand || r.Command.Rotate != float32(i)/10 {
			t.Fatalf("Tick %d: expected command rotate %v, got %+v", i, float32(i)/10, r)
		}
	}
	cancel()
	<-done

	if len(actuator.applied) != 5 {
		t.Errorf("Expected exactly one apply per command, got %d", len(actuator.applied))
	}
}

func TestControlLoopCommandSourceLost(t *testing.T) {
	commands := make(chan command.MovementCommand)
	close(commands)
	loop := NewControlLoop(commands, &recordingActuator{}, time.Hour, nil, discardLogger())

	if err := loop.Run(context.Background()); !errors.Is(err, ErrControlLost) {
		t.Fatalf("Expected ErrControlLost, got %v", err)
	}
}

func TestControlLoopReturnsCancelCause(t *testing.T) {
	commands := make(chan command.MovementCommand)
	loop := NewControlLoop(commands, &recordingActuator{}, time.Hour, nil, discardLogger())

	cause := errors.New("shutdown requested: interrupt")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(cause)

	if err := loop.Run(ctx); err != cause {
		t.Fatalf("Expected cancel cause, got %v", err)
	}
}

func TestControlLoopClosedQueueDuringShutdown(t *testing.T) {
	commands := make(chan command.MovementCommand)
	close(commands)
	loop := NewControlLoop(commands, &recordingActuator{}, time.Hour, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := loop.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected the cancellation to win over a closed queue, got %v", err)
	}
}

func TestTickCauseString(t *testing.T) {
	if CauseCommand.String() != "command" || CauseTimeout.String() != "timeout" || TickCause(0).String() != "unknown" {
		t.Error("Unexpected TickCause strings")
	}
}

func TestControlLoopCommandRestartsTimeout(t *testing.T) {
	commands := make(chan command.MovementCommand)
	obs := newObserver()
	period := 100 * time.Millisecond
	loop := NewControlLoop(commands, &recordingActuator{}, period, obs, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	// Send partway through the first period. A stale timer would fire
	// about 40ms after the command instead of a full period later.
	time.Sleep(60 * time.Millisecond)
	commands <- command.MovementCommand{Rotate: 0.5}

	first := nextReport(t, obs)
	if first.Cause != CauseCommand {
		t.Fatalf("Expected command tick first, got %v", first.Cause)
	}
	second := nextReport(t, obs)
	if second.Cause != CauseTimeout {
		t.Fatalf("Expected timeout tick after the command, got %v", second.Cause)
	}
	if gap := second.At.Sub(first.At); gap < period-period/4 {
		t.Errorf("Timeout fired %v after the command, expected about %v", gap, period)
	}
}
