// Package listener receives movement commands from operators over a connectionless
// socket and forwards them to the control loop's command queue.
package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync/atomic"

	"github.com/open-teleop/rover/pkg/command"
	customlog "github.com/open-teleop/rover/pkg/log"
	"github.com/open-teleop/rover/pkg/processing"
)

// ErrUnexpectedEOS is returned when the transport reports a clean end of stream,
// which a datagram socket should never do.
var ErrUnexpectedEOS = errors.New("unexpected end of stream")

// CommandSink accepts decoded commands. processing.CommandQueue implements it.
type CommandSink interface {
	Send(ctx context.Context, cmd command.MovementCommand) error
}

// Listener decodes datagrams from one local UDP address into movement commands.
type Listener struct {
	addr     string
	sink     CommandSink
	logger   customlog.Logger
	received atomic.Uint64
}

// NewListener creates a listener for addr that forwards commands to sink
func NewListener(addr string, sink CommandSink, logger customlog.Logger) *Listener {
	return &Listener{
		addr:   addr,
		sink:   sink,
		logger: logger,
	}
}

// Received returns the number of commands successfully decoded since the listener
// was created, across restarts.
func (l *Listener) Received() uint64 {
	return l.received.Load()
}

// Run binds the configured address and serves it until the peer closes, the
// consumer goes away, ctx ends or an I/O error occurs.
func (l *Listener) Run(ctx context.Context) error {
	var lc net.ListenConfig
	conn, err := lc.ListenPacket(ctx, "udp", l.addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", l.addr, err)
	}
	l.logger.Infof("Using connectionless operators on %s", conn.LocalAddr())
	return l.Serve(ctx, conn)
}

// Serve reads frames from conn until it terminates. It takes ownership of conn.
func (l *Listener) Serve(ctx context.Context, conn net.PacketConn) error {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() {
		conn.Close() // unblocks ReadFrom
	})
	defer stop()

	// One byte beyond the largest frame exposes oversized datagrams instead of
	// silently truncating them into something decodable.
	buf := make([]byte, command.MaxFrameSize+1)

	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w while receiving from operator", ErrUnexpectedEOS)
			}
			return fmt.Errorf("unhandled I/O error while receiving from operator: %w", err)
		}

		if n == 0 {
			l.logger.Warnf("Connection to operator closed!")
			return nil
		}

		frame := buf[:n]
		if frame[n-1] != 0 {
			l.logger.Warnf("Didn't receive complete datagram! (%d msgs received)", l.Received())
		}

		cmd, err := command.Decode(frame)
		if err != nil {
			l.logger.Warnf("Received invalid control message: %v (%d msgs received)", err, l.Received())
			continue
		}
		l.received.Add(1)

		if err := l.sink.Send(ctx, cmd); err != nil {
			if errors.Is(err, processing.ErrQueueClosed) {
				l.logger.Infof("Control channel closed. Exiting control connection")
				return nil
			}
			return fmt.Errorf("failed to forward command: %w", err)
		}
	}
}
