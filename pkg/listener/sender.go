package listener

import (
	"fmt"
	"net"

	"github.com/open-teleop/rover/pkg/command"
)

// Sender transmits movement commands to a listener, one frame per datagram.
type Sender struct {
	conn net.Conn
}

// Dial creates a sender for the listener at addr.
func Dial(addr string) (*Sender, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}
	return &Sender{conn: conn}, nil
}

// Send encodes and transmits cmd.
func (s *Sender) Send(cmd command.MovementCommand) error {
	return s.SendRaw(command.Encode(cmd))
}

// SendRaw transmits frame as-is.
func (s *Sender) SendRaw(frame []byte) error {
	if _, err := s.conn.Write(frame); err != nil {
		return fmt.Errorf("failed to send command: %w", err)
	}
	return nil
}

// Close releases the socket.
func (s *Sender) Close() error {
	return s.conn.Close()
}
