// Package zeromq publishes drive telemetry on a ZeroMQ PUB socket.
package zeromq

import (
	"errors"
	"fmt"
	"sync"

	"github.com/open-teleop/rover/domain/diagnostic"
	customlog "github.com/open-teleop/rover/pkg/log"
	"github.com/pebbe/zmq4"
)

// TopicDriveStatus is the topic frame sent ahead of every drive status.
const TopicDriveStatus = "rover.drive.status"

// ErrPublisherClosed is returned when publishing after Close.
var ErrPublisherClosed = errors.New("zeromq publisher closed")

// TelemetryPublisher sends FlatBuffers encoded drive statuses as two-frame
// messages: topic, then payload.
type TelemetryPublisher struct {
	ctx     *zmq4.Context
	socket  *zmq4.Socket
	address string
	logger  customlog.Logger
	mu      sync.Mutex
}

// NewTelemetryPublisher creates a PUB socket bound to address.
func NewTelemetryPublisher(address string, logger customlog.Logger) (*TelemetryPublisher, error) {
	ctx, err := zmq4.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create ZeroMQ context: %w", err)
	}

	socket, err := ctx.NewSocket(zmq4.PUB)
	if err != nil {
		ctx.Term()
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}

	// Pending messages are telemetry; never hold up shutdown for them.
	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		ctx.Term()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}

	if err := socket.Bind(address); err != nil {
		socket.Close()
		ctx.Term()
		return nil, fmt.Errorf("failed to bind to %s: %w", address, err)
	}

	logger.Infof("Telemetry publisher bound on %s", address)
	return &TelemetryPublisher{
		ctx:     ctx,
		socket:  socket,
		address: address,
		logger:  logger,
	}, nil
}

// Name identifies the publisher as a telemetry sink
func (p *TelemetryPublisher) Name() string {
	return "zeromq"
}

// PublishStatus encodes and publishes status on TopicDriveStatus.
func (p *TelemetryPublisher) PublishStatus(status diagnostic.DriveStatus) error {
	return p.PublishMessage(TopicDriveStatus, EncodeDriveStatus(status))
}

// PublishMessage sends message with the given topic
func (p *TelemetryPublisher) PublishMessage(topic string, message []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.socket == nil {
		return ErrPublisherClosed
	}

	if _, err := p.socket.Send(topic, zmq4.SNDMORE); err != nil {
		return fmt.Errorf("failed to send topic: %w", err)
	}
	if _, err := p.socket.SendBytes(message, 0); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Close releases the socket and context. It is safe to call more than once.
func (p *TelemetryPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.socket == nil {
		return nil
	}
	err := p.socket.Close()
	p.socket = nil
	if termErr := p.ctx.Term(); err == nil {
		err = termErr
	}
	p.logger.Infof("Telemetry publisher on %s closed", p.address)
	return err
}
