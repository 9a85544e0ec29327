// Package hattest provides an in-memory hat.Driver that records every write.
package hattest

import (
	"fmt"
	"sync"

	"github.com/open-teleop/rover/pkg/hat"
)

// Event is one recorded driver interaction. Close events have Closed set.
type Event struct {
	Port     hat.Port
	Throttle float32
	Closed   bool
}

func (e Event) String() string {
	if e.Closed {
		return "close"
	}
	return fmt.Sprintf("%v=%.3f", e.Port, e.Throttle)
}

// Driver is a fake hat.Driver.
type Driver struct {
	mu sync.Mutex

	// MotorErr fails construction of the given ports.
	MotorErr map[hat.Port]error
	// WriteErr fails every write to the given ports.
	WriteErr map[hat.Port]error
	// PanicOnWrite panics on the next non-zero write, once.
	PanicOnWrite bool

	events []Event
	closes int
}

var _ hat.Driver = (*Driver)(nil)

func (d *Driver) Motor(port hat.Port) (hat.Motor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.MotorErr[port]; err != nil {
		return nil, err
	}
	return &motor{port: port, d: d}, nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closes++
	d.events = append(d.events, Event{Closed: true})
	return nil
}

// Events returns a copy of everything recorded so far.
func (d *Driver) Events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Event(nil), d.events...)
}

// Closes returns how many times Close was called.
func (d *Driver) Closes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

// Last returns the most recent throttle written to port and whether one was.
func (d *Driver) Last(port hat.Port) (float32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.events) - 1; i >= 0; i-- {
		if !d.events[i].Closed && d.events[i].Port == port {
			return d.events[i].Throttle, true
		}
	}
	return 0, false
}

type motor struct {
	port hat.Port
	d    *Driver
}

func (m *motor) SetThrottle(throttle float32) error {
	m.d.mu.Lock()
	if m.d.PanicOnWrite && throttle != 0 {
		m.d.PanicOnWrite = false
		m.d.mu.Unlock()
		panic(fmt.Sprintf("motor %v: bus fault", m.port))
	}
	defer m.d.mu.Unlock()
	if err := m.d.WriteErr[m.port]; err != nil {
		return err
	}
	m.d.events = append(m.d.events, Event{Port: m.port, Throttle: throttle})
	return nil
}
