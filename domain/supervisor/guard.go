package supervisor

import (
	"io"
	"sync"

	customlog "github.com/open-teleop/rover/pkg/log"
)

// Resetter zeroes every actuator.
type Resetter interface {
	Reset()
}

// Guard zeroes the actuators and then releases the driver, exactly once, however
// the guarded scope is left. Defer Release right after construction.
type Guard struct {
	once     sync.Once
	actuator Resetter
	driver   io.Closer
	logger   customlog.Logger
	released bool
}

// NewGuard guards actuator and the driver backing it.
func NewGuard(actuator Resetter, driver io.Closer, logger customlog.Logger) *Guard {
	return &Guard{
		actuator: actuator,
		driver:   driver,
		logger:   logger,
	}
}

// Release zeroes the actuators and closes the driver. Later calls do nothing.
func (g *Guard) Release() {
	g.once.Do(func() {
		g.released = true
		// The driver is closed even if zeroing panics.
		defer func() {
			if err := g.driver.Close(); err != nil {
				g.logger.Warnf("Failed to close actuator driver: %v", err)
			}
		}()
		g.actuator.Reset()
		g.logger.Infof("Actuators zeroed")
	})
}

// Released reports whether Release has run. Only meaningful from the owning goroutine.
func (g *Guard) Released() bool {
	return g.released
}
