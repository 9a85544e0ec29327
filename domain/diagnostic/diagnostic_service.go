package diagnostic

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/rover/domain/drive"
	"github.com/open-teleop/rover/domain/teleop"
	"github.com/open-teleop/rover/pkg/command"
)

// DriveStatus is a snapshot of the drive as seen by the control loop, enriched
// with listener counters.
type DriveStatus struct {
	Timestamp        time.Time               `json:"timestamp"`
	RunID            string                  `json:"run_id"`
	Seq              uint64                  `json:"seq"`
	Cause            teleop.TickCause        `json:"cause"`
	Command          command.MovementCommand `json:"command"`
	Speeds           drive.WheelSpeeds       `json:"wheel_speeds"`
	Received         uint64                  `json:"received"`
	WriteFailures    uint32                  `json:"write_failures"`    // Cumulative
	ListenerRestarts uint32                  `json:"listener_restarts"`
	DroppedReports   uint64                  `json:"dropped_reports"`
}

// DiagnosticService keeps the latest drive status for the HTTP API
type DiagnosticService struct {
	mu        sync.RWMutex
	status    DriveStatus
	updates   uint64
	startedAt time.Time
}

// NewDiagnosticService creates a new diagnostic service instance
func NewDiagnosticService() *DiagnosticService {
	return &DiagnosticService{
		startedAt: time.Now(),
	}
}

// Name identifies the service as a telemetry sink
func (s *DiagnosticService) Name() string {
	return "diagnostics"
}

// PublishStatus stores status as the latest snapshot
func (s *DiagnosticService) PublishStatus(status DriveStatus) error {
	s.UpdateStatus(status)
	return nil
}

// UpdateStatus updates the stored drive status
func (s *DiagnosticService) UpdateStatus(status DriveStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
	s.updates++
}

// GetStatus returns the latest drive status and whether one has been recorded
func (s *DiagnosticService) GetStatus() (DriveStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.status, s.updates > 0
}

// GetStatusHandler handles API requests for the drive status
func (s *DiagnosticService) GetStatusHandler(c *fiber.Ctx) error {
	status, ok := s.GetStatus()
	uptime := time.Since(s.startedAt).Seconds()

	if !ok {
		return c.JSON(fiber.Map{
			"status":         "pending",
			"uptime_seconds": uptime,
		})
	}

	return c.JSON(fiber.Map{
		"status":         "success",
		"uptime_seconds": uptime,
		"drive":          status,
	})
}
