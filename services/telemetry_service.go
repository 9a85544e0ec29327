package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/open-teleop/rover/domain/diagnostic"
	"github.com/open-teleop/rover/domain/teleop"
	customlog "github.com/open-teleop/rover/pkg/log"
)

// StatusSink receives drive status snapshots. Implementations must not hold on to
// the caller for long; a slow sink delays every other sink.
type StatusSink interface {
	Name() string
	PublishStatus(status diagnostic.DriveStatus) error
}

// ListenerStats exposes the command listener counters folded into every status.
type ListenerStats interface {
	Received() uint64
	Restarts() uint64
}

// TelemetryService turns control loop tick reports into drive status snapshots and
// fans them out to the configured sinks. It never blocks the control loop: reports
// that do not fit in the buffer are dropped and counted.
type TelemetryService struct {
	reports  chan teleop.TickReport
	dropped  atomic.Uint64
	interval time.Duration
	runID    string
	stats    ListenerStats
	sinks    []StatusSink
	logger   customlog.Logger

	// Counted on observation so dropped reports still contribute.
	writeFailures atomic.Uint64

	lastPublish time.Time
	lastCause   teleop.TickCause
}

var _ teleop.Observer = (*TelemetryService)(nil)

// NewTelemetryService creates a telemetry service. interval throttles publishing;
// a change of tick cause is always published immediately. stats may be nil.
func NewTelemetryService(bufferSize int, interval time.Duration, stats ListenerStats, logger customlog.Logger, sinks ...StatusSink) *TelemetryService {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &TelemetryService{
		reports:  make(chan teleop.TickReport, bufferSize),
		interval: interval,
		runID:    uuid.NewString(),
		stats:    stats,
		sinks:    sinks,
		logger:   logger,
	}
}

// RunID identifies this process run in every published status.
func (s *TelemetryService) RunID() string {
	return s.runID
}

// Dropped returns the number of reports dropped because the buffer was full.
func (s *TelemetryService) Dropped() uint64 {
	return s.dropped.Load()
}

// ObserveTick queues report without blocking.
func (s *TelemetryService) ObserveTick(report teleop.TickReport) {
	if report.Failures > 0 {
		s.writeFailures.Add(uint64(report.Failures))
	}
	select {
	case s.reports <- report:
	default:
		s.dropped.Add(1)
	}
}

// Run publishes statuses until ctx is done.
func (s *TelemetryService) Run(ctx context.Context) error {
	s.logger.Infof("Telemetry service started (run %s, %d sinks)", s.runID, len(s.sinks))
	for {
		select {
		case <-ctx.Done():
			s.logger.Infof("Telemetry service stopped (%d reports dropped)", s.Dropped())
			return nil
		case report := <-s.reports:
			s.handle(report)
		}
	}
}

func (s *TelemetryService) handle(report teleop.TickReport) {
	causeChanged := report.Cause != s.lastCause
	s.lastCause = report.Cause
	if !causeChanged && report.At.Sub(s.lastPublish) < s.interval {
		return
	}
	s.lastPublish = report.At

	s.publish(s.buildStatus(report))
}

func (s *TelemetryService) buildStatus(report teleop.TickReport) diagnostic.DriveStatus {
	status := diagnostic.DriveStatus{
		Timestamp:      report.At,
		RunID:          s.runID,
		Seq:            report.Seq,
		Cause:          report.Cause,
		Command:        report.Command,
		Speeds:         report.Speeds,
		WriteFailures:  uint32(s.writeFailures.Load()),
		DroppedReports: s.Dropped(),
	}
	if s.stats != nil {
		status.Received = s.stats.Received()
		status.ListenerRestarts = uint32(s.stats.Restarts())
	}
	return status
}

func (s *TelemetryService) publish(status diagnostic.DriveStatus) {
	for _, sink := range s.sinks {
		if err := sink.PublishStatus(status); err != nil {
			s.logger.Warnf("Failed to publish drive status to %s: %v", sink.Name(), err)
		}
	}
}
