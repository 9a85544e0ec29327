package zeromq

import (
	"fmt"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/open-teleop/rover/domain/diagnostic"
	"github.com/open-teleop/rover/domain/teleop"
	"github.com/open-teleop/rover/pkg/flatbuffers/rover/telemetry"
)

// EncodeDriveStatus serializes status as a DriveStatus flatbuffer.
func EncodeDriveStatus(status diagnostic.DriveStatus) []byte {
	builder := flatbuffers.NewBuilder(256)
	runID := builder.CreateString(status.RunID)

	telemetry.DriveStatusStart(builder)
	telemetry.DriveStatusAddTimestampNs(builder, status.Timestamp.UnixNano())
	telemetry.DriveStatusAddRunId(builder, runID)
	telemetry.DriveStatusAddSeq(builder, status.Seq)
	telemetry.DriveStatusAddCause(builder, causeToWire(status.Cause))
	telemetry.DriveStatusAddTranslateX(builder, status.Command.Translate.X)
	telemetry.DriveStatusAddTranslateY(builder, status.Command.Translate.Y)
	telemetry.DriveStatusAddRotate(builder, status.Command.Rotate)
	telemetry.DriveStatusAddFrontLeft(builder, status.Speeds.FrontLeft)
	telemetry.DriveStatusAddFrontRight(builder, status.Speeds.FrontRight)
	telemetry.DriveStatusAddBackLeft(builder, status.Speeds.BackLeft)
	telemetry.DriveStatusAddBackRight(builder, status.Speeds.BackRight)
	telemetry.DriveStatusAddReceived(builder, status.Received)
	telemetry.DriveStatusAddWriteFailures(builder, status.WriteFailures)
	telemetry.DriveStatusAddListenerRestarts(builder, status.ListenerRestarts)
	telemetry.DriveStatusAddDroppedReports(builder, status.DroppedReports)
	telemetry.FinishDriveStatusBuffer(builder, telemetry.DriveStatusEnd(builder))

	return builder.FinishedBytes()
}

// DecodeDriveStatus reads a DriveStatus flatbuffer. Malformed buffers are
// reported as errors instead of panicking.
func DecodeDriveStatus(data []byte) (fb *telemetry.DriveStatus, err error) {
	if len(data) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("drive status too short: %d bytes", len(data))
	}
	defer func() {
		if r := recover(); r != nil {
			fb, err = nil, fmt.Errorf("malformed drive status: %v", r)
		}
	}()

	fb = telemetry.GetRootAsDriveStatus(data, 0)
	// Touch the vtable so out of range offsets surface here.
	_ = fb.Seq()
	_ = fb.RunId()
	return fb, nil
}

func causeToWire(c teleop.TickCause) telemetry.TickCause {
	switch c {
	case teleop.CauseCommand:
		return telemetry.TickCauseCommand
	case teleop.CauseTimeout:
		return telemetry.TickCauseTimeout
	default:
		return telemetry.TickCauseUnknown
	}
}
