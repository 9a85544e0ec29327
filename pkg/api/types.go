package api

import "github.com/open-teleop/rover/domain/diagnostic"

// --- Data Structures for WebSocket Messages ---

// MessageTypeDriveStatus tags drive status frames on the telemetry stream.
const MessageTypeDriveStatus = "drive_status"

// StatusMessage is the JSON envelope pushed to telemetry WebSocket clients.
type StatusMessage struct {
	Type string                 `json:"type"`
	Data diagnostic.DriveStatus `json:"data"`
}
