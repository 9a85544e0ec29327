package api

import (
	"encoding/json"
	"testing"

	"github.com/open-teleop/rover/domain/diagnostic"
	"github.com/open-teleop/rover/domain/drive"
	"github.com/open-teleop/rover/domain/teleop"
)

func TestTelemetryHubBroadcast(t *testing.T) {
	hub := NewTelemetryHub(discardLogger())

	// Nobody listening is not an error
	if err := hub.PublishStatus(diagnostic.DriveStatus{Seq: 1}); err != nil {
		t.Fatalf("PublishStatus without clients failed: %v", err)
	}

	a, b := hub.register(), hub.register()
	if hub.Clients() != 2 {
		t.Fatalf("Expected 2 clients, got %d", hub.Clients())
	}

	status := diagnostic.DriveStatus{Seq: 5, Cause: teleop.CauseCommand, Speeds: drive.WheelSpeeds{BackRight: 0.25}}
	if err := hub.PublishStatus(status); err != nil {
		t.Fatalf("PublishStatus failed: %v", err)
	}

	for _, c := range []*hubClient{a, b} {
		var msg struct {
			Type string `json:"type"`
			Data struct {
				Seq    uint64            `json:"seq"`
				Cause  string            `json:"cause"`
				Speeds drive.WheelSpeeds `json:"wheel_speeds"`
			} `json:"data"`
		}
		if err := json.Unmarshal(<-c.send, &msg); err != nil {
			t.Fatalf("Frame is not JSON: %v", err)
		}
		if msg.Type != MessageTypeDriveStatus || msg.Data.Seq != 5 || msg.Data.Cause != "command" || msg.Data.Speeds.BackRight != 0.25 {
			t.Errorf("Unexpected frame %+v", msg)
		}
	}

	hub.unregister(a)
	hub.unregister(b)
	if hub.Clients() != 0 {
		t.Errorf("Expected no clients after unregister, got %d", hub.Clients())
	}
}

func TestTelemetryHubDropsForSlowClient(t *testing.T) {
	hub := NewTelemetryHub(discardLogger())
	c := hub.register()

	for i := 0; i < clientBuffer+5; i++ {
		if err := hub.PublishStatus(diagnostic.DriveStatus{Seq: uint64(i)}); err != nil {
			t.Fatalf("PublishStatus failed: %v", err)
		}
	}
	if hub.Dropped() != 5 {
		t.Errorf("Expected 5 dropped frames, got %d", hub.Dropped())
	}
	if len(c.send) != clientBuffer {
		t.Errorf("Expected a full client buffer, got %d", len(c.send))
	}
}
