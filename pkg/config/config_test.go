package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "rover-config-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	configPath := filepath.Join(tempDir, "rover.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadConfig(t *testing.T) {
	configContent := `
logging:
  level: "debug"
  log_path: "/var/log/rover"
listener:
  listen_addr: "127.0.0.1:9191"
  queue_capacity: 4
  restart_backoff_ms: 250
  max_restarts: 5
actuator:
  i2c_dev: "/dev/i2c-3"
  pwm_addr: 0x61
  pwm_freq_hz: 1000
control:
  loop_period_ms: 20
  deadzone: 0.1
diagnostics:
  http_addr: ":9000"
telemetry:
  publish_hz: 5
  zmq_publish_address: "tcp://*:5556"
  redis_addr: "127.0.0.1:6379"
`
	config, err := LoadConfig(writeConfig(t, configContent))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected logging level debug, got %s", config.Logging.Level)
	}
	if config.Listener.ListenAddr != "127.0.0.1:9191" {
		t.Errorf("Expected listen_addr 127.0.0.1:9191, got %s", config.Listener.ListenAddr)
	}
	if config.Listener.QueueCapacity != 4 {
		t.Errorf("Expected queue_capacity 4, got %d", config.Listener.QueueCapacity)
	}
	if config.Actuator.I2CDev != "/dev/i2c-3" {
		t.Errorf("Expected i2c_dev /dev/i2c-3, got %s", config.Actuator.I2CDev)
	}
	if config.Actuator.PWMAddr != 0x61 {
		t.Errorf("Expected pwm_addr 0x61, got 0x%x", config.Actuator.PWMAddr)
	}
	if config.LoopPeriod() != 20*time.Millisecond {
		t.Errorf("Expected loop period 20ms, got %v", config.LoopPeriod())
	}
	if config.Control.Deadzone != 0.1 {
		t.Errorf("Expected deadzone 0.1, got %v", config.Control.Deadzone)
	}
	if config.RestartBackoff() != 250*time.Millisecond {
		t.Errorf("Expected restart backoff 250ms, got %v", config.RestartBackoff())
	}
	if config.PublishInterval() != 200*time.Millisecond {
		t.Errorf("Expected publish interval 200ms, got %v", config.PublishInterval())
	}
	if config.Telemetry.ZMQPublishAddress != "tcp://*:5556" {
		t.Errorf("Expected zmq address tcp://*:5556, got %s", config.Telemetry.ZMQPublishAddress)
	}
	// Not present in the file, so the default survives
	if config.Telemetry.BufferSize != 32 {
		t.Errorf("Expected default buffer_size 32, got %d", config.Telemetry.BufferSize)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig with empty path failed: %v", err)
	}

	if config.Listener.ListenAddr != "0.0.0.0:9090" {
		t.Errorf("Expected default listen_addr 0.0.0.0:9090, got %s", config.Listener.ListenAddr)
	}
	if config.Listener.QueueCapacity != 10 {
		t.Errorf("Expected default queue_capacity 10, got %d", config.Listener.QueueCapacity)
	}
	if config.Actuator.PWMAddr != 0x60 {
		t.Errorf("Expected default pwm_addr 0x60, got 0x%x", config.Actuator.PWMAddr)
	}
	if config.LoopPeriod() != 16*time.Millisecond {
		t.Errorf("Expected default loop period 16ms, got %v", config.LoopPeriod())
	}
	if config.Control.Deadzone != 0.2 {
		t.Errorf("Expected default deadzone 0.2, got %v", config.Control.Deadzone)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv(EnvListenAddr, "10.0.0.2:7000")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvI2CDev, "/dev/i2c-9")

	config, err := LoadConfig(writeConfig(t, "listener:\n  listen_addr: \"127.0.0.1:1\"\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Listener.ListenAddr != "10.0.0.2:7000" {
		t.Errorf("Expected env listen_addr to win, got %s", config.Listener.ListenAddr)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("Expected env log level warn, got %s", config.Logging.Level)
	}
	if config.Actuator.I2CDev != "/dev/i2c-9" {
		t.Errorf("Expected env i2c_dev /dev/i2c-9, got %s", config.Actuator.I2CDev)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"missing listen addr", "listener:\n  listen_addr: \"\"\n", "missing required field in config: listener.listen_addr"},
		{"missing i2c dev", "actuator:\n  i2c_dev: \"\"\n", "missing required field in config: actuator.i2c_dev"},
		{"zero period", "control:\n  loop_period_ms: 0\n", "control.loop_period_ms"},
		{"negative deadzone", "control:\n  deadzone: -0.5\n", "control.deadzone"},
		{"nan deadzone", "control:\n  deadzone: .nan\n", "control.deadzone"},
		{"infinite deadzone", "control:\n  deadzone: .inf\n", "control.deadzone"},
		{"zero queue", "listener:\n  queue_capacity: 0\n", "listener.queue_capacity"},
		{"bad pwm addr", "actuator:\n  pwm_addr: 0x80\n", "actuator.pwm_addr"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			if err == nil {
				t.Fatalf("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Expected error containing %q, got: %v", tc.want, err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "error reading config file") {
		t.Errorf("Expected read error, got %v", err)
	}
}

func TestConfigYAML(t *testing.T) {
	data, err := Default().YAML()
	if err != nil {
		t.Fatalf("YAML failed: %v", err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse serialized config: %v", err)
	}
	if parsed.Listener.ListenAddr != "0.0.0.0:9090" || parsed.Control.LoopPeriodMs != 16 {
		t.Errorf("Serialized config lost values: %+v", parsed)
	}
}
