package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override values from the config file.
const (
	EnvListenAddr = "ROVER_LISTEN_ADDR"
	EnvLogLevel   = "ROVER_LOG_LEVEL"
	EnvI2CDev     = "ROVER_I2C_DEV"
)

// Config represents the rover configuration. All values are read once at startup.
type Config struct {
	Logging     LoggingConfig     `yaml:"logging" json:"logging"`
	Listener    ListenerConfig    `yaml:"listener" json:"listener"`
	Actuator    ActuatorConfig    `yaml:"actuator" json:"actuator"`
	Control     ControlConfig     `yaml:"control" json:"control"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics" json:"diagnostics"`
	Telemetry   TelemetryConfig   `yaml:"telemetry" json:"telemetry"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" json:"level"`
	LogPath    string `yaml:"log_path,omitempty" json:"log_path,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days"`
}

// ListenerConfig holds the command listener settings
type ListenerConfig struct {
	ListenAddr       string `yaml:"listen_addr" json:"listen_addr"`
	QueueCapacity    int    `yaml:"queue_capacity" json:"queue_capacity"`
	RestartBackoffMs int    `yaml:"restart_backoff_ms" json:"restart_backoff_ms"`
	MaxRestarts      int    `yaml:"max_restarts" json:"max_restarts"` // 0 means unlimited
}

// ActuatorConfig holds the PWM motor hat settings
type ActuatorConfig struct {
	I2CDev    string `yaml:"i2c_dev" json:"i2c_dev"`
	PWMAddr   uint16 `yaml:"pwm_addr" json:"pwm_addr"`
	PWMFreqHz int    `yaml:"pwm_freq_hz" json:"pwm_freq_hz"`
}

// ControlConfig holds control loop settings
type ControlConfig struct {
	LoopPeriodMs int     `yaml:"loop_period_ms" json:"loop_period_ms"`
	Deadzone     float32 `yaml:"deadzone" json:"deadzone"`
}

// DiagnosticsConfig holds the HTTP diagnostics server settings
type DiagnosticsConfig struct {
	HTTPAddr string `yaml:"http_addr" json:"http_addr"` // empty disables the server
}

// TelemetryConfig holds telemetry fan-out settings
type TelemetryConfig struct {
	PublishHz         int    `yaml:"publish_hz" json:"publish_hz"` // 0 publishes every tick
	BufferSize        int    `yaml:"buffer_size" json:"buffer_size"`
	ZMQPublishAddress string `yaml:"zmq_publish_address" json:"zmq_publish_address"`
	RedisAddr         string `yaml:"redis_addr" json:"redis_addr"`
}

// Default returns the configuration used when no file overrides a value.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Listener: ListenerConfig{
			ListenAddr:       "0.0.0.0:9090",
			QueueCapacity:    10,
			RestartBackoffMs: 1000,
		},
		Actuator: ActuatorConfig{
			I2CDev:    "/dev/i2c-1",
			PWMAddr:   0x60,
			PWMFreqHz: 1600,
		},
		Control: ControlConfig{
			LoopPeriodMs: 16,
			Deadzone:     0.2,
		},
		Diagnostics: DiagnosticsConfig{
			HTTPAddr: ":8080",
		},
		Telemetry: TelemetryConfig{
			PublishHz:  10,
			BufferSize: 32,
		},
	}
}

// LoadConfig loads configuration from the specified file path on top of the defaults,
// applies environment variable overrides and validates the result.
// An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file '%s': %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file '%s': %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvListenAddr); v != "" {
		cfg.Listener.ListenAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvI2CDev); v != "" {
		cfg.Actuator.I2CDev = v
	}
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.Listener.ListenAddr == "" {
		return fmt.Errorf("missing required field in config: listener.listen_addr")
	}
	if c.Actuator.I2CDev == "" {
		return fmt.Errorf("missing required field in config: actuator.i2c_dev")
	}
	if c.Actuator.PWMAddr == 0 || c.Actuator.PWMAddr > 0x7f {
		return fmt.Errorf("invalid value in config: actuator.pwm_addr 0x%x is not a 7-bit I2C address", c.Actuator.PWMAddr)
	}
	if c.Actuator.PWMFreqHz <= 0 {
		return fmt.Errorf("invalid value in config: actuator.pwm_freq_hz must be positive, got %d", c.Actuator.PWMFreqHz)
	}
	if c.Listener.QueueCapacity <= 0 {
		return fmt.Errorf("invalid value in config: listener.queue_capacity must be positive, got %d", c.Listener.QueueCapacity)
	}
	if c.Listener.RestartBackoffMs < 0 || c.Listener.MaxRestarts < 0 {
		return fmt.Errorf("invalid value in config: listener restart settings must not be negative")
	}
	if c.Control.LoopPeriodMs <= 0 {
		return fmt.Errorf("invalid value in config: control.loop_period_ms must be positive, got %d", c.Control.LoopPeriodMs)
	}
	if dz := float64(c.Control.Deadzone); dz < 0 || math.IsNaN(dz) || math.IsInf(dz, 0) {
		return fmt.Errorf("invalid value in config: control.deadzone must be a finite non-negative number, got %v", c.Control.Deadzone)
	}
	if c.Telemetry.PublishHz < 0 {
		return fmt.Errorf("invalid value in config: telemetry.publish_hz must not be negative, got %d", c.Telemetry.PublishHz)
	}
	if c.Telemetry.BufferSize <= 0 {
		return fmt.Errorf("invalid value in config: telemetry.buffer_size must be positive, got %d", c.Telemetry.BufferSize)
	}
	return nil
}

// LoopPeriod returns the minimum control loop period.
func (c *Config) LoopPeriod() time.Duration {
	return time.Duration(c.Control.LoopPeriodMs) * time.Millisecond
}

// RestartBackoff returns the delay between listener restarts.
func (c *Config) RestartBackoff() time.Duration {
	return time.Duration(c.Listener.RestartBackoffMs) * time.Millisecond
}

// PublishInterval returns the minimum interval between telemetry publications.
// Zero means every tick is published.
func (c *Config) PublishInterval() time.Duration {
	if c.Telemetry.PublishHz == 0 {
		return 0
	}
	return time.Second / time.Duration(c.Telemetry.PublishHz)
}

// YAML returns the configuration serialized back to YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("error serializing config: %w", err)
	}
	return data, nil
}
