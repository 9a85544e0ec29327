package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/open-teleop/rover/domain/diagnostic"
	"github.com/open-teleop/rover/domain/supervisor"
	"github.com/open-teleop/rover/pkg/api"
	"github.com/open-teleop/rover/pkg/config"
	"github.com/open-teleop/rover/pkg/hat"
	"github.com/open-teleop/rover/pkg/ipc"
	"github.com/open-teleop/rover/pkg/listener"
	customlog "github.com/open-teleop/rover/pkg/log"
	"github.com/open-teleop/rover/pkg/processing"
	"github.com/open-teleop/rover/pkg/zeromq"
	"github.com/open-teleop/rover/services"
)

var version = "dev"

// listenerStats folds the counters of the listener and its restart policy together.
type listenerStats struct {
	listener   *listener.Listener
	supervisor *listener.Supervisor
}

func (s listenerStats) Received() uint64 { return s.listener.Received() }
func (s listenerStats) Restarts() uint64 { return s.supervisor.Restarts() }

func main() {
	configPath := flag.String("config", "", "path to the rover YAML config (defaults apply when empty)")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	os.Exit(run(*configPath))
}

func run(configPath string) int {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	logger, err := customlog.NewLogrusLogger(cfg.Logging.Level, cfg.Logging.LogPath, customlog.FileOptions{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	logger.Infof("Open-Teleop rover %s starting", version)

	queue := processing.NewCommandQueue("control", cfg.Listener.QueueCapacity, logger.WithField("component", "queue"))

	l := listener.NewListener(cfg.Listener.ListenAddr, queue, logger.WithField("component", "listener"))
	ls := listener.NewSupervisor(l, queue, cfg.RestartBackoff(), cfg.Listener.MaxRestarts, logger.WithField("component", "listener"))

	diagnostics := diagnostic.NewDiagnosticService()
	sinks := []services.StatusSink{diagnostics}
	tasks := []supervisor.Task{{Name: "control listener", Run: ls.Run}}

	var hub *api.TelemetryHub
	if cfg.Diagnostics.HTTPAddr != "" {
		hub = api.NewTelemetryHub(logger.WithField("component", "websocket"))
		sinks = append(sinks, hub)
	}

	if cfg.Telemetry.ZMQPublishAddress != "" {
		pub, err := zeromq.NewTelemetryPublisher(cfg.Telemetry.ZMQPublishAddress, logger.WithField("component", "zeromq"))
		if err != nil {
			logger.Warnf("ZeroMQ telemetry disabled: %v", err)
		} else {
			defer pub.Close()
			sinks = append(sinks, pub)
		}
	}

	if cfg.Telemetry.RedisAddr != "" {
		client, err := ipc.Connect(context.Background(), cfg.Telemetry.RedisAddr)
		if err != nil {
			logger.Warnf("Redis state mirror disabled: %v", err)
		} else {
			state := ipc.NewStatePublisher(client, logger.WithField("component", "redis"))
			defer state.Close()
			sinks = append(sinks, state)
		}
	}

	telemetry := services.NewTelemetryService(cfg.Telemetry.BufferSize, cfg.PublishInterval(), listenerStats{l, ls}, logger.WithField("component", "telemetry"), sinks...)
	tasks = append(tasks, supervisor.Task{Name: "telemetry", Run: telemetry.Run})

	if hub != nil {
		server := api.NewServer(cfg, diagnostics, hub, logger.WithField("component", "api"))
		tasks = append(tasks, supervisor.Task{Name: "diagnostics server", Run: server.Run})
	}

	s := supervisor.New(supervisor.Options{
		Open: func() (hat.Driver, error) {
			return hat.OpenMotorHat(cfg.Actuator.I2CDev, cfg.Actuator.PWMAddr, cfg.Actuator.PWMFreqHz)
		},
		Commands: queue,
		Period:   cfg.LoopPeriod(),
		Deadzone: cfg.Control.Deadzone,
		Observer: telemetry,
		Tasks:    tasks,
	}, logger)

	err = s.Run(context.Background())
	if errors.Is(err, supervisor.ErrShutdownRequested) {
		logger.Infof("Exiting: %v", err)
		return 0
	}
	logger.Errorf("Exiting: %v", err)
	return 1
}
