// Command motortest spins selected wheels so their wiring and polarity can be
// checked on the bench. Press Enter to stop; all wheels are zeroed on exit.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/open-teleop/rover/domain/drive"
	"github.com/open-teleop/rover/domain/supervisor"
	"github.com/open-teleop/rover/pkg/config"
	"github.com/open-teleop/rover/pkg/hat"
	customlog "github.com/open-teleop/rover/pkg/log"
)

func main() {
	configPath := flag.String("config", "", "path to the rover YAML config (defaults apply when empty)")
	wheels := flag.String("wheels", "fl,fr,bl,br", "comma separated wheels to spin")
	speed := flag.Float64("speed", 0.5, "throttle in [-1, 1]")
	flag.Parse()

	os.Exit(run(*configPath, *wheels, float32(*speed)))
}

func run(configPath, wheelList string, speed float32) int {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	logger := customlog.NewLogrusLoggerWithWriter(cfg.Logging.Level, os.Stdout)

	selected, err := parseWheels(wheelList)
	if err != nil {
		logger.Errorf("%v", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGQUIT, syscall.SIGTERM)
	defer stop()

	driver, err := hat.OpenMotorHat(cfg.Actuator.I2CDev, cfg.Actuator.PWMAddr, cfg.Actuator.PWMFreqHz)
	if err != nil {
		logger.Errorf("Failed to open motor hat: %v", err)
		return 1
	}
	d, err := drive.New(driver, 0, logger)
	if err != nil {
		driver.Close()
		logger.Errorf("Failed to construct motors: %v", err)
		return 1
	}
	guard := supervisor.NewGuard(d, driver, logger)
	defer guard.Release()

	for _, w := range selected {
		if err := d.SetWheel(w, speed); err != nil {
			logger.Warnf("%v", err)
		}
	}
	logger.Infof("Spinning %s at %.2f. Press Enter to stop.", wheelList, speed)

	enter := make(chan struct{})
	go func() {
		bufio.NewReader(os.Stdin).ReadString('\n')
		close(enter)
	}()

	select {
	case <-enter:
	case <-ctx.Done():
	}
	return 0
}

func parseWheels(list string) ([]drive.Wheel, error) {
	var wheels []drive.Wheel
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		w, err := drive.ParseWheel(name)
		if err != nil {
			return nil, err
		}
		wheels = append(wheels, w)
	}
	if len(wheels) == 0 {
		return nil, fmt.Errorf("no wheels selected")
	}
	return wheels, nil
}
