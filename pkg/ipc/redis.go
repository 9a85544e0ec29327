// Package ipc mirrors drive state into Redis for other onboard services.
package ipc

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/open-teleop/rover/domain/diagnostic"
	"github.com/open-teleop/rover/domain/teleop"
	customlog "github.com/open-teleop/rover/pkg/log"
)

const (
	// DriveKey is the hash holding the latest drive state.
	DriveKey = "rover-drive"
	// DriveChannel receives the new cause whenever the drive switches between
	// operator commands and safety stops.
	DriveChannel = "rover-drive"

	writeTimeout = 500 * time.Millisecond
)

// Connect creates a Redis client for addr and checks it answers.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  writeTimeout,
		WriteTimeout: writeTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return client, nil
}

// stateStore applies one status write atomically. notify, when not empty, is
// published on DriveChannel in the same round trip.
type stateStore interface {
	storeStatus(ctx context.Context, fields map[string]interface{}, notify string) error
	Close() error
}

type redisStore struct {
	client *redis.Client
}

func (r redisStore) storeStatus(ctx context.Context, fields map[string]interface{}, notify string) error {
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, DriveKey, fields)
	if notify != "" {
		pipe.Publish(ctx, DriveChannel, notify)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r redisStore) Close() error {
	return r.client.Close()
}

// StatePublisher writes drive statuses to the DriveKey hash.
type StatePublisher struct {
	store     stateStore
	logger    customlog.Logger
	mu        sync.Mutex
	lastCause teleop.TickCause
}

// NewStatePublisher wraps a connected client. The publisher owns it from now on.
func NewStatePublisher(client *redis.Client, logger customlog.Logger) *StatePublisher {
	return newStatePublisher(redisStore{client: client}, logger)
}

func newStatePublisher(store stateStore, logger customlog.Logger) *StatePublisher {
	return &StatePublisher{
		store:  store,
		logger: logger,
	}
}

// Name identifies the publisher as a telemetry sink
func (p *StatePublisher) Name() string {
	return "redis"
}

// PublishStatus stores status and announces cause changes. A failed write
// leaves the last announced cause untouched so the change is announced again.
func (p *StatePublisher) PublishStatus(status diagnostic.DriveStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*writeTimeout)
	defer cancel()

	var notify string
	if status.Cause != p.lastCause {
		notify = status.Cause.String()
	}

	if err := p.store.storeStatus(ctx, statusFields(status), notify); err != nil {
		return fmt.Errorf("failed to store drive status: %w", err)
	}
	p.lastCause = status.Cause
	return nil
}

// Close closes the Redis client.
func (p *StatePublisher) Close() error {
	return p.store.Close()
}

func statusFields(s diagnostic.DriveStatus) map[string]interface{} {
	return map[string]interface{}{
		"run-id":            s.RunID,
		"seq":               s.Seq,
		"cause":             s.Cause.String(),
		"timestamp":         s.Timestamp.UnixMilli(),
		"translate:x":       formatFloat(s.Command.Translate.X),
		"translate:y":       formatFloat(s.Command.Translate.Y),
		"rotate":            formatFloat(s.Command.Rotate),
		"wheel:front-left":  formatFloat(s.Speeds.FrontLeft),
		"wheel:front-right": formatFloat(s.Speeds.FrontRight),
		"wheel:back-left":   formatFloat(s.Speeds.BackLeft),
		"wheel:back-right":  formatFloat(s.Speeds.BackRight),
		"received":          s.Received,
		"write-failures":    s.WriteFailures,
		"listener-restarts": s.ListenerRestarts,
		"dropped-reports":   s.DroppedReports,
	}
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 3, 32)
}
