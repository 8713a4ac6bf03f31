package relay

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/relistan/go-director"

	"github.com/batchcorp/streamsink/kv"
)

const (
	DefaultHeartbeatInterval = 10 * time.Second

	// HeartbeatKeyPrefix is prepended (after the kv prefix) to every
	// heartbeat key: heartbeat:<group>:<relayId>
	HeartbeatKeyPrefix = "heartbeat"

	// heartbeats expire after missing this many intervals
	heartbeatTTLMultiplier = 3
)

var (
	ErrMissingKV = errors.New("KV cannot be nil")
)

// HeartbeatConfig enables periodic liveness reports to a shared kv store so
// that every relay in a consumer group is visible from one place.
type HeartbeatConfig struct {
	KV       kv.IKV
	Interval time.Duration
}

// Heartbeat is the value written for a relay instance
type Heartbeat struct {
	RelayID       string    `json:"relay_id"`
	Topic         string    `json:"topic"`
	ConsumerGroup string    `json:"consumer_group"`
	State         State     `json:"state"`
	Stats         Stats     `json:"stats"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func validateHeartbeatConfig(cfg *HeartbeatConfig) error {
	if cfg.KV == nil {
		return ErrMissingKV
	}

	if cfg.Interval <= 0 {
		cfg.Interval = DefaultHeartbeatInterval
	}

	return nil
}

// HeartbeatKey returns the kv key a relay reports its liveness under
func HeartbeatKey(consumerGroup, relayID string) string {
	return fmt.Sprintf("%s:%s:%s", HeartbeatKeyPrefix, consumerGroup, relayID)
}

// startHeartbeat reports immediately and then every interval until the
// returned func is called; the func removes the heartbeat key.
func (r *Relay) startHeartbeat() func() {
	if r.Config.Heartbeat == nil {
		return func() {}
	}

	looper := director.NewImmediateTimedLooper(director.FOREVER, r.Config.Heartbeat.Interval, make(chan error, 1))

	go looper.Loop(func() error {
		if err := r.beat(); err != nil {
			r.log.WithError(err).Warn("unable to write heartbeat")
		}

		return nil
	})

	return func() {
		looper.Quit()
		looper.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), CloseTimeout)
		defer cancel()

		if err := r.Config.Heartbeat.KV.Delete(ctx, HeartbeatKey(r.Config.ConsumerGroup, r.id)); err != nil {
			r.log.WithError(err).Warn("unable to remove heartbeat")
		}
	}
}

func (r *Relay) beat() error {
	hb := &Heartbeat{
		RelayID:       r.id,
		Topic:         r.Config.Topic,
		ConsumerGroup: r.Config.ConsumerGroup,
		State:         r.State(),
		Stats:         r.Stats(),
		UpdatedAt:     time.Now().UTC(),
	}

	data, err := jsoniter.Marshal(hb)
	if err != nil {
		return errors.Wrap(err, "unable to marshal heartbeat")
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.Config.Heartbeat.Interval)
	defer cancel()

	ttl := heartbeatTTLMultiplier * r.Config.Heartbeat.Interval

	if err := r.Config.Heartbeat.KV.Put(ctx, HeartbeatKey(r.Config.ConsumerGroup, r.id), data, ttl); err != nil {
		return errors.Wrap(err, "unable to put heartbeat")
	}

	return nil
}
