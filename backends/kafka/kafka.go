// Package kafka is the stream source used by the relay. Subscriptions are
// consumer-group readers that fetch explicitly and commit only when told to,
// so offsets advance after a record has been handled.
package kafka

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/pkg/errors"
	skafka "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/streamsink/backends"
	"github.com/batchcorp/streamsink/types"
)

const (
	BackendName = "kafka"

	DefaultTimeout   = 10 * time.Second
	DefaultBatchSize = 1
	DefaultMaxWait   = time.Second
)

var (
	ErrMissingConfig        = errors.New("kafka config cannot be nil")
	ErrMissingAddress       = errors.New("You must specify at least one broker address")
	ErrMissingTopic         = errors.New("You must specify a topic")
	ErrMissingConsumerGroup = errors.New("You must specify a consumer group")
	ErrMissingPassword      = errors.New("SASL password cannot be empty when a SASL username is set")
	ErrUnreachable          = errors.New("unable to connect to any brokers")
)

type Config struct {
	Address       []string
	Timeout       time.Duration
	TLSSkipVerify bool

	// SASLType is either "plain" (default) or "scram"
	SASLType     string
	SASLUsername string
	SASLPassword string
}

type Kafka struct {
	cfg    *Config
	dialer *skafka.Dialer
	log    *logrus.Entry
}

func New(cfg *Config) (*Kafka, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate kafka config")
	}

	dialer, err := newDialer(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create new dialer")
	}

	return &Kafka{
		cfg:    cfg,
		dialer: dialer,
		log:    logrus.WithField("backend", BackendName),
	}, nil
}

func (k *Kafka) Name() string {
	return BackendName
}

// Subscribe verifies that at least one broker is reachable and then creates a
// consumer-group reader for topic. The reader itself connects lazily, so
// without the check an unreachable cluster would only surface on first read.
func (k *Kafka) Subscribe(ctx context.Context, topic, consumerGroup string, reset types.OffsetReset) (backends.Subscription, error) {
	if topic == "" {
		return nil, ErrMissingTopic
	}

	if consumerGroup == "" {
		return nil, ErrMissingConsumerGroup
	}

	if err := k.ping(ctx); err != nil {
		return nil, err
	}

	reader := skafka.NewReader(skafka.ReaderConfig{
		Brokers:     k.cfg.Address,
		GroupID:     consumerGroup,
		Topic:       topic,
		Dialer:      k.dialer,
		StartOffset: startOffset(reset),
		MaxWait:     DefaultMaxWait,
	})

	return &Subscription{
		reader: reader,
		log:    k.log.WithFields(logrus.Fields{"topic": topic, "group": consumerGroup}),
	}, nil
}

// ping dials brokers in order until one answers a metadata request
func (k *Kafka) ping(ctx context.Context) error {
	for _, address := range k.cfg.Address {
		// The dialer timeout does not get utilized under some conditions - we
		// need a mechanism to bail out early.
		dialCtx, cancel := context.WithTimeout(ctx, k.cfg.Timeout)

		conn, err := k.dialer.DialContext(dialCtx, "tcp", address)
		cancel()

		if err != nil {
			k.log.Debugf("unable to dial broker '%s', trying next broker: %s", address, err)
			continue
		}

		_, err = conn.Brokers()
		conn.Close()

		if err != nil {
			k.log.Debugf("unable to read metadata from broker '%s', trying next broker: %s", address, err)
			continue
		}

		k.log.Debugf("broker '%s' is reachable", address)

		return nil
	}

	return ErrUnreachable
}

func startOffset(reset types.OffsetReset) int64 {
	if reset == types.OffsetResetEarliest {
		return skafka.FirstOffset
	}

	return skafka.LastOffset
}

// getAuthenticationMechanism returns the correct authentication config for use with kafka.Dialer if a username/password
// is provided. If not, it will return nil
func getAuthenticationMechanism(cfg *Config) (sasl.Mechanism, error) {
	if cfg.SASLUsername == "" {
		return nil, nil
	}

	if cfg.SASLPassword == "" {
		return nil, ErrMissingPassword
	}

	switch strings.ToLower(cfg.SASLType) {
	case "scram":
		return scram.Mechanism(scram.SHA512, cfg.SASLUsername, cfg.SASLPassword)
	default:
		return plain.Mechanism{
			Username: cfg.SASLUsername,
			Password: cfg.SASLPassword,
		}, nil
	}
}

func newDialer(cfg *Config) (*skafka.Dialer, error) {
	dialer := &skafka.Dialer{
		Timeout: cfg.Timeout,
	}

	if cfg.TLSSkipVerify {
		dialer.TLS = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	auth, err := getAuthenticationMechanism(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to get auth mechanism")
	}

	dialer.SASLMechanism = auth

	return dialer, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return ErrMissingConfig
	}

	if len(cfg.Address) == 0 {
		return ErrMissingAddress
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return nil
}
