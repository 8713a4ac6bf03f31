package kafka

import (
	"context"

	"github.com/pkg/errors"
	skafka "github.com/segmentio/kafka-go"
)

// Write publishes each value as a separate message to topic. Used by the
// `write` command to seed a topic with sample records.
func (k *Kafka) Write(ctx context.Context, topic string, values ...[]byte) error {
	if topic == "" {
		return ErrMissingTopic
	}

	if err := k.ping(ctx); err != nil {
		return err
	}

	writer := NewWriter(k.dialer, k.cfg, topic)
	defer writer.Close()

	for i, value := range values {
		if err := writer.WriteMessages(ctx, skafka.Message{Value: value}); err != nil {
			return errors.Wrapf(err, "unable to write message %d to topic '%s'", i, topic)
		}

		k.log.Debugf("wrote message %d to topic '%s'", i, topic)
	}

	return nil
}

// NewWriter creates a new instance of a writer that can write messages to a topic.
// NOTE: Continuing to use the deprecated NewWriter() func to avoid dealing with
// TLS issues (since *Writer does not have a Dialer and Transport has TLS
// defined separate from the dialer).
func NewWriter(dialer *skafka.Dialer, cfg *Config, topic string) *skafka.Writer {
	return skafka.NewWriter(skafka.WriterConfig{
		Brokers:   cfg.Address,
		Topic:     topic,
		Dialer:    dialer,
		BatchSize: DefaultBatchSize,
	})
}
