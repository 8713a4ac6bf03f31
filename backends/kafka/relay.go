package kafka

import (
	"context"

	"github.com/pkg/errors"
	skafka "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/streamsink/types"
)

var (
	errMissingRecord = errors.New("record cannot be nil")
)

// Subscription wraps a consumer-group reader. It is not safe for concurrent
// use; the relay owns it exclusively.
type Subscription struct {
	reader *skafka.Reader
	log    *logrus.Entry
}

func (s *Subscription) Receive(ctx context.Context) (*types.StreamRecord, error) {
	msg, err := s.reader.FetchMessage(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch kafka message")
	}

	s.log.Debugf("fetched message %d from partition %d", msg.Offset, msg.Partition)

	return convertKafkaMessage(msg), nil
}

// Commit commits the offset of record for the consumer group
func (s *Subscription) Commit(ctx context.Context, record *types.StreamRecord) error {
	if record == nil {
		return errMissingRecord
	}

	if err := s.reader.CommitMessages(ctx, skafka.Message{
		Topic:     record.Topic,
		Partition: record.Partition,
		Offset:    record.Offset,
	}); err != nil {
		return errors.Wrap(err, "unable to commit kafka offset")
	}

	return nil
}

func (s *Subscription) Close() error {
	return s.reader.Close()
}

func convertKafkaMessage(msg skafka.Message) *types.StreamRecord {
	return &types.StreamRecord{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   convertKafkaHeaders(msg.Headers),
		Time:      msg.Time.UTC(),
	}
}

// convertKafkaHeaders flattens headers into a map; later duplicates win
func convertKafkaHeaders(original []skafka.Header) map[string]string {
	converted := make(map[string]string, len(original))

	for _, o := range original {
		converted[o.Key] = string(o.Value)
	}

	return converted
}
