package types

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrInvalidOffsetReset = errors.New("offset reset must be one of 'earliest' or 'latest'")
)

// OffsetReset determines where a consumer group with no committed offset
// starts reading from.
type OffsetReset string

const (
	OffsetResetEarliest OffsetReset = "earliest"
	OffsetResetLatest   OffsetReset = "latest"
)

// ParseOffsetReset is case-insensitive; an empty string resolves to latest
func ParseOffsetReset(s string) (OffsetReset, error) {
	switch OffsetReset(strings.ToLower(strings.TrimSpace(s))) {
	case "", OffsetResetLatest:
		return OffsetResetLatest, nil
	case OffsetResetEarliest:
		return OffsetResetEarliest, nil
	}

	return "", ErrInvalidOffsetReset
}

func (o OffsetReset) Valid() bool {
	return o == OffsetResetEarliest || o == OffsetResetLatest
}

// StreamRecord is a single message as delivered by a stream source. Value is
// opaque until decoded by the relay.
type StreamRecord struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Time      time.Time // broker timestamp, UTC
}

// Record is a decoded StreamRecord value; this is what gets persisted
type Record map[string]interface{}
