// Package backends contains the interfaces the relay uses to talk to the
// outside world. A Source produces records from a stream; a Store persists
// them. Concrete implementations live in sub-packages.
package backends

import (
	"context"

	"github.com/batchcorp/streamsink/types"
)

// Source is a stream that can be subscribed to under a consumer group.
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . Source
type Source interface {
	// Name returns the name of the backend (ie. "kafka")
	Name() string

	// Subscribe establishes a subscription to a topic. It must fail if the
	// stream is unreachable so that callers can retry.
	Subscribe(ctx context.Context, topic, consumerGroup string, reset types.OffsetReset) (Subscription, error)
}

// Subscription is a live, exclusively owned subscription to a topic.
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . Subscription
type Subscription interface {
	// Receive blocks until a record is available or ctx is cancelled
	Receive(ctx context.Context) (*types.StreamRecord, error)

	// Commit marks the record (and everything before it in the same
	// partition) as consumed
	Commit(ctx context.Context, record *types.StreamRecord) error

	Close() error
}

// Store is a destination that records can be persisted to.
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . Store
type Store interface {
	// Name returns the name of the backend (ie. "mongo")
	Name() string

	// Connect opens a long-lived handle to the store. It must fail if the
	// store is unreachable so that callers can retry.
	Connect(ctx context.Context, uri string) (StoreHandle, error)
}

// StoreHandle is a long-lived, exclusively owned session with a store.
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . StoreHandle
type StoreHandle interface {
	InsertOne(ctx context.Context, database, collection string, record types.Record) error
	Close(ctx context.Context) error
}
