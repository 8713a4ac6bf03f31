package relay

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	ClassConnectionFailure   = "ConnectionFailure"
	ClassConnectionExhausted = "ConnectionExhausted"
	ClassMalformedRecord     = "MalformedRecord"
	ClassPersistFailure      = "PersistFailure"
	ClassShutdownRequested   = "ShutdownRequested"

	TargetStream = "stream"
	TargetStore  = "store"
)

var (
	// ErrConnectionExhausted is the only error that Start() returns once the
	// relay has been configured correctly
	ErrConnectionExhausted = errors.New("connection retries exhausted")

	// ErrShutdownRequested marks a controlled termination; it is never
	// returned from Start()
	ErrShutdownRequested = errors.New("shutdown requested")
)

// ConnectionError is a (transient) failure to establish either the stream
// subscription or the store handle.
type ConnectionError struct {
	Target  string
	Attempt int
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("unable to connect to %s (attempt %d): %s", e.Target, e.Attempt, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// MalformedRecordError means a record value could not be decoded. The record
// is skipped.
type MalformedRecordError struct {
	Topic     string
	Partition int
	Offset    int64
	Err       error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at %s/%d@%d: %s", e.Topic, e.Partition, e.Offset, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// PersistError means the store rejected an insert after the connection was
// established. The record is not retried.
type PersistError struct {
	Topic     string
	Partition int
	Offset    int64
	Err       error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("unable to persist record %s/%d@%d: %s", e.Topic, e.Partition, e.Offset, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Classify returns the classification name used in log output for err
func Classify(err error) string {
	var connErr *ConnectionError
	var malformedErr *MalformedRecordError
	var persistErr *PersistError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConnectionExhausted):
		return ClassConnectionExhausted
	case errors.Is(err, ErrShutdownRequested):
		return ClassShutdownRequested
	case errors.As(err, &connErr):
		return ClassConnectionFailure
	case errors.As(err, &malformedErr):
		return ClassMalformedRecord
	case errors.As(err, &persistErr):
		return ClassPersistFailure
	}

	return "Unknown"
}
