// Package relay moves records from a stream source into a store, one record
// at a time and in arrival order. It owns the connection lifecycle for both
// collaborators: connections are retried with a fixed backoff on startup,
// per-record failures are classified and counted and the relay keeps running
// until it is explicitly stopped.
package relay

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/batchcorp/streamsink/backends"
	"github.com/batchcorp/streamsink/prometheus"
	"github.com/batchcorp/streamsink/types"
)

const (
	DefaultRetryInterval = 5 * time.Second

	// CloseTimeout bounds how long closing the store handle may take on
	// shutdown
	CloseTimeout = 10 * time.Second
)

var (
	ErrMissingConfig        = errors.New("relay config cannot be nil")
	ErrMissingSource        = errors.New("Source cannot be nil")
	ErrMissingStore         = errors.New("Store cannot be nil")
	ErrMissingTopic         = errors.New("Topic cannot be empty")
	ErrMissingConsumerGroup = errors.New("ConsumerGroup cannot be empty")
	ErrMissingStoreURI      = errors.New("StoreURI cannot be empty")
	ErrMissingDatabase      = errors.New("DatabaseName cannot be empty")
	ErrMissingCollection    = errors.New("CollectionName cannot be empty")
	ErrInvalidRetryInterval = errors.New("RetryInterval cannot be negative")
	ErrAlreadyRunning       = errors.New("relay is already running")
)

type Config struct {
	Source backends.Source
	Store  backends.Store

	// BootstrapAddresses are the brokers Source was configured with; they
	// are only used for log output
	BootstrapAddresses []string
	Topic              string
	ConsumerGroup      string
	OffsetReset        types.OffsetReset

	StoreURI       string
	DatabaseName   string
	CollectionName string

	// RetryInterval is how long to wait between connection attempts and
	// between failed reads. It is read once, by New().
	RetryInterval time.Duration

	// MaxConnectRetries caps retries per connection (stream and store are
	// counted separately); <= 0 retries forever
	MaxConnectRetries int

	// Heartbeat is optional
	Heartbeat *HeartbeatConfig
}

// Stats are cumulative for the lifetime of a Relay
type Stats struct {
	Relayed         uint64 `json:"relayed"`
	Skipped         uint64 `json:"skipped"`
	Failed          uint64 `json:"failed"`
	ReadErrors      uint64 `json:"read_errors"`
	CommitErrors    uint64 `json:"commit_errors"`
	ConnectAttempts uint64 `json:"connect_attempts"`
}

type Relay struct {
	Config *Config

	// 64-bit counters first so they stay aligned on 32-bit platforms
	relayed         uint64
	skipped         uint64
	failed          uint64
	readErrors      uint64
	commitErrors    uint64
	connectAttempts uint64

	state int32

	id      string
	backoff BackoffPolicy

	runMtx   *sync.Mutex
	running  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce *sync.Once

	log *logrus.Entry
}

// connections are exclusively owned by a single Start() invocation
type connections struct {
	sub   backends.Subscription
	store backends.StoreHandle
}

func New(cfg *Config) (*Relay, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate relay config")
	}

	id := uuid.New().String()

	return &Relay{
		Config:  cfg,
		id:      id,
		backoff: FixedBackoff(cfg.RetryInterval),
		runMtx:  &sync.Mutex{},
		log: logrus.WithFields(logrus.Fields{
			"pkg":        "relay",
			"relayId":    id,
			"topic":      cfg.Topic,
			"group":      cfg.ConsumerGroup,
			"collection": cfg.DatabaseName + "." + cfg.CollectionName,
		}),
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return ErrMissingConfig
	}

	if cfg.Source == nil {
		return ErrMissingSource
	}

	if cfg.Store == nil {
		return ErrMissingStore
	}

	if cfg.Topic == "" {
		return ErrMissingTopic
	}

	if cfg.ConsumerGroup == "" {
		return ErrMissingConsumerGroup
	}

	if cfg.StoreURI == "" {
		return ErrMissingStoreURI
	}

	if cfg.DatabaseName == "" {
		return ErrMissingDatabase
	}

	if cfg.CollectionName == "" {
		return ErrMissingCollection
	}

	if cfg.OffsetReset == "" {
		cfg.OffsetReset = types.OffsetResetLatest
	}

	if !cfg.OffsetReset.Valid() {
		return types.ErrInvalidOffsetReset
	}

	if cfg.RetryInterval < 0 {
		return ErrInvalidRetryInterval
	}

	if cfg.RetryInterval == 0 {
		cfg.RetryInterval = DefaultRetryInterval
	}

	if cfg.Heartbeat != nil {
		if err := validateHeartbeatConfig(cfg.Heartbeat); err != nil {
			return errors.Wrap(err, "invalid heartbeat config")
		}
	}

	return nil
}

// ID uniquely identifies this relay instance
func (r *Relay) ID() string {
	return r.id
}

func (r *Relay) State() State {
	return State(atomic.LoadInt32(&r.state))
}

func (r *Relay) Stats() Stats {
	return Stats{
		Relayed:         atomic.LoadUint64(&r.relayed),
		Skipped:         atomic.LoadUint64(&r.skipped),
		Failed:          atomic.LoadUint64(&r.failed),
		ReadErrors:      atomic.LoadUint64(&r.readErrors),
		CommitErrors:    atomic.LoadUint64(&r.commitErrors),
		ConnectAttempts: atomic.LoadUint64(&r.connectAttempts),
	}
}

func (r *Relay) setState(s State) {
	prev := State(atomic.SwapInt32(&r.state, int32(s)))
	if prev == s {
		return
	}

	prometheus.SetPromGauge(prometheus.RelayState, float64(s))

	r.log.WithFields(logrus.Fields{
		"from": prev.String(),
		"to":   s.String(),
	}).Info("relay state change")
}

// Start connects to the stream and the store and relays records until Stop()
// is called or ctx is cancelled. It blocks for the lifetime of the relay.
//
// A nil return means the relay was shut down. The only error returned after
// the relay has started is one wrapping ErrConnectionExhausted.
func (r *Relay) Start(ctx context.Context) error {
	r.runMtx.Lock()

	if r.running {
		r.runMtx.Unlock()
		return ErrAlreadyRunning
	}

	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.stopOnce = &sync.Once{}

	stopCh, doneCh := r.stopCh, r.doneCh

	r.runMtx.Unlock()

	defer func() {
		r.runMtx.Lock()
		r.running = false
		close(doneCh)
		r.runMtx.Unlock()
	}()

	// runCtx governs connecting and receiving; it is cancelled by Stop().
	// Inserts use ctx so that a graceful stop lets the in-flight insert
	// finish.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-stopCh:
			cancel()
		case <-runCtx.Done():
		}
	}()

	r.log.WithField("brokers", r.Config.BootstrapAddresses).Info("starting relay")

	r.setState(StateConnecting)

	conns, err := r.connect(runCtx)
	if err != nil {
		r.setState(StateStopped)

		if errors.Is(err, ErrShutdownRequested) {
			r.log.WithField("classification", ClassShutdownRequested).Info("relay stopped while connecting")
			return nil
		}

		r.log.WithError(err).WithField("classification", ClassConnectionExhausted).Error("giving up on connecting")

		return err
	}

	r.setState(StateStreaming)

	stopHeartbeat := r.startHeartbeat()

	r.stream(ctx, runCtx, conns)

	r.setState(StateDraining)

	stopHeartbeat()
	r.closeConnections(conns)

	r.setState(StateStopped)

	r.log.WithField("classification", ClassShutdownRequested).Info("relay stopped")

	return nil
}

// Stop gracefully stops a running relay: the record currently being inserted
// (if any) is finished, connections are closed and Stop blocks until the
// relay is Stopped. Safe to call more than once and from any goroutine.
func (r *Relay) Stop() {
	r.runMtx.Lock()

	if !r.running {
		r.runMtx.Unlock()

		// Never started; nothing to drain
		atomic.CompareAndSwapInt32(&r.state, int32(StateDisconnected), int32(StateStopped))

		return
	}

	stopCh, doneCh, once := r.stopCh, r.doneCh, r.stopOnce

	r.runMtx.Unlock()

	once.Do(func() {
		r.log.Info("stop requested, draining")
		close(stopCh)
	})

	<-doneCh
}

// connect establishes the store handle and the stream subscription. Each is
// retried independently; a connection that succeeded is kept while the other
// one is retried.
func (r *Relay) connect(ctx context.Context) (*connections, error) {
	conns := &connections{}

	var storeAttempts, streamAttempts int

	for {
		if ctx.Err() != nil {
			r.closeConnections(conns)
			return nil, ErrShutdownRequested
		}

		if conns.store == nil {
			storeAttempts++

			handle, err := r.connectStore(ctx, storeAttempts)
			if err != nil {
				if ctx.Err() != nil {
					r.closeConnections(conns)
					return nil, ErrShutdownRequested
				}

				if r.exhausted(storeAttempts) {
					r.closeConnections(conns)
					return nil, errors.Wrapf(ErrConnectionExhausted, "%s", err)
				}
			} else {
				conns.store = handle
			}
		}

		if conns.sub == nil {
			streamAttempts++

			sub, err := r.connectStream(ctx, streamAttempts)
			if err != nil {
				if ctx.Err() != nil {
					r.closeConnections(conns)
					return nil, ErrShutdownRequested
				}

				if r.exhausted(streamAttempts) {
					r.closeConnections(conns)
					return nil, errors.Wrapf(ErrConnectionExhausted, "%s", err)
				}
			} else {
				conns.sub = sub
			}
		}

		if conns.store != nil && conns.sub != nil {
			return conns, nil
		}

		retryIn := r.backoff.Duration(maxInt(storeAttempts, streamAttempts) - 1)

		r.log.Infof("retrying connection in %s", retryIn)

		if !r.wait(ctx, retryIn) {
			r.closeConnections(conns)
			return nil, ErrShutdownRequested
		}
	}
}

func (r *Relay) connectStore(ctx context.Context, attempt int) (backends.StoreHandle, error) {
	llog := r.log.WithFields(logrus.Fields{"target": TargetStore, "attempt": attempt})

	atomic.AddUint64(&r.connectAttempts, 1)
	prometheus.IncrPromCounter(prometheus.RelayConnectAttempts, 1)

	llog.Debugf("connecting to %s store", r.Config.Store.Name())

	handle, err := r.Config.Store.Connect(ctx, r.Config.StoreURI)
	if err != nil {
		connErr := &ConnectionError{Target: TargetStore, Attempt: attempt, Err: err}

		llog.WithError(err).WithField("classification", ClassConnectionFailure).
			Warn("unable to connect to store")

		return nil, connErr
	}

	llog.Info("connected to store")

	return handle, nil
}

func (r *Relay) connectStream(ctx context.Context, attempt int) (backends.Subscription, error) {
	llog := r.log.WithFields(logrus.Fields{"target": TargetStream, "attempt": attempt})

	atomic.AddUint64(&r.connectAttempts, 1)
	prometheus.IncrPromCounter(prometheus.RelayConnectAttempts, 1)

	llog.Debugf("subscribing to %s stream", r.Config.Source.Name())

	sub, err := r.Config.Source.Subscribe(ctx, r.Config.Topic, r.Config.ConsumerGroup, r.Config.OffsetReset)
	if err != nil {
		connErr := &ConnectionError{Target: TargetStream, Attempt: attempt, Err: err}

		llog.WithError(err).WithField("classification", ClassConnectionFailure).
			Warn("unable to subscribe to stream")

		return nil, connErr
	}

	llog.WithField("offsetReset", r.Config.OffsetReset).Info("subscribed to stream")

	return sub, nil
}

func (r *Relay) exhausted(attempts int) bool {
	if r.Config.MaxConnectRetries <= 0 {
		return false
	}

	// The first attempt is not a retry
	return attempts > r.Config.MaxConnectRetries
}

// wait returns false if ctx was cancelled before d elapsed
func (r *Relay) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// stream is the read-decode-persist loop. runCtx is cancelled on Stop() and
// only interrupts receiving; ctx is only cancelled on a forced shutdown.
func (r *Relay) stream(ctx, runCtx context.Context, conns *connections) {
	for {
		if runCtx.Err() != nil {
			return
		}

		record, err := conns.sub.Receive(runCtx)
		if err != nil {
			if runCtx.Err() != nil {
				return
			}

			atomic.AddUint64(&r.readErrors, 1)
			prometheus.IncrPromCounter(prometheus.RelayReadErrors, 1)
			prometheus.Mute("relay-persisted")

			retryIn := r.backoff.Duration(0)

			r.log.WithError(err).Warnf("unable to read record; retrying in %s", retryIn)

			if !r.wait(runCtx, retryIn) {
				return
			}

			continue
		}

		// A record that has been read is always handled, even if a stop
		// arrived in the meantime
		r.handle(ctx, conns, record)
	}
}

// handle decodes and persists a single record. Per-record failures are
// logged and counted; they never stop the relay.
func (r *Relay) handle(ctx context.Context, conns *connections, record *types.StreamRecord) {
	if record == nil {
		r.log.Warn("received nil record - bug?")
		return
	}

	llog := r.log.WithFields(logrus.Fields{
		"partition": record.Partition,
		"offset":    record.Offset,
	})

	doc, err := Decode(record.Value)
	if err != nil {
		malformedErr := &MalformedRecordError{
			Topic:     record.Topic,
			Partition: record.Partition,
			Offset:    record.Offset,
			Err:       err,
		}

		atomic.AddUint64(&r.skipped, 1)
		prometheus.IncrPromCounter(prometheus.RelaySkippedTotal, 1)

		llog.WithError(malformedErr).WithField("classification", ClassMalformedRecord).Warn("skipping record")

		// Redelivery cannot fix a malformed record
		r.commit(ctx, conns, record, llog)

		return
	}

	if err := conns.store.InsertOne(ctx, r.Config.DatabaseName, r.Config.CollectionName, doc); err != nil {
		persistErr := &PersistError{
			Topic:     record.Topic,
			Partition: record.Partition,
			Offset:    record.Offset,
			Err:       err,
		}

		atomic.AddUint64(&r.failed, 1)
		prometheus.IncrPromCounter(prometheus.RelayFailedTotal, 1)

		llog.WithError(persistErr).WithFields(logrus.Fields{
			"classification": ClassPersistFailure,
			"recordId":       gjson.GetBytes(record.Value, "id").String(),
		}).Error("unable to persist record")

		// Not committed, but kafka offsets are cumulative per partition: the
		// next commit on this partition covers it. The record is only
		// redelivered if the process exits before that commit happens.
		return
	}

	atomic.AddUint64(&r.relayed, 1)
	prometheus.IncrPromCounter(prometheus.RelayRecordsTotal, 1)
	prometheus.Incr("relay-persisted", 1)

	llog.Debug("persisted record")

	r.commit(ctx, conns, record, llog)
}

func (r *Relay) commit(ctx context.Context, conns *connections, record *types.StreamRecord, llog *logrus.Entry) {
	if err := conns.sub.Commit(ctx, record); err != nil {
		atomic.AddUint64(&r.commitErrors, 1)
		prometheus.IncrPromCounter(prometheus.RelayCommitErrors, 1)

		llog.WithError(err).Warn("unable to commit offset; record may be redelivered")
	}
}

func (r *Relay) closeConnections(conns *connections) {
	if conns == nil {
		return
	}

	if conns.sub != nil {
		if err := conns.sub.Close(); err != nil {
			r.log.WithError(err).Error("unable to close stream subscription")
		}

		conns.sub = nil
	}

	if conns.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), CloseTimeout)
		defer cancel()

		if err := conns.store.Close(ctx); err != nil {
			r.log.WithError(err).Error("unable to close store handle")
		}

		conns.store = nil
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}
