package relay

import (
	"context"
	"io/ioutil"
	"sync"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/streamsink/backends"
	"github.com/batchcorp/streamsink/backends/backendsfakes"
	"github.com/batchcorp/streamsink/kv/kvfakes"
	"github.com/batchcorp/streamsink/types"
)

const testRetryInterval = 50 * time.Millisecond

// feed makes sub deliver records in order and then block until its context
// is cancelled
func feed(sub *backendsfakes.FakeSubscription, records ...*types.StreamRecord) {
	ch := make(chan *types.StreamRecord, len(records))
	for _, r := range records {
		ch <- r
	}

	sub.ReceiveCalls(func(ctx context.Context) (*types.StreamRecord, error) {
		select {
		case rec := <-ch:
			return rec, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

func record(offset int64, value string) *types.StreamRecord {
	return &types.StreamRecord{
		Topic:  "device-stream-topic",
		Offset: offset,
		Value:  []byte(value),
	}
}

func start(r *Relay, ctx context.Context) chan error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- r.Start(ctx)
	}()

	return errCh
}

var _ = Describe("Relay", func() {
	var (
		source *backendsfakes.FakeSource
		sub    *backendsfakes.FakeSubscription
		store  *backendsfakes.FakeStore
		handle *backendsfakes.FakeStoreHandle
		cfg    *Config
		r      *Relay
	)

	BeforeEach(func() {
		source = &backendsfakes.FakeSource{}
		sub = &backendsfakes.FakeSubscription{}
		store = &backendsfakes.FakeStore{}
		handle = &backendsfakes.FakeStoreHandle{}

		source.NameReturns("fake-stream")
		source.SubscribeReturns(sub, nil)
		store.NameReturns("fake-store")
		store.ConnectReturns(handle, nil)

		feed(sub)

		cfg = &Config{
			Source:             source,
			Store:              store,
			BootstrapAddresses: []string{"kafka:9092"},
			Topic:              "device-stream-topic",
			ConsumerGroup:      "device-stream-group",
			OffsetReset:        types.OffsetResetLatest,
			StoreURI:           "mongodb://localhost:27017",
			DatabaseName:       "SCM",
			CollectionName:     "device_stream",
			RetryInterval:      testRetryInterval,
		}
	})

	JustBeforeEach(func() {
		var err error

		r, err = New(cfg)
		Expect(err).ToNot(HaveOccurred())

		r.log = logrus.NewEntry(&logrus.Logger{Out: ioutil.Discard})
	})

	Context("validateConfig", func() {
		It("validates nil config", func() {
			Expect(validateConfig(nil)).To(Equal(ErrMissingConfig))
		})

		It("validates source", func() {
			cfg.Source = nil
			Expect(validateConfig(cfg)).To(Equal(ErrMissingSource))
		})

		It("validates store", func() {
			cfg.Store = nil
			Expect(validateConfig(cfg)).To(Equal(ErrMissingStore))
		})

		It("validates topic", func() {
			cfg.Topic = ""
			Expect(validateConfig(cfg)).To(Equal(ErrMissingTopic))
		})

		It("validates consumer group", func() {
			cfg.ConsumerGroup = ""
			Expect(validateConfig(cfg)).To(Equal(ErrMissingConsumerGroup))
		})

		It("validates store URI", func() {
			cfg.StoreURI = ""
			Expect(validateConfig(cfg)).To(Equal(ErrMissingStoreURI))
		})

		It("validates database and collection", func() {
			cfg.DatabaseName = ""
			Expect(validateConfig(cfg)).To(Equal(ErrMissingDatabase))

			cfg.DatabaseName = "SCM"
			cfg.CollectionName = ""
			Expect(validateConfig(cfg)).To(Equal(ErrMissingCollection))
		})

		It("validates offset reset", func() {
			cfg.OffsetReset = "middle"
			Expect(validateConfig(cfg)).To(Equal(types.ErrInvalidOffsetReset))
		})

		It("rejects a negative retry interval", func() {
			cfg.RetryInterval = -time.Second
			Expect(validateConfig(cfg)).To(Equal(ErrInvalidRetryInterval))
		})

		It("applies defaults", func() {
			cfg.RetryInterval = 0
			cfg.OffsetReset = ""

			Expect(validateConfig(cfg)).To(Succeed())
			Expect(cfg.RetryInterval).To(Equal(DefaultRetryInterval))
			Expect(cfg.OffsetReset).To(Equal(types.OffsetResetLatest))
		})

		It("validates heartbeat kv", func() {
			cfg.Heartbeat = &HeartbeatConfig{}

			err := validateConfig(cfg)
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrMissingKV)).To(BeTrue())
		})
	})

	It("starts out disconnected", func() {
		Expect(r.State()).To(Equal(StateDisconnected))
		Expect(r.ID()).ToNot(BeEmpty())
	})

	Context("streaming", func() {
		It("inserts every valid record once and in order", func() {
			feed(sub,
				record(0, `{"id":0}`),
				record(1, `{"id":1}`),
				record(2, `{"id":2}`),
				record(3, `{"id":3}`),
				record(4, `{"id":4}`),
			)

			errCh := start(r, context.Background())

			Eventually(handle.InsertOneCallCount).Should(Equal(5))

			r.Stop()

			Expect(handle.InsertOneCallCount()).To(Equal(5))

			for i := 0; i < 5; i++ {
				_, db, coll, rec := handle.InsertOneArgsForCall(i)
				Expect(db).To(Equal("SCM"))
				Expect(coll).To(Equal("device_stream"))
				Expect(rec["id"]).To(Equal(int64(i)))
			}

			Expect(r.Stats().Relayed).To(Equal(uint64(5)))
			Eventually(errCh).Should(Receive(BeNil()))
		})

		It("skips malformed records and keeps going", func() {
			feed(sub,
				record(0, `{"id":1,"temp":20}`),
				record(1, "\xff\xfe{malformed"),
				record(2, `{"id":2,"temp":21}`),
			)

			errCh := start(r, context.Background())

			Eventually(handle.InsertOneCallCount).Should(Equal(2))
			Eventually(func() uint64 { return r.Stats().Skipped }).Should(Equal(uint64(1)))

			r.Stop()

			_, _, _, first := handle.InsertOneArgsForCall(0)
			_, _, _, second := handle.InsertOneArgsForCall(1)

			Expect(first).To(Equal(types.Record{"id": int64(1), "temp": int64(20)}))
			Expect(second).To(Equal(types.Record{"id": int64(2), "temp": int64(21)}))

			stats := r.Stats()
			Expect(stats.Skipped).To(Equal(uint64(1)))
			Expect(stats.Relayed).To(Equal(uint64(2)))
			Expect(stats.Failed).To(BeZero())
			Expect(r.State()).To(Equal(StateStopped))
			Eventually(errCh).Should(Receive(BeNil()))
		})

		It("counts insert failures without retrying or stopping", func() {
			feed(sub,
				record(0, `{"id":1}`),
				record(1, `{"id":2}`),
				record(2, `{"id":3}`),
			)

			handle.InsertOneReturnsOnCall(1, errors.New("duplicate key"))

			start(r, context.Background())

			Eventually(handle.InsertOneCallCount).Should(Equal(3))
			Eventually(func() uint64 { return r.Stats().Relayed }).Should(Equal(uint64(2)))

			r.Stop()

			stats := r.Stats()
			Expect(stats.Failed).To(Equal(uint64(1)))
			Expect(stats.Relayed).To(Equal(uint64(2)))

			_, _, _, third := handle.InsertOneArgsForCall(2)
			Expect(third["id"]).To(Equal(int64(3)))
		})

		It("does not commit the offset of a record that failed to persist", func() {
			feed(sub,
				record(10, `{"id":1}`),
				record(11, `not json`),
				record(12, `{"id":2}`),
			)

			handle.InsertOneReturnsOnCall(1, errors.New("write concern error"))

			start(r, context.Background())

			Eventually(sub.CommitCallCount).Should(Equal(2))
			Eventually(handle.InsertOneCallCount).Should(Equal(2))

			r.Stop()

			Expect(sub.CommitCallCount()).To(Equal(2))

			_, first := sub.CommitArgsForCall(0)
			_, second := sub.CommitArgsForCall(1)

			Expect(first.Offset).To(Equal(int64(10)))
			Expect(second.Offset).To(Equal(int64(11)))
		})

		It("moves the partition offset past a failed record on the next commit", func() {
			feed(sub,
				record(20, `{"id":1}`),
				record(21, `{"id":2}`),
				record(22, `{"id":3}`),
			)

			handle.InsertOneReturnsOnCall(1, errors.New("write concern error"))

			start(r, context.Background())

			Eventually(sub.CommitCallCount).Should(Equal(2))

			r.Stop()

			Expect(handle.InsertOneCallCount()).To(Equal(3))
			Expect(r.Stats().Failed).To(Equal(uint64(1)))

			// offset 21 is never committed on its own; committing 22 covers it
			offsets := []int64{}
			for i := 0; i < sub.CommitCallCount(); i++ {
				_, committed := sub.CommitArgsForCall(i)
				offsets = append(offsets, committed.Offset)
			}

			Expect(offsets).To(Equal([]int64{20, 22}))
		})

		It("counts commit failures without stopping", func() {
			feed(sub, record(0, `{"id":1}`), record(1, `{"id":2}`))

			sub.CommitReturns(errors.New("rebalance in progress"))

			start(r, context.Background())

			Eventually(handle.InsertOneCallCount).Should(Equal(2))
			Eventually(func() uint64 { return r.Stats().CommitErrors }).Should(Equal(uint64(2)))

			r.Stop()
		})

		It("retries reads after a receive error", func() {
			records := make(chan *types.StreamRecord, 1)
			records <- record(0, `{"id":1}`)

			var mtx sync.Mutex
			calls := 0

			sub.ReceiveCalls(func(ctx context.Context) (*types.StreamRecord, error) {
				mtx.Lock()
				calls++
				n := calls
				mtx.Unlock()

				if n == 1 {
					return nil, errors.New("broker went away")
				}

				select {
				case rec := <-records:
					return rec, nil
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			})

			start(r, context.Background())

			Eventually(handle.InsertOneCallCount).Should(Equal(1))

			r.Stop()

			Expect(r.Stats().ReadErrors).To(Equal(uint64(1)))
			Expect(r.Stats().Relayed).To(Equal(uint64(1)))
		})
	})

	Context("connecting", func() {
		Context("with a longer retry interval", func() {
			BeforeEach(func() {
				cfg.RetryInterval = 200 * time.Millisecond
			})

			It("waits at least the retry interval between stream attempts", func() {
				var mtx sync.Mutex
				attempts := make([]time.Time, 0)

				source.SubscribeCalls(func(_ context.Context, _, _ string, _ types.OffsetReset) (backends.Subscription, error) {
					mtx.Lock()
					defer mtx.Unlock()

					attempts = append(attempts, time.Now())

					if len(attempts) < 3 {
						return nil, errors.New("connection refused")
					}

					return sub, nil
				})

				start(r, context.Background())

				Eventually(source.SubscribeCallCount).Should(Equal(1))
				Consistently(r.State, 100*time.Millisecond).Should(Equal(StateConnecting))

				Eventually(r.State, time.Second).Should(Equal(StateStreaming))

				r.Stop()

				mtx.Lock()
				defer mtx.Unlock()

				Expect(attempts).To(HaveLen(3))
				Expect(attempts[1].Sub(attempts[0])).To(BeNumerically(">=", cfg.RetryInterval))
				Expect(attempts[2].Sub(attempts[1])).To(BeNumerically(">=", cfg.RetryInterval))

				// store connected on the first try and was kept
				Expect(store.ConnectCallCount()).To(Equal(1))
				Expect(r.Stats().ConnectAttempts).To(Equal(uint64(4)))
			})

			It("waits the retry interval after a failed read", func() {
				var mtx sync.Mutex
				reads := make([]time.Time, 0)

				sub.ReceiveCalls(func(ctx context.Context) (*types.StreamRecord, error) {
					mtx.Lock()
					reads = append(reads, time.Now())
					n := len(reads)
					mtx.Unlock()

					if n == 1 {
						return nil, errors.New("broker went away")
					}

					<-ctx.Done()

					return nil, ctx.Err()
				})

				start(r, context.Background())

				Eventually(sub.ReceiveCallCount, time.Second).Should(Equal(2))

				r.Stop()

				mtx.Lock()
				defer mtx.Unlock()

				Expect(reads[1].Sub(reads[0])).To(BeNumerically(">=", cfg.RetryInterval))
			})
		})

		It("retries the store independently of the stream", func() {
			store.ConnectReturnsOnCall(0, nil, errors.New("no reachable servers"))
			store.ConnectReturnsOnCall(1, handle, nil)

			start(r, context.Background())

			Eventually(r.State).Should(Equal(StateStreaming))

			r.Stop()

			Expect(store.ConnectCallCount()).To(Equal(2))
			Expect(source.SubscribeCallCount()).To(Equal(1))

			_, uri := store.ConnectArgsForCall(0)
			Expect(uri).To(Equal("mongodb://localhost:27017"))

			_, topic, group, reset := source.SubscribeArgsForCall(0)
			Expect(topic).To(Equal("device-stream-topic"))
			Expect(group).To(Equal("device-stream-group"))
			Expect(reset).To(Equal(types.OffsetResetLatest))
		})

		It("gives up once the retry budget is exhausted", func() {
			cfg.MaxConnectRetries = 2
			source.SubscribeReturns(nil, errors.New("connection refused"))

			err := r.Start(context.Background())
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrConnectionExhausted)).To(BeTrue())
			Expect(Classify(err)).To(Equal(ClassConnectionExhausted))

			// one attempt plus two retries
			Expect(source.SubscribeCallCount()).To(Equal(3))
			Expect(r.State()).To(Equal(StateStopped))

			// the store handle that did connect is released
			Expect(handle.CloseCallCount()).To(Equal(1))
		})

		Context("with an hour between attempts", func() {
			BeforeEach(func() {
				cfg.RetryInterval = time.Hour
			})

			It("can be stopped while connecting", func() {
				source.SubscribeReturns(nil, errors.New("connection refused"))

				errCh := start(r, context.Background())

				Eventually(source.SubscribeCallCount).Should(Equal(1))
				Eventually(r.State).Should(Equal(StateConnecting))

				r.Stop()

				Expect(r.State()).To(Equal(StateStopped))
				Eventually(errCh).Should(Receive(BeNil()))
				Expect(source.SubscribeCallCount()).To(Equal(1))
				Expect(handle.CloseCallCount()).To(Equal(1))
			})
		})
	})

	Context("Stop", func() {
		It("closes the subscription and the store handle", func() {
			errCh := start(r, context.Background())

			Eventually(r.State).Should(Equal(StateStreaming))

			r.Stop()

			Expect(r.State()).To(Equal(StateStopped))
			Expect(sub.CloseCallCount()).To(Equal(1))
			Expect(handle.CloseCallCount()).To(Equal(1))
			Eventually(errCh).Should(Receive(BeNil()))
		})

		It("is safe to call twice", func() {
			start(r, context.Background())

			Eventually(r.State).Should(Equal(StateStreaming))

			r.Stop()
			r.Stop()

			Expect(r.State()).To(Equal(StateStopped))
			Expect(sub.CloseCallCount()).To(Equal(1))
			Expect(handle.CloseCallCount()).To(Equal(1))
		})

		It("is safe to call concurrently", func() {
			start(r, context.Background())

			Eventually(r.State).Should(Equal(StateStreaming))

			wg := &sync.WaitGroup{}

			for i := 0; i < 5; i++ {
				wg.Add(1)

				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					r.Stop()
				}()
			}

			wg.Wait()

			Expect(r.State()).To(Equal(StateStopped))
			Expect(sub.CloseCallCount()).To(Equal(1))
		})

		It("moves a relay that never started to stopped", func() {
			r.Stop()

			Expect(r.State()).To(Equal(StateStopped))
			Expect(source.SubscribeCallCount()).To(BeZero())
		})

		It("lets the in-flight insert finish", func() {
			feed(sub, record(0, `{"id":1}`))

			inserting := make(chan struct{})
			release := make(chan struct{})

			var insertCtxErr error

			handle.InsertOneCalls(func(ctx context.Context, _, _ string, _ types.Record) error {
				close(inserting)
				<-release

				insertCtxErr = ctx.Err()

				return nil
			})

			start(r, context.Background())

			Eventually(inserting).Should(BeClosed())

			stopped := make(chan struct{})

			go func() {
				r.Stop()
				close(stopped)
			}()

			Consistently(stopped, 100*time.Millisecond).ShouldNot(BeClosed())
			Expect(handle.CloseCallCount()).To(BeZero())

			close(release)

			Eventually(stopped).Should(BeClosed())

			Expect(insertCtxErr).ToNot(HaveOccurred())
			Expect(r.Stats().Relayed).To(Equal(uint64(1)))
			Expect(r.State()).To(Equal(StateStopped))
		})

		It("stops when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())

			errCh := start(r, ctx)

			Eventually(r.State).Should(Equal(StateStreaming))

			cancel()

			Eventually(errCh).Should(Receive(BeNil()))
			Expect(r.State()).To(Equal(StateStopped))
			Expect(handle.CloseCallCount()).To(Equal(1))
		})
	})

	Context("Start", func() {
		It("refuses to start twice", func() {
			start(r, context.Background())

			Eventually(r.State).Should(Equal(StateStreaming))

			Expect(r.Start(context.Background())).To(Equal(ErrAlreadyRunning))

			r.Stop()
		})

		It("can start again after being stopped", func() {
			start(r, context.Background())
			Eventually(r.State).Should(Equal(StateStreaming))
			r.Stop()

			feed(sub, record(0, `{"id":7}`))

			start(r, context.Background())
			Eventually(handle.InsertOneCallCount).Should(Equal(1))
			r.Stop()

			Expect(source.SubscribeCallCount()).To(Equal(2))
			Expect(r.State()).To(Equal(StateStopped))
		})
	})

	Context("heartbeat", func() {
		var fakeKV *kvfakes.FakeIKV

		BeforeEach(func() {
			fakeKV = &kvfakes.FakeIKV{}

			cfg.Heartbeat = &HeartbeatConfig{
				KV:       fakeKV,
				Interval: 20 * time.Millisecond,
			}
		})

		It("reports while streaming and cleans up on stop", func() {
			start(r, context.Background())

			Eventually(fakeKV.PutCallCount).Should(BeNumerically(">=", 2))

			r.Stop()

			_, key, value, ttl := fakeKV.PutArgsForCall(0)
			Expect(key).To(Equal(HeartbeatKey("device-stream-group", r.ID())))
			Expect(string(value)).To(ContainSubstring(`"state":"streaming"`))
			Expect(ttl).To(Equal(60 * time.Millisecond))

			Expect(fakeKV.DeleteCallCount()).To(Equal(1))

			_, deleted := fakeKV.DeleteArgsForCall(0)
			Expect(deleted).To(Equal(key))
		})

		It("keeps relaying when the kv store is unavailable", func() {
			fakeKV.PutReturns(errors.New("redis: connection refused"))
			feed(sub, record(0, `{"id":1}`))

			start(r, context.Background())

			Eventually(handle.InsertOneCallCount).Should(Equal(1))

			r.Stop()

			Expect(r.State()).To(Equal(StateStopped))
		})
	})
})
