package streamsink

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/batchcorp/streamsink/backends/kafka"
	"github.com/batchcorp/streamsink/backends/mongo"
	"github.com/batchcorp/streamsink/options"
	"github.com/batchcorp/streamsink/relay"
	"github.com/batchcorp/streamsink/types"
)

func newRelayOptions() *options.RelayOptions {
	return &options.RelayOptions{
		Kafka: options.KafkaOptions{
			Address: []string{"kafka:9092"},
			Topic:   "device-stream-topic",
			Timeout: time.Second,
		},
		ConsumerGroup:     "device-stream-group",
		OffsetReset:       "earliest",
		MongoURL:          "mongodb://mongo:27017",
		MongoDatabase:     "SCM",
		MongoCollection:   "device_stream",
		RetryInterval:     2 * time.Second,
		MaxConnectRetries: 3,
		ListenAddress:     ":0",
	}
}

var _ = Describe("Streamsink", func() {
	var s *Streamsink

	BeforeEach(func() {
		var err error

		s, err = New(&Config{
			ServiceShutdownCtx: context.Background(),
			CLIOptions: &options.CLIOptions{
				Relay: *newRelayOptions(),
			},
		})
		Expect(err).ToNot(HaveOccurred())
	})

	Context("New", func() {
		It("validates config", func() {
			_, err := New(&Config{CLIOptions: &options.CLIOptions{}})
			Expect(errors.Is(err, ErrMissingShutdownCtx)).To(BeTrue())

			_, err = New(&Config{ServiceShutdownCtx: context.Background()})
			Expect(errors.Is(err, ErrMissingOptions)).To(BeTrue())
		})
	})

	Context("Run", func() {
		It("rejects unknown commands", func() {
			s.CLIOptions.Global.XAction = "tunnel"

			err := s.Run()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unrecognized command"))
		})
	})

	Context("Shutdown", func() {
		It("reports that there was no relay to drain", func() {
			Expect(s.Shutdown()).To(BeFalse())
		})

		It("keeps a relay from being registered afterwards", func() {
			cfg, err := s.buildRelayConfig(newRelayOptions())
			Expect(err).ToNot(HaveOccurred())

			r, err := relay.New(cfg)
			Expect(err).ToNot(HaveOccurred())

			s.Shutdown()

			Expect(s.setRelay(r)).To(BeFalse())
		})

		It("stops a registered relay", func() {
			cfg, err := s.buildRelayConfig(newRelayOptions())
			Expect(err).ToNot(HaveOccurred())

			r, err := relay.New(cfg)
			Expect(err).ToNot(HaveOccurred())

			Expect(s.setRelay(r)).To(BeTrue())
			Expect(s.Shutdown()).To(BeTrue())
			Expect(r.State()).To(Equal(relay.StateStopped))
		})
	})

	Context("buildRelayConfig", func() {
		It("maps relay options", func() {
			cfg, err := s.buildRelayConfig(newRelayOptions())

			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Source.Name()).To(Equal(kafka.BackendName))
			Expect(cfg.Store.Name()).To(Equal(mongo.BackendName))
			Expect(cfg.BootstrapAddresses).To(Equal([]string{"kafka:9092"}))
			Expect(cfg.Topic).To(Equal("device-stream-topic"))
			Expect(cfg.ConsumerGroup).To(Equal("device-stream-group"))
			Expect(cfg.OffsetReset).To(Equal(types.OffsetResetEarliest))
			Expect(cfg.StoreURI).To(Equal("mongodb://mongo:27017"))
			Expect(cfg.DatabaseName).To(Equal("SCM"))
			Expect(cfg.CollectionName).To(Equal("device_stream"))
			Expect(cfg.RetryInterval).To(Equal(2 * time.Second))
			Expect(cfg.MaxConnectRetries).To(Equal(3))
			Expect(cfg.Heartbeat).To(BeNil())

			_, err = relay.New(cfg)
			Expect(err).ToNot(HaveOccurred())
		})

		It("rejects an unknown offset reset", func() {
			opts := newRelayOptions()
			opts.OffsetReset = "middle"

			_, err := s.buildRelayConfig(opts)
			Expect(err).To(Equal(types.ErrInvalidOffsetReset))
		})

		It("requires a broker address", func() {
			opts := newRelayOptions()
			opts.Kafka.Address = nil

			_, err := s.buildRelayConfig(opts)
			Expect(errors.Is(err, kafka.ErrMissingAddress)).To(BeTrue())
		})
	})

	Context("HandleRelayCmd", func() {
		It("returns the exhausted error when nothing is reachable", func() {
			opts := newRelayOptions()
			opts.Kafka.Address = []string{"127.0.0.1:1"}
			opts.Kafka.Timeout = 100 * time.Millisecond
			opts.MongoURL = "not-a-mongo-uri"
			opts.RetryInterval = 10 * time.Millisecond
			opts.MaxConnectRetries = 1

			s.CLIOptions.Relay = *opts

			err := s.HandleRelayCmd()
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, relay.ErrConnectionExhausted)).To(BeTrue())
		})

		It("does not start once a shutdown was requested", func() {
			s.Shutdown()

			Expect(s.HandleRelayCmd()).To(Succeed())
		})
	})

	Context("generateWriteValues", func() {
		var dir string

		BeforeEach(func() {
			var err error

			dir, err = ioutil.TempDir("", "streamsink")
			Expect(err).ToNot(HaveOccurred())
		})

		AfterEach(func() {
			os.RemoveAll(dir)
		})

		It("uses input data", func() {
			values, err := generateWriteValues(&options.WriteOptions{InputData: `{"id":1,"temp":20}`})

			Expect(err).ToNot(HaveOccurred())
			Expect(values).To(Equal([][]byte{[]byte(`{"id":1,"temp":20}`)}))
		})

		It("reads one record per line from a file", func() {
			file := filepath.Join(dir, "records.json")

			Expect(ioutil.WriteFile(file, []byte("{\"id\":1}\n\n  {\"id\":2}  \n"), 0644)).To(Succeed())

			values, err := generateWriteValues(&options.WriteOptions{InputFile: file})

			Expect(err).ToNot(HaveOccurred())
			Expect(values).To(Equal([][]byte{[]byte(`{"id":1}`), []byte(`{"id":2}`)}))
		})

		It("requires input", func() {
			_, err := generateWriteValues(&options.WriteOptions{})
			Expect(err).To(Equal(ErrMissingInput))
		})

		It("refuses records the relay would skip", func() {
			_, err := generateWriteValues(&options.WriteOptions{InputData: `[1,2,3]`})

			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, relay.ErrNotJSONObject)).To(BeTrue())
		})
	})

	Context("HandleWriteCmd", func() {
		It("requires a topic", func() {
			s.CLIOptions.Write = options.WriteOptions{
				Kafka:     options.KafkaOptions{Address: []string{"kafka:9092"}},
				InputData: `{"id":1}`,
			}

			Expect(s.HandleWriteCmd()).To(Equal(ErrMissingWriteTopic))
		})
	})
})
