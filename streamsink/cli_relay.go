package streamsink

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/batchcorp/streamsink/api"
	"github.com/batchcorp/streamsink/backends/kafka"
	"github.com/batchcorp/streamsink/backends/mongo"
	"github.com/batchcorp/streamsink/kv"
	"github.com/batchcorp/streamsink/options"
	"github.com/batchcorp/streamsink/prometheus"
	"github.com/batchcorp/streamsink/relay"
	"github.com/batchcorp/streamsink/types"
)

// APIShutdownTimeout bounds how long in-flight HTTP requests get on exit
const APIShutdownTimeout = 5 * time.Second

// HandleRelayCmd runs the relay until it is shut down. It only returns an
// error for bad options or when the relay gives up connecting.
func (s *Streamsink) HandleRelayCmd() error {
	opts := &s.CLIOptions.Relay

	prometheus.InitPrometheusMetrics()

	relayCfg, err := s.buildRelayConfig(opts)
	if err != nil {
		return errors.Wrap(err, "unable to build relay config")
	}

	var store *kv.KV

	if opts.RedisAddress != "" {
		store, err = kv.New(&kv.Config{
			Address:  opts.RedisAddress,
			Username: opts.RedisUsername,
			Password: opts.RedisPassword,
			Database: opts.RedisDatabase,
		})
		if err != nil {
			return errors.Wrap(err, "unable to create kv store for heartbeats")
		}

		defer store.Close()

		relayCfg.Heartbeat = &relay.HeartbeatConfig{
			KV:       store,
			Interval: opts.HeartbeatInterval,
		}
	}

	r, err := relay.New(relayCfg)
	if err != nil {
		return errors.Wrap(err, "unable to create relay")
	}

	if !s.setRelay(r) {
		s.log.Info("shutdown requested before the relay started")
		return nil
	}

	apiCfg := &api.Config{
		ListenAddress: opts.ListenAddress,
		Version:       options.VERSION,
		Relay:         r,
		ConsumerGroup: opts.ConsumerGroup,
	}

	// Avoid storing a typed nil in the interface
	if store != nil {
		apiCfg.KV = store
	}

	srv, err := api.Start(apiCfg)
	if err != nil {
		return errors.Wrap(err, "unable to start API server")
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), APIShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			s.log.Errorf("unable to shutdown API server: %s", err)
		}
	}()

	if s.CLIOptions.Global.Stats {
		prometheus.Start(s.CLIOptions.Global.StatsReportInterval)
		defer prometheus.Stop()
	}

	// Blocks until the relay is stopped
	if err := r.Start(s.ServiceShutdownCtx); err != nil {
		return errors.Wrap(err, "relay exited")
	}

	stats := r.Stats()

	s.log.Infof("relay exiting; relayed '%d', skipped '%d', failed '%d' record(s)",
		stats.Relayed, stats.Skipped, stats.Failed)

	return nil
}

// buildRelayConfig maps relay options onto a relay config backed by kafka and
// mongo. Nothing is dialed here.
func (s *Streamsink) buildRelayConfig(opts *options.RelayOptions) (*relay.Config, error) {
	reset, err := types.ParseOffsetReset(opts.OffsetReset)
	if err != nil {
		return nil, err
	}

	source, err := kafka.New(kafkaConfig(&opts.Kafka))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create kafka source")
	}

	return &relay.Config{
		Source:             source,
		Store:              mongo.New(),
		BootstrapAddresses: opts.Kafka.Address,
		Topic:              opts.Kafka.Topic,
		ConsumerGroup:      opts.ConsumerGroup,
		OffsetReset:        reset,
		StoreURI:           opts.MongoURL,
		DatabaseName:       opts.MongoDatabase,
		CollectionName:     opts.MongoCollection,
		RetryInterval:      opts.RetryInterval,
		MaxConnectRetries:  opts.MaxConnectRetries,
	}, nil
}

func kafkaConfig(opts *options.KafkaOptions) *kafka.Config {
	return &kafka.Config{
		Address:       opts.Address,
		Timeout:       opts.Timeout,
		TLSSkipVerify: opts.TLSSkipVerify,
		SASLType:      opts.SASLType,
		SASLUsername:  opts.SASLUsername,
		SASLPassword:  opts.SASLPassword,
	}
}
