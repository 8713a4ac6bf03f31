// Package streamsink wires CLI options to the relay, its backends and the
// operational HTTP API.
package streamsink

import (
	"context"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/streamsink/options"
	"github.com/batchcorp/streamsink/relay"
)

var (
	ErrMissingShutdownCtx = errors.New("ServiceShutdownCtx cannot be nil")
	ErrMissingOptions     = errors.New("CLIOptions cannot be nil")
)

// Config contains configurable options for instantiating a new Streamsink
type Config struct {
	// ServiceShutdownCtx is cancelled to force an immediate shutdown; a
	// graceful shutdown goes through Shutdown()
	ServiceShutdownCtx context.Context
	CLIOptions         *options.CLIOptions
	KongCtx            *kong.Context
}

type Streamsink struct {
	*Config

	relay        *relay.Relay
	shuttingDown bool
	relayMtx     *sync.Mutex
	log      *logrus.Entry
}

// New instantiates a properly configured instance of Streamsink or a config error
func New(cfg *Config) (*Streamsink, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate config")
	}

	return &Streamsink{
		Config:   cfg,
		relayMtx: &sync.Mutex{},
		log:      logrus.WithField("pkg", "streamsink"),
	}, nil
}

// Run executes the parsed CLI command. It blocks until the command is done.
func (s *Streamsink) Run() error {
	switch s.CLIOptions.Global.XAction {
	case "relay":
		return s.HandleRelayCmd()
	case "write":
		return s.HandleWriteCmd()
	}

	return errors.Errorf("unrecognized command: %s", s.CLIOptions.Global.XAction)
}

// Shutdown gracefully stops a running relay and reports whether there was
// one to stop. Safe to call more than once.
func (s *Streamsink) Shutdown() bool {
	s.relayMtx.Lock()
	s.shuttingDown = true
	r := s.relay
	s.relayMtx.Unlock()

	if r == nil {
		return false
	}

	r.Stop()

	return true
}

// setRelay registers r for Shutdown(); it returns false if a shutdown has
// already been requested
func (s *Streamsink) setRelay(r *relay.Relay) bool {
	s.relayMtx.Lock()
	defer s.relayMtx.Unlock()

	if s.shuttingDown {
		return false
	}

	s.relay = r

	return true
}

// validateConfig ensures all correct values for Config are passed
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.ServiceShutdownCtx == nil {
		return ErrMissingShutdownCtx
	}

	if cfg.CLIOptions == nil {
		return ErrMissingOptions
	}

	return nil
}
