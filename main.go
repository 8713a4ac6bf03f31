package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/batchcorp/streamsink/options"
	"github.com/batchcorp/streamsink/streamsink"
)

func main() {
	kongCtx, cliOpts, err := options.New(os.Args[1:])
	if err != nil {
		logrus.Fatalf("Unable to handle CLI input: %s", err)
	}

	if cliOpts.Global.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// JSON formatter for log output if not running in a TTY - colors are fun!
	if !terminal.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	serviceCtx, serviceShutdownFunc := context.WithCancel(context.Background())
	defer serviceShutdownFunc()

	s, err := streamsink.New(&streamsink.Config{
		ServiceShutdownCtx: serviceCtx,
		CLIOptions:         cliOpts,
		KongCtx:            kongCtx,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	go handleSignals(s, serviceShutdownFunc)

	if err := s.Run(); err != nil {
		logrus.Fatalf("Unable to complete command: %s", err)
	}
}

// handleSignals drains the relay on the first signal and aborts the in-flight
// insert on the second. Without a relay to drain the first signal cancels
// right away.
func handleSignals(s *streamsink.Streamsink, shutdownFunc context.CancelFunc) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	sig := <-c
	logrus.Infof("received signal '%s', shutting down (send again to force)", sig)

	go func() {
		if !s.Shutdown() {
			shutdownFunc()
		}
	}()

	sig = <-c
	logrus.Warnf("received signal '%s' again, forcing shutdown", sig)

	shutdownFunc()
}
