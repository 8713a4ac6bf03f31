package streamsink

import (
	"bufio"
	"bytes"
	"context"
	"io/ioutil"
	"time"

	"github.com/pkg/errors"

	"github.com/batchcorp/streamsink/backends/kafka"
	"github.com/batchcorp/streamsink/options"
	"github.com/batchcorp/streamsink/relay"
)

// WriteTimeout bounds a single write command
const WriteTimeout = 10 * time.Second

var (
	ErrMissingInput      = errors.New("either --input-data or --input-file must be specified")
	ErrMissingWriteTopic = errors.New("--kafka-topic cannot be empty")
)

// HandleWriteCmd handles write mode
func (s *Streamsink) HandleWriteCmd() error {
	opts := &s.CLIOptions.Write

	if opts.Kafka.Topic == "" {
		return ErrMissingWriteTopic
	}

	values, err := generateWriteValues(opts)
	if err != nil {
		return errors.Wrap(err, "unable to generate write values")
	}

	k, err := kafka.New(kafkaConfig(&opts.Kafka))
	if err != nil {
		return errors.Wrap(err, "unable to create kafka backend")
	}

	ctx, cancel := context.WithTimeout(s.ServiceShutdownCtx, WriteTimeout)
	defer cancel()

	if err := k.Write(ctx, opts.Kafka.Topic, values...); err != nil {
		return errors.Wrap(err, "unable to complete write(s)")
	}

	s.log.Infof("Successfully wrote '%d' message(s)", len(values))

	return nil
}

// generateWriteValues collects the records to write. Every record must be
// something the relay would accept, otherwise nothing is written.
func generateWriteValues(opts *options.WriteOptions) ([][]byte, error) {
	values := make([][]byte, 0)

	if opts.InputData != "" {
		values = append(values, []byte(opts.InputData))
	}

	if opts.InputFile != "" {
		data, err := ioutil.ReadFile(opts.InputFile)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read input file '%s'", opts.InputFile)
		}

		scanner := bufio.NewScanner(bytes.NewReader(data))

		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			// Scanner reuses its buffer
			values = append(values, append([]byte(nil), line...))
		}

		if err := scanner.Err(); err != nil {
			return nil, errors.Wrapf(err, "unable to scan input file '%s'", opts.InputFile)
		}
	}

	if len(values) == 0 {
		return nil, ErrMissingInput
	}

	for i, v := range values {
		if _, err := relay.Decode(v); err != nil {
			return nil, errors.Wrapf(err, "record %d is not a valid JSON object", i+1)
		}
	}

	return values, nil
}
