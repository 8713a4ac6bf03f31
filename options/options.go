// Package options holds every CLI option streamsink understands. Options can
// be set via flags or environment variables; only "light" validation happens
// here, the rest is left to the packages consuming the options.
package options

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
)

var (
	VERSION = "UNSET"
)

type CLIOptions struct {
	Global GlobalOptions `embed:""`

	Relay RelayOptions `cmd:"" help:"Relay records from a Kafka topic into a MongoDB collection"`
	Write WriteOptions `cmd:"" help:"Write JSON records to a Kafka topic"`
}

type GlobalOptions struct {
	Debug               bool          `help:"Enable debug output" env:"STREAMSINK_DEBUG"`
	Stats               bool          `help:"Periodically display relay stats" env:"STREAMSINK_STATS"`
	StatsReportInterval time.Duration `help:"How often to display stats" default:"10s" env:"STREAMSINK_STATS_REPORT_INTERVAL"`
	Version             bool          `help:"Display version and exit"`

	// Set after parsing
	XAction      string `kong:"-"`
	XFullCommand string `kong:"-"`
}

// KafkaOptions is embedded by every command that talks to kafka; flag names
// are spelled out since both commands share them.
type KafkaOptions struct {
	Address       []string      `name:"kafka-address" help:"Kafka bootstrap address(es)" default:"kafka:9092" env:"STREAMSINK_KAFKA_BOOTSTRAP" sep:","`
	Topic         string        `name:"kafka-topic" help:"Topic to relay from or write to" default:"device-stream-topic" env:"STREAMSINK_KAFKA_TOPIC"`
	Timeout       time.Duration `name:"kafka-timeout" help:"Connect timeout" default:"10s" env:"STREAMSINK_KAFKA_TIMEOUT"`
	TLSSkipVerify bool          `name:"kafka-tls-skip-verify" help:"Skip TLS certificate verification (enables TLS)" env:"STREAMSINK_KAFKA_TLS_SKIP_VERIFY"`
	SASLType      string        `name:"kafka-sasl-type" help:"SASL mechanism, used when a SASL username is set" enum:"plain,scram" default:"plain" env:"STREAMSINK_KAFKA_SASL_TYPE"`
	SASLUsername  string        `name:"kafka-sasl-username" help:"SASL username" env:"STREAMSINK_KAFKA_SASL_USERNAME"`
	SASLPassword  string        `name:"kafka-sasl-password" help:"SASL password" env:"STREAMSINK_KAFKA_SASL_PASSWORD"`
}

type RelayOptions struct {
	Kafka KafkaOptions `embed:""`

	ConsumerGroup string `help:"Kafka consumer group" default:"device-stream-group" env:"STREAMSINK_KAFKA_CONSUMER_GROUP" name:"kafka-consumer-group"`
	OffsetReset   string `help:"Where a new consumer group starts reading" enum:"earliest,latest" default:"latest" env:"STREAMSINK_KAFKA_OFFSET_RESET" name:"kafka-offset-reset"`

	MongoURL        string `help:"MongoDB connection string" required:"" env:"STREAMSINK_MONGO_URL"`
	MongoDatabase   string `help:"MongoDB database" default:"SCM" env:"STREAMSINK_MONGO_DATABASE"`
	MongoCollection string `help:"MongoDB collection" default:"device_stream" env:"STREAMSINK_MONGO_COLLECTION"`

	RetryInterval     time.Duration `help:"Wait between connection attempts" default:"5s" env:"STREAMSINK_RETRY_INTERVAL"`
	MaxConnectRetries int           `help:"Give up after this many connection retries (0 = retry forever)" default:"0" env:"STREAMSINK_MAX_CONNECT_RETRIES"`

	ListenAddress string `help:"Address for the health, readiness and metrics endpoints" default:":8080" env:"STREAMSINK_LISTEN_ADDRESS"`

	RedisAddress      string        `help:"Redis address; enables relay heartbeats" env:"STREAMSINK_REDIS_ADDRESS"`
	RedisUsername     string        `help:"Redis username (redis >= v6.0.0)" env:"STREAMSINK_REDIS_USERNAME"`
	RedisPassword     string        `help:"Redis password" env:"STREAMSINK_REDIS_PASSWORD"`
	RedisDatabase     int           `help:"Redis database (0-16)" default:"0" env:"STREAMSINK_REDIS_DATABASE"`
	HeartbeatInterval time.Duration `help:"How often to report relay heartbeats" default:"10s" env:"STREAMSINK_HEARTBEAT_INTERVAL"`
}

type WriteOptions struct {
	Kafka KafkaOptions `embed:""`

	InputData string `help:"JSON record to write"`
	InputFile string `help:"File with one JSON record per line" type:"existingfile"`
}

// legacyEnvars maps the variable names used by earlier consumer deployments
// to their STREAMSINK_ equivalents. The STREAMSINK_ name wins when both are set.
var legacyEnvars = map[string]string{
	"KAFKA_BOOTSTRAP":      "STREAMSINK_KAFKA_BOOTSTRAP",
	"KAFKA_TOPIC":          "STREAMSINK_KAFKA_TOPIC",
	"KAFKA_CONSUMER_GROUP": "STREAMSINK_KAFKA_CONSUMER_GROUP",
	"MONGO_URL":            "STREAMSINK_MONGO_URL",
}

func New(args []string) (*kong.Context, *CLIOptions, error) {
	cliOpts := &CLIOptions{}

	maybeDisplayVersion(os.Args)
	applyLegacyEnvars()

	k, err := kong.New(
		cliOpts,
		kong.Name("streamsink"),
		kong.Description("Relay device records from Kafka into MongoDB"),
		kong.ShortUsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create new kong instance")
	}

	kongCtx, err := k.Parse(args)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to parse CLI options")
	}

	cliOpts.Global.XAction = strings.Split(kongCtx.Command(), " ")[0]
	cliOpts.Global.XFullCommand = strings.Join(args, " ")

	return kongCtx, cliOpts, nil
}

func maybeDisplayVersion(args []string) {
	for _, f := range args {
		if f == "--version" {
			fmt.Println(VERSION)
			os.Exit(0)
		}
	}
}

func applyLegacyEnvars() {
	for legacy, current := range legacyEnvars {
		if _, ok := os.LookupEnv(current); ok {
			continue
		}

		if value, ok := os.LookupEnv(legacy); ok {
			os.Setenv(current, value)
		}
	}
}
