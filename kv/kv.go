// Package kv is a small key/value capability with native expiry, backed by
// redis. It is shared state for anything that must survive a process restart
// or be visible to every relay instance: instance heartbeats, and short-lived
// entries such as one-time codes that would otherwise live in an in-process
// map.
package kv

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPrefix = "streamsink"

	// ConnectionTimeout determines how long New() waits for redis to answer a PING
	ConnectionTimeout = 5 * time.Second
)

var (
	ErrMissingConfig  = errors.New("kv config cannot be nil")
	ErrMissingAddress = errors.New("Address cannot be empty")
	ErrMissingKey     = errors.New("key cannot be empty")
	ErrInvalidTTL     = errors.New("ttl must be greater than zero")
	ErrNotFound       = errors.New("key not found or expired")
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . IKV
type IKV interface {
	// Put stores value under key; the entry disappears after ttl
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetIfValid returns ErrNotFound for keys that were never set, were
	// deleted or have expired
	GetIfValid(ctx context.Context, key string) ([]byte, error)

	Delete(ctx context.Context, key string) error
}

type Config struct {
	Address  string
	Username string
	Password string
	Database int

	// Prefix namespaces every key; defaults to DefaultPrefix
	Prefix string
}

type KV struct {
	*Config

	client *redis.Client
	log    *logrus.Entry
}

func New(cfg *Config) (*KV, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate kv config")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "unable to ping redis at '%s'", cfg.Address)
	}

	return &KV{
		Config: cfg,
		client: client,
		log:    logrus.WithField("pkg", "kv"),
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return ErrMissingConfig
	}

	if cfg.Address == "" {
		return ErrMissingAddress
	}

	if cfg.Username != "" && cfg.Password == "" {
		return errors.New("missing password (either use only password or fill out both)")
	}

	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}

	return nil
}

func (k *KV) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrMissingKey
	}

	if ttl <= 0 {
		return ErrInvalidTTL
	}

	if err := k.client.Set(ctx, k.key(key), value, ttl).Err(); err != nil {
		return errors.Wrapf(err, "unable to put key '%s'", key)
	}

	return nil
}

func (k *KV) GetIfValid(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrMissingKey
	}

	value, err := k.client.Get(ctx, k.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}

		return nil, errors.Wrapf(err, "unable to get key '%s'", key)
	}

	return value, nil
}

func (k *KV) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrMissingKey
	}

	if err := k.client.Del(ctx, k.key(key)).Err(); err != nil {
		return errors.Wrapf(err, "unable to delete key '%s'", key)
	}

	return nil
}

func (k *KV) Close() error {
	return k.client.Close()
}

func (k *KV) key(key string) string {
	return k.Prefix + ":" + key
}
