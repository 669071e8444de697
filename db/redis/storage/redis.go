package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis"
	pkgerrors "github.com/pkg/errors"
)

// ErrNotFound is the error returned when the given key is not found.
var ErrNotFound = errors.New("not found")

// Storage is the basic type that provides methods for saving, listing and
// deleting types on Redis.
type Storage struct {
	config *Config
	client *redis.Client
}

// Config contains configuration for the Redis, in the standard proposed by
// Gizmo.
type Config struct {
	// Comma-separated list of sentinel servers.
	//
	// Example: 10.10.10.10:6379,10.10.10.1:6379,10.10.10.2:6379.
	SentinelAddrs      string `envconfig:"SENTINEL_ADDRS"`
	SentinelMasterName string `envconfig:"SENTINEL_MASTER_NAME"`

	RedisAddr          string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	Password           string `envconfig:"REDIS_PASSWORD"`
	PoolSize           int    `envconfig:"REDIS_POOL_SIZE"`
	PoolTimeout        int    `envconfig:"REDIS_POOL_TIMEOUT_SECONDS"`
	IdleTimeout        int    `envconfig:"REDIS_IDLE_TIMEOUT_SECONDS"`
	IdleCheckFrequency int    `envconfig:"REDIS_IDLE_CHECK_FREQUENCY_SECONDS"`
}

// NewStorage returns a new instance of storage with the given configuration.
// A sentinel (failover) client is used when SentinelAddrs is set.
func NewStorage(cfg *Config) (*Storage, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	var client *redis.Client
	if cfg.SentinelAddrs != "" {
		client = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:         cfg.SentinelMasterName,
			SentinelAddrs:      strings.Split(cfg.SentinelAddrs, ","),
			Password:           cfg.Password,
			PoolSize:           cfg.PoolSize,
			PoolTimeout:        seconds(cfg.PoolTimeout),
			IdleTimeout:        seconds(cfg.IdleTimeout),
			IdleCheckFrequency: seconds(cfg.IdleCheckFrequency),
		})
	} else {
		addr := cfg.RedisAddr
		if addr == "" {
			addr = "127.0.0.1:6379"
		}
		client = redis.NewClient(&redis.Options{
			Addr:               addr,
			Password:           cfg.Password,
			PoolSize:           cfg.PoolSize,
			PoolTimeout:        seconds(cfg.PoolTimeout),
			IdleTimeout:        seconds(cfg.IdleTimeout),
			IdleCheckFrequency: seconds(cfg.IdleCheckFrequency),
		})
	}
	return &Storage{config: cfg, client: client}, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// RedisClient returns the underlying client, for transactions.
func (s *Storage) RedisClient() *redis.Client {
	return s.client
}

// Ping checks the connection to the server.
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.WithContext(ctx).Ping().Err()
}

// Save stores the JSON encoding of val under key.
func (s *Storage) Save(ctx context.Context, key string, val interface{}) error {
	data, err := json.Marshal(val)
	if err != nil {
		return pkgerrors.Wrapf(err, "encoding %q", key)
	}
	return s.client.WithContext(ctx).Set(key, string(data), 0).Err()
}

// Load decodes the value stored under key into out.
func (s *Storage) Load(ctx context.Context, key string, out interface{}) error {
	val, err := s.client.WithContext(ctx).Get(key).Result()
	if err == redis.Nil {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return pkgerrors.Wrapf(json.Unmarshal([]byte(val), out), "decoding %q", key)
}

// Delete removes key. It returns ErrNotFound if there was nothing to delete.
func (s *Storage) Delete(ctx context.Context, key string) error {
	n, err := s.client.WithContext(ctx).Del(key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
