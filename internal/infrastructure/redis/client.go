// Package redis opens go-redis clients for the suggestion cache.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDialTimeout bounds dialing and the startup PING when neither the
// config nor the caller's context sets a limit.
const DefaultDialTimeout = 3 * time.Second

// ErrEmptyAddress is returned when no address is configured.
var ErrEmptyAddress = errors.New("redis address is required")

// Config is the connection section of the service config.
type Config struct {
	Address     string        `env:"REDIS_ADDRESS"      yaml:"address"`
	Password    string        `env:"REDIS_PASSWORD"     yaml:"password"`
	DB          int           `env:"REDIS_DB"           yaml:"db"`
	PoolSize    int           `env:"REDIS_POOL_SIZE"    yaml:"pool_size"`
	DialTimeout time.Duration `env:"REDIS_DIAL_TIMEOUT" yaml:"dial_timeout"`
}

// Options translates the config into go-redis options. A zero PoolSize
// keeps the go-redis default.
func (c Config) Options() (*redis.Options, error) {
	if c.Address == "" {
		return nil, ErrEmptyAddress
	}
	if c.DB < 0 {
		return nil, fmt.Errorf("redis db %d: must not be negative", c.DB)
	}
	dial := c.DialTimeout
	if dial <= 0 {
		dial = DefaultDialTimeout
	}
	return &redis.Options{
		Addr:        c.Address,
		Password:    c.Password,
		DB:          c.DB,
		PoolSize:    c.PoolSize,
		DialTimeout: dial,
	}, nil
}

// Connect opens a client and checks it with PING. The check runs under ctx,
// limited to the dial timeout when ctx has no deadline of its own.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
	}
	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		return nil, errors.Join(fmt.Errorf("redis ping %s: %w", cfg.Address, pingErr), client.Close())
	}
	return client, nil
}
