// Package mongo connects to the document store and provisions its indexes.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names.
const (
	CollectionUsers       = "users"
	CollectionRoles       = "roles"
	CollectionPermissions = "permissions"
	CollectionProducts    = "products"
	CollectionSales       = "sales"
)

// ErrConnect is returned when every connection attempt failed.
var ErrConnect = errors.New("platform/mongo: failed to connect")

// Options configures the client.
type Options struct {
	URL             string
	Database        string
	ConnectTimeout  time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
	RetryAttempts   int
	RetryInterval   time.Duration
}

// New connects and pings, retrying up to RetryAttempts times.
func New(ctx context.Context, opts Options) (*mongo.Client, error) {
	if opts.URL == "" {
		return nil, errors.New("platform/mongo: url required")
	}
	attempts := opts.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(opts.URL).
				SetConnectTimeout(opts.ConnectTimeout).
				SetMaxPoolSize(opts.MaxPoolSize).
				SetMinPoolSize(opts.MinPoolSize).
				SetMaxConnIdleTime(opts.MaxConnIdleTime),
		)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = client.Ping(pingCtx, nil)
			cancel()
			if err == nil {
				return client, nil
			}
			_ = client.Disconnect(ctx)
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnect, ctx.Err())
		case <-time.After(opts.RetryInterval):
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrConnect, lastErr)
}

// Healthcheck returns a probe that pings the server.
func Healthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx, nil); err != nil {
			return fmt.Errorf("platform/mongo: ping: %w", err)
		}
		return nil
	}
}
