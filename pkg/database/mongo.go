package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"tourism-platform/pkg/logging"
)

// MongoConfig holds MongoDB connection configuration
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// MongoDB wraps a connected client and the selected database.
type MongoDB struct {
	client *mongo.Client
	db     *mongo.Database
	logger *logging.StructuredLogger
}

// NewMongoDB connects and pings the server before returning.
func NewMongoDB(ctx context.Context, cfg *MongoConfig, logger *logging.StructuredLogger) (*MongoDB, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetRetryWrites(true).
		SetRetryReads(true)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info(ctx, "[DB_INIT] MongoDB connection established", logging.Fields{
		"database": cfg.Database,
	})

	return &MongoDB{client: client, db: client.Database(cfg.Database), logger: logger}, nil
}

// Collection returns a handle on the named collection.
func (m *MongoDB) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// HealthCheck pings the primary.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := m.client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb health check failed: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	m.logger.Info(ctx, "[DB_CLOSE] Closing MongoDB connection", logging.Fields{"database": m.db.Name()})
	return m.client.Disconnect(ctx)
}
